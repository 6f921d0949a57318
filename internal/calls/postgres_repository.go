package calls

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository stores call records in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("calls: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Create inserts the initial in-progress record for a call. call_id is unique;
// a duplicate delivery resolves to the already-created record instead of
// inserting a second one.
func (r *PostgresRepository) Create(ctx context.Context, rec *NewCallRecord) (uuid.UUID, error) {
	id := uuid.New()
	query := `
		INSERT INTO call_records (
			id, call_id, lead_id, customer_id, phone_number, from_number,
			call_status, start_timestamp, retell_variables, opt_out_sensitive_data_storage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (call_id) DO NOTHING
		RETURNING id
	`
	var inserted uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		id,
		rec.CallID,
		rec.LeadID,
		rec.CustomerID,
		rec.PhoneNumber,
		rec.FromNumber,
		StatusInProgress,
		rec.StartTimestamp,
		rec.RetellVariables,
		rec.OptOut,
	).Scan(&inserted)
	if err == nil {
		return inserted, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("calls: insert failed: %w", err)
	}

	// Conflict: another delivery already created the record.
	var existing uuid.UUID
	if err := r.pool.QueryRow(ctx,
		`SELECT id FROM call_records WHERE call_id = $1`, rec.CallID,
	).Scan(&existing); err != nil {
		return uuid.Nil, fmt.Errorf("calls: lookup after conflict failed: %w", err)
	}
	return existing, nil
}

// MarkEnded applies the call_ended update keyed by call_id.
func (r *PostgresRepository) MarkEnded(ctx context.Context, callID string, u EndedUpdate) (*CallRef, error) {
	query := `
		UPDATE call_records
		SET call_status = $2,
		    end_timestamp = $3,
		    duration_seconds = $4,
		    billable_duration_seconds = $5,
		    disconnect_reason = $6,
		    retell_variables = $7,
		    opt_out_sensitive_data_storage = $8,
		    updated_at = now()
		WHERE call_id = $1
		RETURNING id, lead_id, customer_id
	`
	var ref CallRef
	err := r.pool.QueryRow(ctx, query,
		callID,
		u.CallStatus,
		u.EndTimestamp,
		u.DurationSeconds,
		u.BillableSeconds,
		u.DisconnectReason,
		u.RetellVariables,
		u.OptOut,
	).Scan(&ref.ID, &ref.LeadID, &ref.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("calls: ended update failed: %w", err)
	}
	return &ref, nil
}

// MarkAnalyzed stores the analysis payload and final extracted fields.
// Duplicate analyzed events re-apply last-write-wins.
func (r *PostgresRepository) MarkAnalyzed(ctx context.Context, callID string, u AnalyzedUpdate) (*CallRef, error) {
	query := `
		UPDATE call_records
		SET recording_url = $2,
		    transcript = $3,
		    call_analysis = $4,
		    sentiment = $5,
		    home_size = $6,
		    yard_size = $7,
		    pest_issue = $8,
		    street_address = $9,
		    preferred_service_time = $10,
		    retell_variables = $11,
		    opt_out_sensitive_data_storage = $12,
		    updated_at = now()
		WHERE call_id = $1
		RETURNING id, lead_id, customer_id
	`
	var ref CallRef
	err := r.pool.QueryRow(ctx, query,
		callID,
		u.RecordingURL,
		u.Transcript,
		u.CallAnalysis,
		u.Sentiment,
		u.HomeSize,
		u.YardSize,
		u.PestIssue,
		u.StreetAddress,
		u.PreferredServiceTime,
		u.RetellVariables,
		u.OptOut,
	).Scan(&ref.ID, &ref.LeadID, &ref.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("calls: analyzed update failed: %w", err)
	}
	return &ref, nil
}

var _ Repository = (*PostgresRepository)(nil)
