package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Comments are append-only: the expression preserves any history written by
// other CRM paths between webhook events.
const appendComment = `CASE WHEN comments IS NULL OR comments = ''
			THEN $2 ELSE comments || E'\n\n' || $2 END`

// Create inserts a new inbound phone lead.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	comment := req.InitialComment()
	query := `
		INSERT INTO leads (id, company_id, customer_id, lead_source, lead_type, lead_status, priority, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.CompanyID,
		req.CustomerID,
		SourceColdCall,
		TypePhoneCall,
		StatusNew,
		PriorityMedium,
		comment,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:         id,
		CompanyID:  req.CompanyID,
		CustomerID: req.CustomerID,
		Source:     SourceColdCall,
		Type:       TypePhoneCall,
		Status:     StatusNew,
		Priority:   PriorityMedium,
		Comments:   comment,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}, nil
}

// RecordContact appends a call-outcome note and bumps last_contacted_at.
func (r *PostgresRepository) RecordContact(ctx context.Context, id uuid.UUID, note string) error {
	query := `
		UPDATE leads
		SET comments = ` + appendComment + `,
			last_contacted_at = now(),
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, note)
	if err != nil {
		return fmt.Errorf("leads: record contact failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// ApplyQualification moves the lead's status and appends analysis notes. With
// no notes only the status is written.
func (r *PostgresRepository) ApplyQualification(ctx context.Context, id uuid.UUID, q Qualification) error {
	if len(q.Notes) == 0 {
		query := `UPDATE leads SET lead_status = $2, updated_at = now() WHERE id = $1`
		tag, err := r.pool.Exec(ctx, query, id, q.Status)
		if err != nil {
			return fmt.Errorf("leads: qualification update failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrLeadNotFound
		}
		return nil
	}

	query := `
		UPDATE leads
		SET lead_status = $3,
			comments = ` + appendComment + `,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, strings.Join(q.Notes, "\n\n"), q.Status)
	if err != nil {
		return fmt.Errorf("leads: qualification update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
