package companies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresStore reads companies and company_settings from the database.
type PostgresStore struct {
	pool PgxPool
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(pool PgxPool) *PostgresStore {
	if pool == nil {
		panic("companies: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// ResolveInboundAgent maps a voice-agent id to the company that owns it.
func (s *PostgresStore) ResolveInboundAgent(ctx context.Context, agentID string) (uuid.UUID, error) {
	query := `
		SELECT company_id
		FROM company_settings
		WHERE setting_key = $1 AND setting_value = $2
		LIMIT 1
	`
	var companyID uuid.UUID
	err := s.pool.QueryRow(ctx, query, SettingInboundAgentID, agentID).Scan(&companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrCompanyNotFound
		}
		return uuid.Nil, fmt.Errorf("companies: agent lookup failed: %w", err)
	}
	return companyID, nil
}

// NotificationSettings reads the tenant's call-summary email preferences.
// Missing rows mean notifications are off.
func (s *PostgresStore) NotificationSettings(ctx context.Context, companyID uuid.UUID) (NotificationSettings, error) {
	query := `
		SELECT setting_key, setting_value
		FROM company_settings
		WHERE company_id = $1 AND setting_key = ANY($2)
	`
	keys := []string{SettingCallSummaryEnabled, SettingCallSummaryRecipients}
	rows, err := s.pool.Query(ctx, query, companyID, keys)
	if err != nil {
		return NotificationSettings{}, fmt.Errorf("companies: settings lookup failed: %w", err)
	}
	defer rows.Close()

	var out NotificationSettings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return NotificationSettings{}, fmt.Errorf("companies: settings scan failed: %w", err)
		}
		switch key {
		case SettingCallSummaryEnabled:
			out.Enabled = value == "true"
		case SettingCallSummaryRecipients:
			out.Recipients = ParseRecipients(value)
		}
	}
	if err := rows.Err(); err != nil {
		return NotificationSettings{}, fmt.Errorf("companies: settings rows failed: %w", err)
	}
	return out, nil
}

// CompanyName fetches the display name for email content.
func (s *PostgresStore) CompanyName(ctx context.Context, companyID uuid.UUID) (string, error) {
	var name string
	err := s.pool.QueryRow(ctx, `SELECT name FROM companies WHERE id = $1`, companyID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrCompanyNotFound
		}
		return "", fmt.Errorf("companies: name lookup failed: %w", err)
	}
	return name, nil
}

var _ Store = (*PostgresStore)(nil)
