package companies

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store resolves tenant identity and per-tenant settings.
type Store interface {
	// ResolveInboundAgent maps a voice-agent id to the company that owns it.
	ResolveInboundAgent(ctx context.Context, agentID string) (uuid.UUID, error)
	// NotificationSettings reads the tenant's call-summary email preferences.
	NotificationSettings(ctx context.Context, companyID uuid.UUID) (NotificationSettings, error)
	CompanyName(ctx context.Context, companyID uuid.UUID) (string, error)
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
