package customers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines customer storage as used by the webhook processor.
type Repository interface {
	// FindByPhone looks up a customer by exact normalized phone match.
	// Lookup is global, not scoped to a company; see DESIGN.md.
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	// CreatePlaceholder inserts a minimal customer for an inbound caller.
	CreatePlaceholder(ctx context.Context, companyID uuid.UUID, phone string) (*Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// Apply writes a partial update; an empty update performs no write.
	Apply(ctx context.Context, id uuid.UUID, u Update) error
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
