package leads

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines lead storage as used by the webhook processor.
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	// RecordContact appends a call-outcome note and bumps last_contacted_at.
	RecordContact(ctx context.Context, id uuid.UUID, note string) error
	// ApplyQualification moves the lead's status and appends analysis notes.
	ApplyQualification(ctx context.Context, id uuid.UUID, q Qualification) error
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
