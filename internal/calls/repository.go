package calls

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository defines call record persistence. The webhook processor is the
// exclusive owner of the call record lifecycle.
type Repository interface {
	Create(ctx context.Context, rec *NewCallRecord) (uuid.UUID, error)
	MarkEnded(ctx context.Context, callID string, u EndedUpdate) (*CallRef, error)
	MarkAnalyzed(ctx context.Context, callID string, u AnalyzedUpdate) (*CallRef, error)
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
