package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository stores customers in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const customerColumns = `id, company_id, phone, first_name, last_name, address, city, state, zip_code, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID,
		&c.CompanyID,
		&c.Phone,
		&c.FirstName,
		&c.LastName,
		&c.Address,
		&c.City,
		&c.State,
		&c.Zip,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("customers: scan failed: %w", err)
	}
	return &c, nil
}

// FindByPhone looks up a customer by exact normalized phone match.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE phone = $1
		LIMIT 1
	`
	return scanCustomer(r.pool.QueryRow(ctx, query, phone))
}

// GetByID fetches a customer row.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE id = $1
	`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// CreatePlaceholder inserts a minimal customer for an inbound caller.
func (r *PostgresRepository) CreatePlaceholder(ctx context.Context, companyID uuid.UUID, phone string) (*Customer, error) {
	id := uuid.New()
	query := `
		INSERT INTO customers (id, company_id, phone, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		companyID,
		phone,
		PlaceholderFirstName,
		PlaceholderLastName,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("customers: insert failed: %w", err)
	}

	return &Customer{
		ID:        id,
		CompanyID: companyID,
		Phone:     phone,
		FirstName: PlaceholderFirstName,
		LastName:  PlaceholderLastName,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// Apply writes a partial update built by the merge policy. Only fields present
// in the update are touched; an empty update is a no-op.
func (r *PostgresRepository) Apply(ctx context.Context, id uuid.UUID, u Update) error {
	if u.IsEmpty() {
		return nil
	}

	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	args = append(args, id)

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("first_name", u.FirstName)
	add("last_name", u.LastName)
	add("address", u.Address)
	add("city", u.City)
	add("state", u.State)
	add("zip_code", u.Zip)
	sets = append(sets, "updated_at = now()")

	query := fmt.Sprintf("UPDATE customers SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("customers: update failed: %w", err)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
