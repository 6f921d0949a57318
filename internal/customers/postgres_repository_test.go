package customers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

func TestFindByPhoneReturnsCustomer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	companyID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs("+15551234567").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "phone", "first_name", "last_name",
			"address", "city", "state", "zip_code", "created_at", "updated_at",
		}).AddRow(id, companyID, "+15551234567", "Dana", "Reyes", "", "", "", "", now, now))

	repo := NewPostgresRepository(mock)
	c, err := repo.FindByPhone(context.Background(), "+15551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != id || c.FirstName != "Dana" {
		t.Fatalf("unexpected customer: %+v", c)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByPhoneNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs("+15550000000").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "phone", "first_name", "last_name",
			"address", "city", "state", "zip_code", "created_at", "updated_at",
		}))

	repo := NewPostgresRepository(mock)
	_, err = repo.FindByPhone(context.Background(), "+15550000000")
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCreatePlaceholderSetsDefaultNames(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	companyID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(pgxmock.AnyArg(), companyID, "+15551234567", PlaceholderFirstName, PlaceholderLastName).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewPostgresRepository(mock)
	c, err := repo.CreatePlaceholder(context.Background(), companyID, "+15551234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.FirstName != PlaceholderFirstName || c.LastName != PlaceholderLastName {
		t.Fatalf("expected placeholder names, got %q %q", c.FirstName, c.LastName)
	}
	if !c.HasPlaceholderName() {
		t.Fatal("expected HasPlaceholderName to be true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyWritesOnlyProvidedFields(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	first := "Dana"
	city := "Austin"

	mock.ExpectExec("UPDATE customers SET first_name = \\$2, city = \\$3, updated_at = now\\(\\)").
		WithArgs(id, first, city).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresRepository(mock)
	err = repo.Apply(context.Background(), id, Update{FirstName: &first, City: &city})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyEmptyUpdateIsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	if err := repo.Apply(context.Background(), uuid.New(), Update{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No expectations registered; any query would have failed the test.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
