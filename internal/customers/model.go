package customers

import (
	"time"

	"github.com/google/uuid"
)

// Placeholder name pair assigned to customers created from an inbound call
// before the caller identifies themselves. The merge policy only replaces
// names while this exact pair is still present.
const (
	PlaceholderFirstName = "Inbound"
	PlaceholderLastName  = "Caller"
)

// Customer is a CRM customer row as seen by the webhook processor. Other CRM
// code paths also write these rows, so all mutations here are partial updates.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPlaceholderName reports whether the record still carries the default
// inbound-caller name pair.
func (c *Customer) HasPlaceholderName() bool {
	return c.FirstName == PlaceholderFirstName && c.LastName == PlaceholderLastName
}

// HasAddress reports whether any address component holds a non-empty value.
// The merge policy treats the address as a single group: one populated
// component blocks all inferred address writes.
func (c *Customer) HasAddress() bool {
	for _, v := range []string{c.Address, c.City, c.State, c.Zip} {
		if len(trimmed(v)) > 0 {
			return true
		}
	}
	return false
}
