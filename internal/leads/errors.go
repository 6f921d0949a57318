package leads

import "errors"

var (
	// ErrLeadNotFound is returned when no lead matches the lookup.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrMissingCompanyID is returned when a create request has no company.
	ErrMissingCompanyID = errors.New("company id is required")
	// ErrMissingCustomerID is returned when a create request has no customer.
	ErrMissingCustomerID = errors.New("customer id is required")
)
