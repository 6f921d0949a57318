package companies

import "errors"

// ErrCompanyNotFound is returned when no company claims the agent or id.
var ErrCompanyNotFound = errors.New("company not found")
