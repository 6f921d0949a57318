package calls

import "errors"

// ErrCallNotFound is returned when no call record exists for a call_id.
// Event ordering is not guaranteed by the transport, so callers treat this as
// a tolerated outcome rather than a failure.
var ErrCallNotFound = errors.New("call record not found")
