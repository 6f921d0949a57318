package customers

import "strings"

func trimmed(s string) string { return strings.TrimSpace(s) }

// ExtractedProfile carries the inferred name/address fields pulled from a
// call's analysis payload.
type ExtractedProfile struct {
	FirstName string
	LastName  string
	Street    string
	City      string
	State     string
	Zip       string
}

// Update is a partial customer update. Nil fields are left untouched.
type Update struct {
	FirstName *string
	LastName  *string
	Address   *string
	City      *string
	State     *string
	Zip       *string
}

// IsEmpty reports whether the update would write nothing.
func (u Update) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil &&
		u.Address == nil && u.City == nil && u.State == nil && u.Zip == nil
}

// MergeUpdate applies the conservative merge policy: inferred data never
// overwrites customer-entered data.
//
//   - Names are set only while the record still holds the exact placeholder
//     pair ("Inbound"/"Caller").
//   - Address fields are set only when street, city, state, and zip are ALL
//     currently empty, checked as a single group so a partially-known address
//     from another channel is never half-overwritten.
//
// The result is idempotent: re-applying the same extracted data after the
// update produces an empty update.
func MergeUpdate(existing *Customer, p ExtractedProfile) Update {
	var u Update

	if existing.HasPlaceholderName() {
		if v := trimmed(p.FirstName); v != "" && v != existing.FirstName {
			u.FirstName = &v
		}
		if v := trimmed(p.LastName); v != "" && v != existing.LastName {
			u.LastName = &v
		}
	}

	if !existing.HasAddress() {
		if v := trimmed(p.City); v != "" {
			u.City = &v
		}
		if v := trimmed(p.State); v != "" {
			u.State = &v
		}
		if v := trimmed(p.Zip); v != "" {
			u.Zip = &v
		}
		if formatted := FormatAddress(p.Street, p.City, p.State, p.Zip); formatted != "" {
			u.Address = &formatted
		}
	}

	return u
}

// FormatAddress joins the non-empty address components into a single
// comma-separated string.
func FormatAddress(street, city, state, zip string) string {
	var parts []string
	for _, v := range []string{street, city, state, zip} {
		if t := trimmed(v); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}
