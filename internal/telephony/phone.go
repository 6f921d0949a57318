package telephony

import (
	"regexp"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// NormalizePhone reduces a caller phone number to the E.164 form the rest of
// the CRM stores: bare 10-digit numbers are assumed US and get +1, 11-digit
// numbers with a leading 1 get +, and numbers already carrying + pass through.
// Returns "" when no digits are present.
func NormalizePhone(value string) string {
	value = strings.TrimSpace(value)
	digits := nonDigitRe.ReplaceAllString(value, "")
	switch {
	case digits == "":
		return ""
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits
	case strings.HasPrefix(value, "+"):
		return value
	default:
		return "+1" + digits
	}
}
