package validator

import "regexp"

// emailRegex is deliberately permissive: local@domain.tld with no spaces.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidEmail reports whether s looks like a deliverable email address.
func ValidEmail(s string) bool {
	return s != "" && len(s) <= 255 && emailRegex.MatchString(s)
}
