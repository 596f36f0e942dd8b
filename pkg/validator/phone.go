package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates the phone number has too few or too many digits
	ErrInvalidLength = errors.New("phone number must have between 10 and 15 digits")

	// ErrInvalidFormat indicates the phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// phoneRegex matches digits only (after sanitization)
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles passenger phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a passenger phone number.
// Accepts formats like 0771234567, +91 98765 43210 or 077-123-4567.
// Returns the sanitized number (digits, with leading + preserved) and an
// error if invalid.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	digits := strings.TrimPrefix(sanitized, "+")
	if !phoneRegex.MatchString(digits) {
		return "", ErrInvalidFormat
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize removes separators (spaces, dashes, dots, parentheses) from a
// phone number, preserving a leading +.
func (v *PhoneValidator) Sanitize(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
