package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyCancelled indicates an attempt to cancel a booking twice
var ErrAlreadyCancelled = errors.New("booking is already cancelled")

// ValidationError indicates a request failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError indicates a referenced resource does not exist or is
// not visible to the caller
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InsufficientSeatsError indicates a route has fewer seats left than the
// booking requested
type InsufficientSeatsError struct {
	RouteID   int64
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("route %d has %d seats available, %d requested", e.RouteID, e.Available, e.Requested)
}

// SeatConflictError indicates specific requested seats are already held
// by another booking
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already booked: %s", strings.Join(e.Seats, ", "))
}

// ForbiddenError indicates the caller is not allowed to perform the
// operation on this resource
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// ConflictError indicates the request conflicts with existing state
// (duplicate email, plate number, booking number)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
