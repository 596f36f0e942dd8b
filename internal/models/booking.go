package models

import (
	"time"

	"github.com/swiftbus/booking-backend/pkg/money"
	"github.com/swiftbus/booking-backend/pkg/validator"
)

// MaxSeatsPerBooking is the most seats a single booking may hold
const MaxSeatsPerBooking = 5

// BookingStatus represents the lifecycle state of a booking.
// Transitions: pending → confirmed → {cancelled, completed}. Cancellation
// is allowed from any non-cancelled state; confirmation and completion are
// driven by the payment collaborator, not by this engine.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// PaymentStatus represents the independent payment lifecycle of a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Booking represents a reservation of specific seats on a route. A booking
// is immutable after creation except for its status, payment status and
// commission amount.
type Booking struct {
	ID               int64         `json:"id" db:"id"`
	BookingNumber    string        `json:"booking_number" db:"booking_number"`
	RouteID          int64         `json:"route_id" db:"route_id"`
	UserID           int64         `json:"user_id" db:"user_id"`
	AgentID          *int64        `json:"agent_id,omitempty" db:"agent_id"`
	PassengerName    string        `json:"passenger_name" db:"passenger_name"`
	PassengerAge     int           `json:"passenger_age" db:"passenger_age"`
	PassengerEmail   string        `json:"passenger_email" db:"passenger_email"`
	PassengerPhone   string        `json:"passenger_phone" db:"passenger_phone"`
	SeatNumbers      StringArray   `json:"seat_numbers" db:"seat_numbers"`
	TotalAmount      string        `json:"total_amount" db:"total_amount"`
	CommissionAmount string        `json:"commission_amount" db:"commission_amount"`
	Status           BookingStatus `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	BookingSource    *string       `json:"booking_source,omitempty" db:"booking_source"`
	BookingDate      time.Time     `json:"booking_date" db:"booking_date"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

// IsCancelled reports whether the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// SeatCount returns the number of seats held by the booking
func (b *Booking) SeatCount() int {
	return len(b.SeatNumbers)
}

// CreateBookingRequest represents the request to create a booking.
// AgentID is accepted for wire compatibility but never trusted: commission
// attribution always follows the authenticated caller's own agent profile.
type CreateBookingRequest struct {
	RouteID        int64    `json:"route_id" binding:"required"`
	PassengerName  string   `json:"passenger_name" binding:"required"`
	PassengerAge   int      `json:"passenger_age" binding:"required"`
	PassengerEmail string   `json:"passenger_email" binding:"required"`
	PassengerPhone string   `json:"passenger_phone" binding:"required"`
	SeatNumbers    []string `json:"seat_numbers" binding:"required"`
	TotalAmount    string   `json:"total_amount" binding:"required"`
	AgentID        *int64   `json:"agent_id,omitempty"`
}

// Validate validates the booking request shape. It runs before any
// inventory access: a malformed request never touches the route counter.
func (r *CreateBookingRequest) Validate() error {
	if len(r.PassengerName) < 2 {
		return NewValidationError("passenger_name", "must be at least 2 characters")
	}
	if r.PassengerAge < 1 || r.PassengerAge > 120 {
		return NewValidationError("passenger_age", "must be between 1 and 120")
	}
	if !validator.ValidEmail(r.PassengerEmail) {
		return NewValidationError("passenger_email", "must be a valid email address")
	}
	if _, err := validator.NewPhoneValidator().Validate(r.PassengerPhone); err != nil {
		return NewValidationError("passenger_phone", err.Error())
	}
	if len(r.SeatNumbers) == 0 {
		return NewValidationError("seat_numbers", "at least one seat is required")
	}
	if len(r.SeatNumbers) > MaxSeatsPerBooking {
		return NewValidationError("seat_numbers", "a booking may hold at most 5 seats")
	}
	seen := make(map[string]struct{}, len(r.SeatNumbers))
	for _, seat := range r.SeatNumbers {
		if seat == "" {
			return NewValidationError("seat_numbers", "seat identifiers cannot be empty")
		}
		if _, dup := seen[seat]; dup {
			return NewValidationError("seat_numbers", "seat identifiers must be unique")
		}
		seen[seat] = struct{}{}
	}
	if _, err := money.ParseAmount(r.TotalAmount); err != nil {
		return NewValidationError("total_amount", err.Error())
	}
	return nil
}

// CancelBookingResponse acknowledges a successful cancellation
type CancelBookingResponse struct {
	Message       string `json:"message"`
	BookingNumber string `json:"booking_number"`
}
