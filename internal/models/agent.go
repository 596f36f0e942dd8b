package models

import (
	"time"

	"github.com/swiftbus/booking-backend/pkg/money"
)

// Agent represents a travel agent's commission ledger. Earnings and the
// booking counter are owned by the booking engine and only mutated through
// AgentRepository.RecordBooking / ReverseBooking.
type Agent struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	CommissionRate string    `json:"commission_rate" db:"commission_rate"`
	TotalEarnings  string    `json:"total_earnings" db:"total_earnings"`
	TotalBookings  int       `json:"total_bookings" db:"total_bookings"`
	IsApproved     bool      `json:"is_approved" db:"is_approved"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// IsEligibleForCommission reports whether bookings by this agent earn
// commission. Only admin-approved agents qualify.
func (a *Agent) IsEligibleForCommission() bool {
	return a.IsApproved
}

// CommissionFor computes the commission in cents for a booking total,
// rounded half-up to 2 decimal places. Returns 0 for unapproved agents.
func (a *Agent) CommissionFor(totalCents int64) (int64, error) {
	if !a.IsEligibleForCommission() {
		return 0, nil
	}
	rateBps, err := money.ParseRate(a.CommissionRate)
	if err != nil {
		return 0, err
	}
	return money.Commission(totalCents, rateBps), nil
}

// ParseCommissionRate validates a commission rate string and returns it
// in basis points. Rates above 100% are rejected.
func ParseCommissionRate(s string) (int64, error) {
	bps, err := money.ParseRate(s)
	if err != nil {
		return 0, NewValidationError("commission_rate", err.Error())
	}
	if bps > 10000 {
		return 0, NewValidationError("commission_rate", "cannot exceed 100")
	}
	return bps, nil
}

// CreateAgentRequest represents the request to create an agent profile
type CreateAgentRequest struct {
	CommissionRate string `json:"commission_rate,omitempty"`
}

// Validate validates the create agent request
func (r *CreateAgentRequest) Validate() error {
	if r.CommissionRate == "" {
		return nil
	}
	_, err := ParseCommissionRate(r.CommissionRate)
	return err
}

// UpdateCommissionRequest represents an admin updating an agent's rate
type UpdateCommissionRequest struct {
	CommissionRate string `json:"commission_rate" binding:"required"`
}

// AgentDashboard aggregates an agent's ledger and recent bookings
type AgentDashboard struct {
	Agent          *Agent    `json:"agent"`
	Bookings       []Booking `json:"bookings"`
	TotalBookings  int       `json:"total_bookings"`
	TotalEarnings  string    `json:"total_earnings"`
	CommissionRate string    `json:"commission_rate"`
}
