package models

import (
	"time"

	"github.com/swiftbus/booking-backend/pkg/money"
)

// Route represents a scheduled bus trip between two named points.
// The available-seat counter is owned by the booking engine: it is only
// ever adjusted through RouteRepository.ReserveSeats / ReleaseSeats.
type Route struct {
	ID             int64     `json:"id" db:"id"`
	BusID          int64     `json:"bus_id" db:"bus_id"`
	Source         string    `json:"source" db:"source"`
	Destination    string    `json:"destination" db:"destination"`
	DepartureTime  time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" db:"arrival_time"`
	Price          string    `json:"price" db:"price"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CreateRouteRequest represents the request to schedule a route
type CreateRouteRequest struct {
	BusID         int64     `json:"bus_id" binding:"required"`
	Source        string    `json:"source" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Price         string    `json:"price" binding:"required"`
}

// Validate validates the create route request beyond binding tags
func (r *CreateRouteRequest) Validate() error {
	if !r.ArrivalTime.After(r.DepartureTime) {
		return NewValidationError("arrival_time", "must be after departure_time")
	}
	cents, err := money.ParseAmount(r.Price)
	if err != nil {
		return NewValidationError("price", err.Error())
	}
	if cents <= 0 {
		return NewValidationError("price", "must be positive")
	}
	return nil
}

// UpdateRouteRequest represents a partial route update. The available-seat
// counter is deliberately absent: admins cannot set it directly.
type UpdateRouteRequest struct {
	Source        *string    `json:"source,omitempty"`
	Destination   *string    `json:"destination,omitempty"`
	DepartureTime *time.Time `json:"departure_time,omitempty"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	Price         *string    `json:"price,omitempty"`
	IsActive      *bool      `json:"is_active,omitempty"`
}

// Validate validates the update route request
func (r *UpdateRouteRequest) Validate() error {
	if r.Price != nil {
		cents, err := money.ParseAmount(*r.Price)
		if err != nil {
			return NewValidationError("price", err.Error())
		}
		if cents <= 0 {
			return NewValidationError("price", "must be positive")
		}
	}
	if r.DepartureTime != nil && r.ArrivalTime != nil && !r.ArrivalTime.After(*r.DepartureTime) {
		return NewValidationError("arrival_time", "must be after departure_time")
	}
	return nil
}
