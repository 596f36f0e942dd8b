package models

import "time"

// BusType represents the category of a bus
type BusType string

const (
	BusTypeACSleeper   BusType = "AC Sleeper"
	BusTypeACSeater    BusType = "AC Seater"
	BusTypeNonACSeater BusType = "Non-AC Seater"
	BusTypeLuxuryVolvo BusType = "Luxury Volvo"
)

// ValidBusType reports whether t is one of the supported bus types
func ValidBusType(t BusType) bool {
	switch t {
	case BusTypeACSleeper, BusTypeACSeater, BusTypeNonACSeater, BusTypeLuxuryVolvo:
		return true
	}
	return false
}

// Bus represents a vehicle in the fleet. Buses are soft-deleted because
// historical routes and bookings reference them.
type Bus struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Type        BusType     `json:"type" db:"type"`
	PlateNumber string      `json:"plate_number" db:"plate_number"`
	TotalSeats  int         `json:"total_seats" db:"total_seats"`
	Amenities   StringArray `json:"amenities" db:"amenities"`
	Rating      *string     `json:"rating,omitempty" db:"rating"`
	IsActive    bool        `json:"is_active" db:"is_active"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// CreateBusRequest represents the request to register a bus
type CreateBusRequest struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Type        BusType  `json:"type" binding:"required"`
	PlateNumber string   `json:"plate_number" binding:"required,min=5"`
	TotalSeats  int      `json:"total_seats" binding:"required,min=10,max=60"`
	Amenities   []string `json:"amenities,omitempty"`
}

// Validate validates the create bus request beyond binding tags
func (r *CreateBusRequest) Validate() error {
	if !ValidBusType(r.Type) {
		return NewValidationError("type", "must be one of: AC Sleeper, AC Seater, Non-AC Seater, Luxury Volvo")
	}
	return nil
}

// UpdateBusRequest represents a partial bus update
type UpdateBusRequest struct {
	Name      *string  `json:"name,omitempty"`
	Type      *BusType `json:"type,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Rating    *string  `json:"rating,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
}
