package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BusRepository handles bus fleet database operations
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

const busColumns = `id, name, type, plate_number, total_seats, amenities, rating, is_active, created_at`

// CreateBus registers a new bus
func (r *BusRepository) CreateBus(req *models.CreateBusRequest) (*models.Bus, error) {
	bus := &models.Bus{}
	query := `
		INSERT INTO buses (name, type, plate_number, total_seats, amenities, rating, is_active)
		VALUES ($1, $2, $3, $4, $5, '4.00', TRUE)
		RETURNING ` + busColumns

	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	err := r.db.Get(bus, query, req.Name, req.Type, req.PlateNumber, req.TotalSeats, pq.Array(amenities))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, &models.ConflictError{Message: "plate number already registered"}
		}
		return nil, fmt.Errorf("failed to create bus: %w", err)
	}

	return bus, nil
}

// GetBusByID fetches a bus by id
func (r *BusRepository) GetBusByID(id int64) (*models.Bus, error) {
	bus := &models.Bus{}
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`

	err := r.db.Get(bus, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "bus"}
		}
		return nil, fmt.Errorf("failed to fetch bus: %w", err)
	}

	return bus, nil
}

// GetAllBuses lists buses, optionally only active ones
func (r *BusRepository) GetAllBuses(activeOnly bool) ([]models.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	var buses []models.Bus
	if err := r.db.Select(&buses, query); err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// UpdateBus applies a partial update to a bus
func (r *BusRepository) UpdateBus(id int64, req *models.UpdateBusRequest) (*models.Bus, error) {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	arg := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if req.Name != nil {
		appendSet("name", *req.Name)
	}
	if req.Type != nil {
		appendSet("type", *req.Type)
	}
	if req.Amenities != nil {
		appendSet("amenities", pq.Array(req.Amenities))
	}
	if req.Rating != nil {
		appendSet("rating", *req.Rating)
	}
	if req.IsActive != nil {
		appendSet("is_active", *req.IsActive)
	}

	if len(sets) == 0 {
		return r.GetBusByID(id)
	}

	query := fmt.Sprintf(`UPDATE buses SET %s WHERE id = $%d RETURNING `+busColumns,
		strings.Join(sets, ", "), arg)
	args = append(args, id)

	bus := &models.Bus{}
	err := r.db.Get(bus, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "bus"}
		}
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}

	return bus, nil
}

// DeactivateBus soft-deletes a bus. Historical routes and bookings keep
// referencing it, so the row is never destroyed.
func (r *BusRepository) DeactivateBus(id int64) error {
	result, err := r.db.Exec(`UPDATE buses SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate bus: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "bus"}
	}

	return nil
}
