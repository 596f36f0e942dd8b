package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swiftbus/booking-backend/internal/models"
)

// RouteRepository handles route and seat inventory database operations
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `id, bus_id, source, destination, departure_time, arrival_time, price, available_seats, is_active, created_at`

// CreateRoute schedules a route. The seat counter starts at the bus's
// total capacity.
func (r *RouteRepository) CreateRoute(req *models.CreateRouteRequest) (*models.Route, error) {
	route := &models.Route{}
	query := `
		INSERT INTO routes (bus_id, source, destination, departure_time, arrival_time, price, available_seats, is_active)
		SELECT b.id, $2, $3, $4, $5, $6, b.total_seats, TRUE
		FROM buses b
		WHERE b.id = $1 AND b.is_active = TRUE
		RETURNING ` + routeColumns

	err := r.db.Get(route, query, req.BusID, req.Source, req.Destination,
		req.DepartureTime, req.ArrivalTime, req.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "bus"}
		}
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	return route, nil
}

// GetRouteByID fetches a route by id
func (r *RouteRepository) GetRouteByID(id int64) (*models.Route, error) {
	route := &models.Route{}
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`

	err := r.db.Get(route, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "route"}
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}

	return route, nil
}

// GetAllRoutes lists routes, optionally only active ones
func (r *RouteRepository) GetAllRoutes(activeOnly bool) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY id`

	var routes []models.Route
	if err := r.db.Select(&routes, query); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, nil
}

// SearchRoutes finds active routes between two points, optionally on a
// given calendar day (server-local). Matching on source and destination is
// exact string equality.
func (r *RouteRepository) SearchRoutes(source, destination string, date *time.Time) ([]models.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE is_active = TRUE
		  AND source = $1
		  AND destination = $2`
	args := []interface{}{source, destination}

	if date != nil {
		day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		query += ` AND departure_time >= $3 AND departure_time < $4`
		args = append(args, day, day.AddDate(0, 0, 1))
	}

	query += ` ORDER BY id`

	var routes []models.Route
	if err := r.db.Select(&routes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search routes: %w", err)
	}

	return routes, nil
}

// UpdateRoute applies a partial update to a route. The seat counter cannot
// be set through this path.
func (r *RouteRepository) UpdateRoute(id int64, req *models.UpdateRouteRequest) (*models.Route, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	arg := 1

	appendSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if req.Source != nil {
		appendSet("source", *req.Source)
	}
	if req.Destination != nil {
		appendSet("destination", *req.Destination)
	}
	if req.DepartureTime != nil {
		appendSet("departure_time", *req.DepartureTime)
	}
	if req.ArrivalTime != nil {
		appendSet("arrival_time", *req.ArrivalTime)
	}
	if req.Price != nil {
		appendSet("price", *req.Price)
	}
	if req.IsActive != nil {
		appendSet("is_active", *req.IsActive)
	}

	if len(sets) == 0 {
		return r.GetRouteByID(id)
	}

	query := fmt.Sprintf(`UPDATE routes SET %s WHERE id = $%d RETURNING `+routeColumns,
		strings.Join(sets, ", "), arg)
	args = append(args, id)

	route := &models.Route{}
	err := r.db.Get(route, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "route"}
		}
		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	return route, nil
}

// DeactivateRoute takes a route off sale. Existing bookings are untouched.
func (r *RouteRepository) DeactivateRoute(id int64) error {
	result, err := r.db.Exec(`UPDATE routes SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate route: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "route"}
	}

	return nil
}

// ReserveSeats atomically decrements a route's seat counter by count,
// failing when fewer than count seats remain. The check and the decrement
// are one conditional UPDATE, so two concurrent bookings can never both
// take the last seat. The updated row stays locked until the caller's
// transaction ends, serialising all seat writes for the route.
func (r *RouteRepository) ReserveSeats(ex Execer, routeID int64, count int) error {
	result, err := ex.Exec(`
		UPDATE routes
		SET available_seats = available_seats - $2
		WHERE id = $1 AND is_active = TRUE AND available_seats >= $2`,
		routeID, count)
	if err != nil {
		return fmt.Errorf("failed to reserve seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing updated: tell the caller whether the route is missing,
	// inactive, or simply short of seats.
	var state struct {
		IsActive       bool `db:"is_active"`
		AvailableSeats int  `db:"available_seats"`
	}
	err = ex.Get(&state, `SELECT is_active, available_seats FROM routes WHERE id = $1`, routeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Resource: "route"}
		}
		return fmt.Errorf("failed to inspect route: %w", err)
	}
	if !state.IsActive {
		return &models.NotFoundError{Resource: "route"}
	}

	return &models.InsufficientSeatsError{
		RouteID:   routeID,
		Requested: count,
		Available: state.AvailableSeats,
	}
}

// ReleaseSeats returns count seats to a route's counter, capped at the
// bus's total capacity so repeated releases cannot overfill the route.
func (r *RouteRepository) ReleaseSeats(ex Execer, routeID int64, count int) error {
	result, err := ex.Exec(`
		UPDATE routes
		SET available_seats = LEAST(
			available_seats + $2,
			(SELECT total_seats FROM buses WHERE buses.id = routes.bus_id))
		WHERE id = $1`,
		routeID, count)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "route"}
	}

	return nil
}
