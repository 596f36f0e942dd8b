package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/money"
)

// BookingRepository handles booking database operations. Creation and
// cancellation each run as a single transaction spanning the booking row,
// the route's seat counter and the agent ledger.
type BookingRepository struct {
	db             *sqlx.DB
	routes         *RouteRepository
	agents         *AgentRepository
	numberAttempts int
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB, routes *RouteRepository, agents *AgentRepository, numberAttempts int) *BookingRepository {
	if numberAttempts < 1 {
		numberAttempts = 1
	}
	return &BookingRepository{
		db:             db,
		routes:         routes,
		agents:         agents,
		numberAttempts: numberAttempts,
	}
}

const bookingColumns = `id, booking_number, route_id, user_id, agent_id, passenger_name, passenger_age,
	passenger_email, passenger_phone, seat_numbers, total_amount, commission_amount,
	status, payment_status, booking_source, booking_date, created_at`

// bookingNumberCharset avoids ambiguous characters (0/O, 1/I/L)
const bookingNumberCharset = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateBookingNumber produces a booking number of the form
// BK-YYYYMMDD-XXXXXX, pre-checking each candidate against existing rows
// with a bounded number of retries. A unique constraint on the column
// backs the pre-check; the constraint violation surfaces as a conflict
// because a failed INSERT aborts the surrounding transaction.
func (r *BookingRepository) GenerateBookingNumber(ex Execer) (string, error) {
	datePart := time.Now().Format("20060102")

	for attempt := 0; attempt < r.numberAttempts; attempt++ {
		suffix := make([]byte, 6)
		for i := range suffix {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberCharset))))
			if err != nil {
				return "", fmt.Errorf("failed to generate booking number: %w", err)
			}
			suffix[i] = bookingNumberCharset[n.Int64()]
		}
		candidate := fmt.Sprintf("BK-%s-%s", datePart, suffix)

		var count int
		if err := ex.Get(&count, `SELECT COUNT(*) FROM bookings WHERE booking_number = $1`, candidate); err != nil {
			return "", fmt.Errorf("failed to check booking number: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique booking number after %d attempts", r.numberAttempts)
}

// CreateBooking creates a booking in one transaction: reserve seats on the
// route, verify the requested seats are free, insert the booking row, then
// credit the agent ledger when the booking is agent-attributed. Any failure
// rolls the whole reservation back.
func (r *BookingRepository) CreateBooking(booking *models.Booking, commissionCents int64) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	seatCount := len(booking.SeatNumbers)

	// Locks the route row for the rest of the transaction, so the seat
	// conflict check below cannot race another booking on this route.
	if err := r.routes.ReserveSeats(tx, booking.RouteID, seatCount); err != nil {
		return nil, err
	}

	var taken []string
	err = tx.Select(&taken, `
		SELECT DISTINCT seat
		FROM bookings, unnest(seat_numbers) AS seat
		WHERE route_id = $1 AND status <> 'cancelled' AND seat = ANY($2)
		ORDER BY seat`,
		booking.RouteID, pq.Array([]string(booking.SeatNumbers)))
	if err != nil {
		return nil, fmt.Errorf("failed to check seat availability: %w", err)
	}
	if len(taken) > 0 {
		return nil, &models.SeatConflictError{Seats: taken}
	}

	number, err := r.GenerateBookingNumber(tx)
	if err != nil {
		return nil, err
	}

	created := &models.Booking{}
	err = tx.Get(created, `
		INSERT INTO bookings (booking_number, route_id, user_id, agent_id, passenger_name, passenger_age,
			passenger_email, passenger_phone, seat_numbers, total_amount, commission_amount,
			status, payment_status, booking_source, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', 'pending', $12, NOW())
		RETURNING `+bookingColumns,
		number, booking.RouteID, booking.UserID, booking.AgentID,
		booking.PassengerName, booking.PassengerAge, booking.PassengerEmail, booking.PassengerPhone,
		pq.Array([]string(booking.SeatNumbers)), booking.TotalAmount, booking.CommissionAmount,
		booking.BookingSource)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, &models.ConflictError{Message: "booking number collision, please retry"}
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if booking.AgentID != nil {
		if err := r.agents.RecordBooking(tx, *booking.AgentID, commissionCents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	return created, nil
}

// CancelBooking cancels a booking in one transaction: lock and re-check the
// row, mark it cancelled, return its seats to the route, and optionally
// reverse the agent commission. Cancelling an already-cancelled booking
// fails without touching the seat counter.
func (r *BookingRepository) CancelBooking(id int64, reverseCommission bool) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	booking := &models.Booking{}
	err = tx.Get(booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "booking"}
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if booking.IsCancelled() {
		return nil, models.ErrAlreadyCancelled
	}

	err = tx.Get(booking, `
		UPDATE bookings SET status = 'cancelled'
		WHERE id = $1
		RETURNING `+bookingColumns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := r.routes.ReleaseSeats(tx, booking.RouteID, booking.SeatCount()); err != nil {
		return nil, err
	}

	if reverseCommission && booking.AgentID != nil {
		commissionCents, err := money.ParseAmount(booking.CommissionAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse commission amount: %w", err)
		}
		if commissionCents > 0 {
			if err := r.agents.ReverseBooking(tx, *booking.AgentID, commissionCents); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return booking, nil
}

// GetBookingByID fetches a booking by id
func (r *BookingRepository) GetBookingByID(id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := r.db.Get(booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "booking"}
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	return booking, nil
}

// GetBookingByNumber fetches a booking by its booking number
func (r *BookingRepository) GetBookingByNumber(number string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_number = $1`

	err := r.db.Get(booking, query, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "booking"}
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	return booking, nil
}

// ListBookingsByUser lists a user's bookings, newest first
func (r *BookingRepository) ListBookingsByUser(userID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// ListBookingsByAgent lists the bookings attributed to an agent, newest first
func (r *BookingRepository) ListBookingsByAgent(agentID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE agent_id = $1 ORDER BY created_at DESC, id DESC`

	if err := r.db.Select(&bookings, query, agentID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}
