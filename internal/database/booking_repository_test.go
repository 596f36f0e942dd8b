package database

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/booking-backend/internal/models"
)

var bookingRows = []string{
	"id", "booking_number", "route_id", "user_id", "agent_id", "passenger_name", "passenger_age",
	"passenger_email", "passenger_phone", "seat_numbers", "total_amount", "commission_amount",
	"status", "payment_status", "booking_source", "booking_date", "created_at",
}

func sampleBookingRow(id int64, status string, agentID interface{}, commission string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingRows).AddRow(
		id, "BK-20260828-X7K2M9", int64(3), int64(5), agentID, "Jane Doe", 30,
		"jane@example.com", "0771234567", []byte(`{A1,A2}`), "90.00", commission,
		status, "pending", "web", now, now,
	)
}

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock, *PostgresDB) {
	t.Helper()
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db.DB, NewRouteRepository(db), NewAgentRepository(db), 10)
	return repo, mock, db
}

func pendingBooking() *models.Booking {
	source := "web"
	return &models.Booking{
		RouteID:          3,
		UserID:           5,
		PassengerName:    "Jane Doe",
		PassengerAge:     30,
		PassengerEmail:   "jane@example.com",
		PassengerPhone:   "0771234567",
		SeatNumbers:      models.StringArray{"A1", "A2"},
		TotalAmount:      "90.00",
		CommissionAmount: "0.00",
		BookingSource:    &source,
	}
}

func TestGenerateBookingNumber(t *testing.T) {
	repo, mock, db := newBookingRepo(t)

	t.Run("Format", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateBookingNumber(db)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^BK-\d{8}-[2-9A-HJKMNP-Z]{6}$`), number)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries on collision", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateBookingNumber(db)
		require.NoError(t, err)
		assert.NotEmpty(t, number)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Exhausts attempts", func(t *testing.T) {
		exhausted := NewBookingRepository(db.DB, NewRouteRepository(db), NewAgentRepository(db), 2)
		for i := 0; i < 2; i++ {
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		}

		number, err := exhausted.GenerateBookingNumber(db)
		assert.Empty(t, number)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 attempts")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unique across many generations", func(t *testing.T) {
		repo, mock, db := newBookingRepo(t)

		const generations = 1000
		for i := 0; i < generations; i++ {
			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		}

		seen := make(map[string]struct{}, generations)
		for i := 0; i < generations; i++ {
			number, err := repo.GenerateBookingNumber(db)
			require.NoError(t, err)
			_, dup := seen[number]
			require.False(t, dup, "duplicate booking number %s after %d generations", number, i)
			seen[number] = struct{}{}
		}

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBooking(t *testing.T) {
	t.Run("Success without agent", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT DISTINCT seat`).
			WillReturnRows(sqlmock.NewRows([]string{"seat"}))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sampleBookingRow(1, "pending", nil, "0.00"))
		mock.ExpectCommit()

		created, err := repo.CreateBooking(pendingBooking(), 0)
		require.NoError(t, err)
		assert.Equal(t, "BK-20260828-X7K2M9", created.BookingNumber)
		assert.Equal(t, models.BookingStatusPending, created.Status)
		assert.Nil(t, created.AgentID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success with agent commission", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		booking := pendingBooking()
		agentID := int64(7)
		booking.AgentID = &agentID
		booking.CommissionAmount = "7.20"

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT DISTINCT seat`).
			WillReturnRows(sqlmock.NewRows([]string{"seat"}))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sampleBookingRow(1, "pending", agentID, "7.20"))
		mock.ExpectExec(`UPDATE agents`).
			WithArgs(agentID, "7.20").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := repo.CreateBooking(booking, 720)
		require.NoError(t, err)
		require.NotNil(t, created.AgentID)
		assert.Equal(t, agentID, *created.AgentID)
		assert.Equal(t, "7.20", created.CommissionAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient seats rolls back", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT is_active, available_seats FROM routes`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"is_active", "available_seats"}).AddRow(true, 1))
		mock.ExpectRollback()

		created, err := repo.CreateBooking(pendingBooking(), 0)
		assert.Nil(t, created)
		var insufficient *models.InsufficientSeatsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 1, insufficient.Available)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat conflict rolls back", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT DISTINCT seat`).
			WillReturnRows(sqlmock.NewRows([]string{"seat"}).AddRow("A1"))
		mock.ExpectRollback()

		created, err := repo.CreateBooking(pendingBooking(), 0)
		assert.Nil(t, created)
		var conflict *models.SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{"A1"}, conflict.Seats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("Success releases seats", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "confirmed", nil, "0.00"))
		mock.ExpectQuery(`UPDATE bookings SET status`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "cancelled", nil, "0.00"))
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := repo.CancelBooking(1, true)
		require.NoError(t, err)
		assert.True(t, cancelled.IsCancelled())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Reverses agent commission when configured", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)
		agentID := int64(7)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "confirmed", agentID, "7.20"))
		mock.ExpectQuery(`UPDATE bookings SET status`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "cancelled", agentID, "7.20"))
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE agents`).
			WithArgs(agentID, "7.20").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := repo.CancelBooking(1, true)
		require.NoError(t, err)
		assert.True(t, cancelled.IsCancelled())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Keeps commission when reversal disabled", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)
		agentID := int64(7)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "confirmed", agentID, "7.20"))
		mock.ExpectQuery(`UPDATE bookings SET status`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "cancelled", agentID, "7.20"))
		mock.ExpectExec(`UPDATE routes`).
			WithArgs(int64(3), 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		cancelled, err := repo.CancelBooking(1, false)
		require.NoError(t, err)
		assert.True(t, cancelled.IsCancelled())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already cancelled", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(1)).
			WillReturnRows(sampleBookingRow(1, "cancelled", nil, "0.00"))
		mock.ExpectRollback()

		cancelled, err := repo.CancelBooking(1, true)
		assert.Nil(t, cancelled)
		assert.ErrorIs(t, err, models.ErrAlreadyCancelled)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock, _ := newBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		cancelled, err := repo.CancelBooking(99, true)
		assert.Nil(t, cancelled)
		var notFound *models.NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListBookingsByUser(t *testing.T) {
	repo, mock, _ := newBookingRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE user_id`).
		WithArgs(int64(5)).
		WillReturnRows(sampleBookingRow(1, "confirmed", nil, "0.00"))

	bookings, err := repo.ListBookingsByUser(5)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, models.StringArray{"A1", "A2"}, bookings[0].SeatNumbers)

	assert.NoError(t, mock.ExpectationsWereMet())
}
