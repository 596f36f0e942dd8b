package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func validBookingRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		RouteID:        1,
		PassengerName:  "Jane Doe",
		PassengerAge:   30,
		PassengerEmail: "jane@example.com",
		PassengerPhone: "0771234567",
		SeatNumbers:    []string{"A1", "A2"},
		TotalAmount:    "90.00",
	}
}

func TestCreateBookingRequest_Validate(t *testing.T) {
	t.Run("Valid request", func(t *testing.T) {
		require.NoError(t, validBookingRequest().Validate())
	})

	t.Run("Short passenger name", func(t *testing.T) {
		req := validBookingRequest()
		req.PassengerName = "J"
		assertValidationError(t, req.Validate(), "passenger_name")
	})

	t.Run("Age bounds", func(t *testing.T) {
		for _, age := range []int{0, -1, 121} {
			req := validBookingRequest()
			req.PassengerAge = age
			assertValidationError(t, req.Validate(), "passenger_age")
		}
		for _, age := range []int{1, 120} {
			req := validBookingRequest()
			req.PassengerAge = age
			assert.NoError(t, req.Validate())
		}
	})

	t.Run("Invalid email", func(t *testing.T) {
		req := validBookingRequest()
		req.PassengerEmail = "not-an-email"
		assertValidationError(t, req.Validate(), "passenger_email")
	})

	t.Run("Invalid phone", func(t *testing.T) {
		req := validBookingRequest()
		req.PassengerPhone = "123"
		assertValidationError(t, req.Validate(), "passenger_phone")
	})

	t.Run("No seats", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = nil
		assertValidationError(t, req.Validate(), "seat_numbers")
	})

	t.Run("Too many seats", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []string{"A1", "A2", "A3", "A4", "A5", "A6"}
		assertValidationError(t, req.Validate(), "seat_numbers")
	})

	t.Run("Exactly five seats allowed", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []string{"A1", "A2", "A3", "A4", "A5"}
		assert.NoError(t, req.Validate())
	})

	t.Run("Duplicate seats", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []string{"A1", "A1"}
		assertValidationError(t, req.Validate(), "seat_numbers")
	})

	t.Run("Empty seat identifier", func(t *testing.T) {
		req := validBookingRequest()
		req.SeatNumbers = []string{"A1", ""}
		assertValidationError(t, req.Validate(), "seat_numbers")
	})

	t.Run("Malformed amount", func(t *testing.T) {
		req := validBookingRequest()
		req.TotalAmount = "90.001"
		assertValidationError(t, req.Validate(), "total_amount")
	})
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
}

func TestBookingStateHelpers(t *testing.T) {
	b := &Booking{Status: BookingStatusConfirmed, SeatNumbers: StringArray{"A1", "A2", "A3"}}
	assert.False(t, b.IsCancelled())
	assert.Equal(t, 3, b.SeatCount())

	b.Status = BookingStatusCancelled
	assert.True(t, b.IsCancelled())
}

func TestAgentCommission(t *testing.T) {
	t.Run("Approved agent earns commission", func(t *testing.T) {
		agent := &Agent{CommissionRate: "8.00", IsApproved: true}
		cents, err := agent.CommissionFor(9000)
		require.NoError(t, err)
		assert.Equal(t, int64(720), cents)
	})

	t.Run("Unapproved agent earns nothing", func(t *testing.T) {
		agent := &Agent{CommissionRate: "8.00", IsApproved: false}
		cents, err := agent.CommissionFor(9000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), cents)
	})

	t.Run("Fractional rate rounds half-up", func(t *testing.T) {
		agent := &Agent{CommissionRate: "8.25", IsApproved: true}
		cents, err := agent.CommissionFor(9000)
		require.NoError(t, err)
		assert.Equal(t, int64(743), cents)
	})
}

func TestParseCommissionRate(t *testing.T) {
	bps, err := ParseCommissionRate("8.25")
	require.NoError(t, err)
	assert.Equal(t, int64(825), bps)

	_, err = ParseCommissionRate("101.00")
	assertValidationError(t, err, "commission_rate")

	_, err = ParseCommissionRate("abc")
	assertValidationError(t, err, "commission_rate")
}

func TestCreateRouteRequest_Validate(t *testing.T) {
	base := func() *CreateRouteRequest {
		return &CreateRouteRequest{
			BusID:         1,
			Source:        "Springfield",
			Destination:   "Shelbyville",
			DepartureTime: mustTime(t, "2026-09-01T08:00:00Z"),
			ArrivalTime:   mustTime(t, "2026-09-01T12:00:00Z"),
			Price:         "45.00",
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("Arrival before departure", func(t *testing.T) {
		req := base()
		req.ArrivalTime = mustTime(t, "2026-09-01T07:00:00Z")
		assertValidationError(t, req.Validate(), "arrival_time")
	})

	t.Run("Zero price", func(t *testing.T) {
		req := base()
		req.Price = "0.00"
		assertValidationError(t, req.Validate(), "price")
	})
}
