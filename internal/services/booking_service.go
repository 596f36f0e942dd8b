package services

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/money"
)

// Caller identifies the authenticated user performing an operation. The
// booking engine trusts nothing else from the request for authorization
// or commission attribution.
type Caller struct {
	UserID int64
	Role   models.UserRole
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// RouteStore is the route access the booking engine needs
type RouteStore interface {
	GetRouteByID(id int64) (*models.Route, error)
}

// AgentStore is the agent access the booking engine needs
type AgentStore interface {
	GetAgentByUserID(userID int64) (*models.Agent, error)
}

// BookingStore is the booking persistence the engine drives. The store is
// responsible for transactional atomicity of create and cancel.
type BookingStore interface {
	CreateBooking(booking *models.Booking, commissionCents int64) (*models.Booking, error)
	CancelBooking(id int64, reverseCommission bool) (*models.Booking, error)
	GetBookingByID(id int64) (*models.Booking, error)
	GetBookingByNumber(number string) (*models.Booking, error)
	ListBookingsByUser(userID int64) ([]models.Booking, error)
	ListBookingsByAgent(agentID int64) ([]models.Booking, error)
}

// BookingService implements the booking lifecycle: validation, pricing,
// commission attribution and authorization. Seat arithmetic itself lives
// in the stores so it stays inside one database transaction.
type BookingService struct {
	routes   RouteStore
	agents   AgentStore
	bookings BookingStore
	cfg      config.BookingConfig
	logger   *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(routes RouteStore, agents AgentStore, bookings BookingStore, cfg config.BookingConfig, logger *logrus.Logger) *BookingService {
	return &BookingService{
		routes:   routes,
		agents:   agents,
		bookings: bookings,
		cfg:      cfg,
		logger:   logger,
	}
}

// Create books seats on a route for the caller. The submitted total must
// equal seats × route price; commission is attributed to the caller's own
// approved agent profile and never to a client-supplied agent id.
func (s *BookingService) Create(caller Caller, req *models.CreateBookingRequest, source *string) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	route, err := s.routes.GetRouteByID(req.RouteID)
	if err != nil {
		return nil, err
	}
	if !route.IsActive {
		return nil, &models.NotFoundError{Resource: "route"}
	}

	priceCents, err := money.ParseAmount(route.Price)
	if err != nil {
		return nil, err
	}
	totalCents := money.Mul(priceCents, len(req.SeatNumbers))

	submittedCents, err := money.ParseAmount(req.TotalAmount)
	if err != nil {
		return nil, models.NewValidationError("total_amount", err.Error())
	}
	if submittedCents != totalCents {
		return nil, models.NewValidationError("total_amount",
			"must equal seat count times route price ("+money.Format(totalCents)+")")
	}

	var agentID *int64
	var commissionCents int64
	if caller.Role == models.RoleAgent {
		agent, err := s.agents.GetAgentByUserID(caller.UserID)
		switch {
		case err == nil && agent.IsEligibleForCommission():
			commissionCents, err = agent.CommissionFor(totalCents)
			if err != nil {
				return nil, err
			}
			agentID = &agent.ID
		case err == nil:
			// Unapproved agents book as plain customers.
		default:
			var notFound *models.NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	booking := &models.Booking{
		RouteID:          route.ID,
		UserID:           caller.UserID,
		AgentID:          agentID,
		PassengerName:    req.PassengerName,
		PassengerAge:     req.PassengerAge,
		PassengerEmail:   req.PassengerEmail,
		PassengerPhone:   req.PassengerPhone,
		SeatNumbers:      models.StringArray(req.SeatNumbers),
		TotalAmount:      money.Format(totalCents),
		CommissionAmount: money.Format(commissionCents),
		BookingSource:    source,
	}

	created, err := s.bookings.CreateBooking(booking, commissionCents)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": created.BookingNumber,
		"route_id":       created.RouteID,
		"user_id":        created.UserID,
		"seats":          created.SeatCount(),
		"total_amount":   created.TotalAmount,
	}).Info("Booking created")

	return created, nil
}

// Cancel cancels a booking, returning its seats to the route. Only the
// booking's owner or an admin may cancel; cancelling twice fails without
// touching inventory.
func (s *BookingService) Cancel(caller Caller, id int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, &models.ForbiddenError{Reason: "only the booking owner or an admin can cancel a booking"}
	}

	if booking.IsCancelled() {
		return nil, models.ErrAlreadyCancelled
	}

	cancelled, err := s.bookings.CancelBooking(id, s.cfg.ReverseCommissionOnCancel)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": cancelled.BookingNumber,
		"route_id":       cancelled.RouteID,
		"seats_released": cancelled.SeatCount(),
	}).Info("Booking cancelled")

	return cancelled, nil
}

// GetForCaller fetches a booking visible to the caller (owner or admin)
func (s *BookingService) GetForCaller(caller Caller, id int64) (*models.Booking, error) {
	booking, err := s.bookings.GetBookingByID(id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, &models.ForbiddenError{Reason: "only the booking owner or an admin can view a booking"}
	}

	return booking, nil
}

// ListForUser lists the caller's own bookings, newest first
func (s *BookingService) ListForUser(userID int64) ([]models.Booking, error) {
	return s.bookings.ListBookingsByUser(userID)
}

// ListForAgent lists bookings attributed to an agent, newest first
func (s *BookingService) ListForAgent(agentID int64) ([]models.Booking, error) {
	return s.bookings.ListBookingsByAgent(agentID)
}
