package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/internal/services"
)

// BookingHandler handles booking lifecycle HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.Create(callerFrom(userCtx), &req, bookingSource(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// My handles GET /api/v1/bookings/my
func (h *BookingHandler) My(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	bookings, err := h.bookingService.ListForUser(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.GetForCaller(callerFrom(userCtx), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Cancel handles PATCH /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	userCtx := middleware.MustGetUserContext(c)

	booking, err := h.bookingService.Cancel(callerFrom(userCtx), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CancelBookingResponse{
		Message:       "Booking cancelled, seats released",
		BookingNumber: booking.BookingNumber,
	})
}

func callerFrom(userCtx middleware.UserContext) services.Caller {
	return services.Caller{
		UserID: userCtx.UserID,
		Role:   models.UserRole(userCtx.Role),
	}
}

// bookingSource classifies the client from its User-Agent header
func bookingSource(c *gin.Context) *string {
	uaHeader := c.GetHeader("User-Agent")
	if uaHeader == "" {
		return nil
	}

	ua := user_agent.New(uaHeader)
	source := "web"
	if ua.Mobile() {
		source = "mobile"
	} else if ua.Bot() {
		source = "api"
	}
	return &source
}
