package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftbus/booking-backend/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondError translates domain errors into HTTP responses. Unknown
// errors become opaque 500s so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var (
		validationErr   *models.ValidationError
		notFoundErr     *models.NotFoundError
		insufficientErr *models.InsufficientSeatsError
		seatConflictErr *models.SeatConflictError
		forbiddenErr    *models.ForbiddenError
		conflictErr     *models.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
			Code:    "VALIDATION_ERROR",
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
			Code:    "NOT_FOUND",
		})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "insufficient_seats",
			Message: insufficientErr.Error(),
			Code:    "INSUFFICIENT_SEATS",
		})
	case errors.As(err, &seatConflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "seat_conflict",
			Message: seatConflictErr.Error(),
			Code:    "SEAT_CONFLICT",
		})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: forbiddenErr.Error(),
			Code:    "FORBIDDEN",
		})
	case errors.Is(err, models.ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "already_cancelled",
			Message: err.Error(),
			Code:    "ALREADY_CANCELLED",
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: conflictErr.Error(),
			Code:    "CONFLICT",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    "INTERNAL_ERROR",
		})
	}
}
