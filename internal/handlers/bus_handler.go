package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BusHandler handles fleet management HTTP requests
type BusHandler struct {
	busRepository *database.BusRepository
	logger        *logrus.Logger
}

// NewBusHandler creates a new bus handler
func NewBusHandler(busRepository *database.BusRepository, logger *logrus.Logger) *BusHandler {
	return &BusHandler{busRepository: busRepository, logger: logger}
}

// Create handles POST /api/v1/buses (admin)
func (h *BusHandler) Create(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, err)
		return
	}

	bus, err := h.busRepository.CreateBus(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"bus_id":       bus.ID,
		"plate_number": bus.PlateNumber,
	}).Info("Bus registered")

	c.JSON(http.StatusCreated, gin.H{"bus": bus})
}

// List handles GET /api/v1/buses
func (h *BusHandler) List(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"

	buses, err := h.busRepository.GetAllBuses(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses, "count": len(buses)})
}

// Get handles GET /api/v1/buses/:id
func (h *BusHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	bus, err := h.busRepository.GetBusByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// Update handles PATCH /api/v1/buses/:id (admin)
func (h *BusHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if req.Type != nil && !models.ValidBusType(*req.Type) {
		respondError(c, models.NewValidationError("type", "must be one of: AC Sleeper, AC Seater, Non-AC Seater, Luxury Volvo"))
		return
	}

	bus, err := h.busRepository.UpdateBus(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bus": bus})
}

// Delete handles DELETE /api/v1/buses/:id (admin). Soft delete only.
func (h *BusHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.busRepository.DeactivateBus(id); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("bus_id", id).Info("Bus deactivated")

	c.JSON(http.StatusOK, gin.H{"message": "Bus deactivated"})
}

// parseIDParam parses a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, models.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}
