package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/models"
)

// RouteHandler handles route scheduling and search HTTP requests
type RouteHandler struct {
	routeRepository *database.RouteRepository
	logger          *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepository *database.RouteRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routeRepository: routeRepository, logger: logger}
}

// Create handles POST /api/v1/routes (admin)
func (h *RouteHandler) Create(c *gin.Context) {
	var req models.CreateRouteRequest
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

	route, err := h.routeRepository.CreateRoute(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"route_id":    route.ID,
		"bus_id":      route.BusID,
		"source":      route.Source,
		"destination": route.Destination,
	}).Info("Route scheduled")

	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// List handles GET /api/v1/routes
func (h *RouteHandler) List(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"

	routes, err := h.routeRepository.GetAllRoutes(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// Get handles GET /api/v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	route, err := h.routeRepository.GetRouteByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": route})
}

// Search handles GET /api/v1/routes/search?source=&destination=&date=
// Public endpoint: travellers browse routes before registering.
func (h *RouteHandler) Search(c *gin.Context) {
	source := c.Query("source")
	destination := c.Query("destination")
	if source == "" || destination == "" {
		respondError(c, models.NewValidationError("source", "source and destination are required"))
		return
	}

	var date *time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			respondError(c, models.NewValidationError("date", "must be in YYYY-MM-DD format"))
			return
		}
		date = &parsed
	}

	routes, err := h.routeRepository.SearchRoutes(source, destination, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

// Update handles PATCH /api/v1/routes/:id (admin)
func (h *RouteHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateRouteRequest
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

	route, err := h.routeRepository.UpdateRoute(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": route})
}

// Delete handles DELETE /api/v1/routes/:id (admin). Takes the route off
// sale without touching existing bookings.
func (h *RouteHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.routeRepository.DeactivateRoute(id); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("route_id", id).Info("Route deactivated")

	c.JSON(http.StatusOK, gin.H{"message": "Route deactivated"})
}
