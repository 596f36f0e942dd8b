package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/internal/services"
)

// AgentHandler handles agent profile and ledger HTTP requests
type AgentHandler struct {
	agentRepository *database.AgentRepository
	userRepository  *database.UserRepository
	bookingService  *services.BookingService
	config          *config.Config
	logger          *logrus.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(
	agentRepository *database.AgentRepository,
	userRepository *database.UserRepository,
	bookingService *services.BookingService,
	cfg *config.Config,
	logger *logrus.Logger,
) *AgentHandler {
	return &AgentHandler{
		agentRepository: agentRepository,
		userRepository:  userRepository,
		bookingService:  bookingService,
		config:          cfg,
		logger:          logger,
	}
}

// CreateProfile handles POST /api/v1/agents. A customer opts in as an
// agent: one profile per user, starts unapproved, flips the user's role.
func (h *AgentHandler) CreateProfile(c *gin.Context) {
	var req models.CreateAgentRequest
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

	rate := req.CommissionRate
	if rate == "" {
		rate = h.config.Booking.DefaultCommissionRate
	}

	userCtx := middleware.MustGetUserContext(c)

	agent, err := h.agentRepository.CreateAgent(userCtx.UserID, rate)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.userRepository.UpdateRole(userCtx.UserID, models.RoleAgent); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"agent_id": agent.ID,
		"user_id":  userCtx.UserID,
	}).Info("Agent profile created")

	c.JSON(http.StatusCreated, gin.H{
		"agent":   agent,
		"message": "Agent profile created. Log in again to pick up the agent role; bookings earn commission once an admin approves the profile.",
	})
}

// Dashboard handles GET /api/v1/agents/dashboard
func (h *AgentHandler) Dashboard(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	agent, err := h.agentRepository.GetAgentByUserID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	bookings, err := h.bookingService.ListForAgent(agent.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AgentDashboard{
		Agent:          agent,
		Bookings:       bookings,
		TotalBookings:  agent.TotalBookings,
		TotalEarnings:  agent.TotalEarnings,
		CommissionRate: agent.CommissionRate,
	})
}

// List handles GET /api/v1/agents (admin)
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agentRepository.GetAllAgents()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents, "count": len(agents)})
}

// Approve handles PATCH /api/v1/agents/:id/approve (admin)
func (h *AgentHandler) Approve(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	agent, err := h.agentRepository.ApproveAgent(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("agent_id", agent.ID).Info("Agent approved")

	c.JSON(http.StatusOK, gin.H{"agent": agent, "message": "Agent approved"})
}

// UpdateCommission handles PATCH /api/v1/agents/:id/commission (admin)
func (h *AgentHandler) UpdateCommission(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if _, err := models.ParseCommissionRate(req.CommissionRate); err != nil {
		respondError(c, err)
		return
	}

	agent, err := h.agentRepository.UpdateCommissionRate(id, req.CommissionRate)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"agent_id":        agent.ID,
		"commission_rate": agent.CommissionRate,
	}).Info("Agent commission rate updated")

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}
