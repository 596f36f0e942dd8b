package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/config"
	"github.com/swiftbus/booking-backend/internal/database"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/jwt"
	"github.com/swiftbus/booking-backend/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	jwtService     *jwt.Service
	phoneValidator *validator.PhoneValidator
	userRepository *database.UserRepository
	config         *config.Config
	logger         *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	phoneValidator *validator.PhoneValidator,
	userRepository *database.UserRepository,
	cfg *config.Config,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		jwtService:     jwtService,
		phoneValidator: phoneValidator,
		userRepository: userRepository,
		config:         cfg,
		logger:         logger,
	}
}

// AuthResponse represents the response after a successful login or register
type AuthResponse struct {
	Message      string              `json:"message"`
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	ExpiresIn    int                 `json:"expires_in_seconds"`
	User         models.UserResponse `json:"user"`
}

// RefreshRequest represents the request to refresh an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if req.Phone != nil {
		sanitized, err := h.phoneValidator.Validate(*req.Phone)
		if err != nil {
			respondError(c, models.NewValidationError("phone", err.Error()))
			return
		}
		req.Phone = &sanitized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.config.Security.BcryptCost)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash password")
		respondError(c, err)
		return
	}

	user, err := h.userRepository.CreateUser(req.Email, string(hash), req.FullName, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	h.respondWithTokens(c, http.StatusCreated, "Registration successful", user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
			Code:    "INVALID_CREDENTIALS",
		})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "account_disabled",
			Message: "This account has been disabled",
			Code:    "ACCOUNT_DISABLED",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
			Code:    "INVALID_CREDENTIALS",
		})
		return
	}

	h.respondWithTokens(c, http.StatusOK, "Login successful", user)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired refresh token",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	// Re-read the user: role changes and deactivations take effect on
	// refresh, not only on re-login.
	user, err := h.userRepository.GetUserByID(claims.UserID)
	if err != nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired refresh token",
			Code:    "INVALID_REFRESH_TOKEN",
		})
		return
	}

	h.respondWithTokens(c, http.StatusOK, "Token refreshed", user)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.userRepository.GetUserByID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, message string, user *models.User) {
	accessToken, err := h.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		respondError(c, err)
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate refresh token")
		respondError(c, err)
		return
	}

	c.JSON(status, AuthResponse{
		Message:      message,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(h.config.JWT.AccessTokenExpiry.Seconds()),
		User:         user.ToResponse(),
	})
}
