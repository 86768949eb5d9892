package handler

import (
	"errors"
	"log/slog"

	"github.com/bankcore-ledger/internal/auth"
	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/credential"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles signup and login
type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(logger *slog.Logger, authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup creates a credential and its zero-balance account
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.authService.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountAlreadyExists{}):
			h.logger.Warn("Attempt to sign up with taken username", "username", req.Username)
			RespondConflict(c, "Username already exists")
		case errors.Is(err, account.ErrEmptyUsername), errors.Is(err, auth.ErrEmptyPassword):
			RespondBadRequest(c, "Username and password are required")
		default:
			h.logger.Error("Failed to sign up user", "username", req.Username, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// Login verifies a username/password pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.authService.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, credential.ErrInvalidCredentials) {
			RespondUnauthorized(c, "Invalid username or password")
			return
		}
		h.logger.Error("Failed to verify credentials", "username", req.Username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, gin.H{"username": req.Username})
}
