package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"club-rewards/internal/domain"
	"club-rewards/internal/middleware"
	"club-rewards/internal/service"
	"club-rewards/pkg/errors"
	"club-rewards/pkg/logger"
)

// AuthHandler handles wallet-signature authentication requests
type AuthHandler struct {
	sessions service.SessionIssuer
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions service.SessionIssuer, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if req.WalletAddress == "" || req.Signature == "" || req.Message == "" {
		respondAppError(w, errors.NewValidationError("wallet_address, signature and message are required", nil), h.logger)
		return
	}

	session, err := h.sessions.Authenticate(r.Context(), req.WalletAddress, req.Message, req.Signature, time.Now())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	h.logger.WithField("wallet", session.Identity).Info("Wallet authenticated")

	respondJSON(w, http.StatusOK, &domain.LoginResponse{
		Token:         session.Token,
		WalletAddress: session.Identity,
		IsModerator:   session.IsModerator,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		respondAppError(w, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	if err := h.sessions.Logout(r.Context(), session.Identity); err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		respondAppError(w, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	respondJSON(w, http.StatusOK, session)
}
