package handler

import (
	"encoding/json"
	"net/http"

	"club-rewards/internal/domain"
	"club-rewards/internal/middleware"
	"club-rewards/internal/service"
	"club-rewards/pkg/errors"
	"club-rewards/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// ModeratorHandler manages the moderator roster
type ModeratorHandler struct {
	moderators *service.ModeratorService
	logger     *logger.Logger
}

func NewModeratorHandler(moderators *service.ModeratorService, logger *logger.Logger) *ModeratorHandler {
	return &ModeratorHandler{
		moderators: moderators,
		logger:     logger,
	}
}

// Check handles GET /api/moderators/me
func (h *ModeratorHandler) Check(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, h.moderators.Check(session))
}

// List handles GET /api/moderators (moderator only)
func (h *ModeratorHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	moderators, err := h.moderators.List(r.Context(), session)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"moderators": moderators,
		"count":      len(moderators),
	})
}

// Add handles POST /api/moderators (moderator only)
func (h *ModeratorHandler) Add(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req domain.ModeratorAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if req.WalletAddress == "" {
		respondAppError(w, errors.NewValidationError("wallet_address is required", nil), h.logger)
		return
	}

	moderator, err := h.moderators.Add(r.Context(), session, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, moderator)
}

// Remove handles DELETE /api/moderators/{wallet} (moderator only)
func (h *ModeratorHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	wallet := chi.URLParam(r, "wallet")

	if err := h.moderators.Remove(r.Context(), session, wallet); err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
