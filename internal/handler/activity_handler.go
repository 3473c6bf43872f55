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

// ActivityHandler handles activity catalog requests
type ActivityHandler struct {
	activities *service.ActivityService
	logger     *logger.Logger
}

func NewActivityHandler(activities *service.ActivityService, logger *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		logger:     logger,
	}
}

// List handles GET /api/activities. Moderators may pass ?active_only=false
// to see the full catalog; everyone else sees active activities only.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	activeOnly := r.URL.Query().Get("active_only") != "false"

	activities, err := h.activities.List(r.Context(), session, activeOnly)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
		"count":      len(activities),
	})
}

// Get handles GET /api/activities/{activityId}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activityId")
	if activityID == "" {
		respondAppError(w, errors.NewValidationError("Activity ID is required", nil), h.logger)
		return
	}

	activity, err := h.activities.GetByID(r.Context(), activityID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Create handles POST /api/activities (moderator only)
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req domain.ActivityCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	activity, err := h.activities.Create(r.Context(), session, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// Update handles PATCH /api/activities/{activityId} (moderator only)
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	activityID := chi.URLParam(r, "activityId")

	var req domain.ActivityUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	activity, err := h.activities.Update(r.Context(), session, activityID, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// Deactivate handles DELETE /api/activities/{activityId} (moderator only).
// The activity is hidden from new submissions, not removed.
func (h *ActivityHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	activityID := chi.URLParam(r, "activityId")

	if err := h.activities.Deactivate(r.Context(), session, activityID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
