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

// SubmissionHandler handles activity proof submissions and their review
type SubmissionHandler struct {
	submissions *service.SubmissionService
	settlements *service.SettlementCoordinator
	logger      *logger.Logger
}

func NewSubmissionHandler(submissions *service.SubmissionService, settlements *service.SettlementCoordinator, logger *logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		settlements: settlements,
		logger:      logger,
	}
}

// Create handles POST /api/submissions
func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req domain.SubmissionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if req.ActivityID == "" {
		respondAppError(w, errors.NewValidationError("activity_id is required", nil), h.logger)
		return
	}

	submission, err := h.submissions.Create(r.Context(), session.Identity, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, submission)
}

// ListMine handles GET /api/submissions/mine
func (h *SubmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	submissions, err := h.submissions.ListMine(r.Context(), session.Identity)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// ListPending handles GET /api/submissions/pending (moderator only)
func (h *SubmissionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	submissions, err := h.submissions.ListPending(r.Context(), session)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// ListAll handles GET /api/submissions (moderator only), with an optional
// ?status= filter.
func (h *SubmissionHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	status := domain.SubmissionStatus(r.URL.Query().Get("status"))
	if status != "" && status != domain.StatusPending && !domain.ValidReviewStatus(status) {
		respondAppError(w, errors.NewValidationError("Unknown status filter", nil), h.logger)
		return
	}

	submissions, err := h.submissions.ListAll(r.Context(), session, status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

// Review handles POST /api/submissions/{submissionId}/review (moderator
// only). An approval settles the token transfer before the submission leaves
// pending; a rejection is a pure state transition.
func (h *SubmissionHandler) Review(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	submissionID := chi.URLParam(r, "submissionId")

	var req domain.SubmissionReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if !domain.ValidReviewStatus(req.Status) {
		respondAppError(w, errors.NewValidationError("status must be approved or rejected", nil), h.logger)
		return
	}

	if req.Status == domain.StatusRejected {
		submission, err := h.settlements.Reject(r.Context(), submissionID, session, req.ReviewNote)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		respondJSON(w, http.StatusOK, submission)
		return
	}

	distribution, err := h.settlements.ApproveAndSettle(r.Context(), submissionID, session, req.ReviewNote)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       domain.StatusApproved,
		"distribution": distribution,
	})
}
