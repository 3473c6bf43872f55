package handler

import (
	"encoding/json"
	"net/http"

	"club-rewards/internal/domain"
	"club-rewards/internal/middleware"
	"club-rewards/internal/service"
	"club-rewards/pkg/errors"
	"club-rewards/pkg/logger"
)

// DistributionHandler exposes the settled transfer ledger and the manual
// reconciliation path for ambiguous settlements
type DistributionHandler struct {
	settlements *service.SettlementCoordinator
	logger      *logger.Logger
}

func NewDistributionHandler(settlements *service.SettlementCoordinator, logger *logger.Logger) *DistributionHandler {
	return &DistributionHandler{
		settlements: settlements,
		logger:      logger,
	}
}

// List handles GET /api/distributions (moderator only)
func (h *DistributionHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	distributions, err := h.settlements.ListDistributions(r.Context(), session)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"distributions": distributions,
		"count":         len(distributions),
	})
}

// Record handles POST /api/distributions (moderator only). It records a
// transfer that was confirmed out of band, typically to resolve an ambiguous
// settlement, and is idempotent on submission.
func (h *DistributionHandler) Record(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req domain.DistributionRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondAppError(w, errors.NewValidationError("Invalid request body", nil), h.logger)
		return
	}

	if req.SubmissionID == "" || req.TransferProof == "" {
		respondAppError(w, errors.NewValidationError("submission_id and tx_signature are required", nil), h.logger)
		return
	}

	distribution, err := h.settlements.Reconcile(r.Context(), session, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, distribution)
}
