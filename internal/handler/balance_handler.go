package handler

import (
	"net/http"

	"club-rewards/internal/service"
	"club-rewards/pkg/errors"
	"club-rewards/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// BalanceHandler proxies token balance lookups to the chain RPC so the
// frontend never talks to the RPC endpoint directly
type BalanceHandler struct {
	balances service.BalanceQuerier
	logger   *logger.Logger
}

func NewBalanceHandler(balances service.BalanceQuerier, logger *logger.Logger) *BalanceHandler {
	return &BalanceHandler{
		balances: balances,
		logger:   logger,
	}
}

// Get handles GET /api/balance/{wallet}
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if wallet == "" {
		respondAppError(w, errors.NewValidationError("Wallet address is required", nil), h.logger)
		return
	}

	balance, err := h.balances.Balance(r.Context(), wallet)
	if err != nil {
		respondAppError(w, errors.NewExternalError("Failed to query balance", err), h.logger)
		return
	}

	respondJSON(w, http.StatusOK, balance)
}
