package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"club-rewards/internal/domain"
	apperrors "club-rewards/pkg/errors"
	"club-rewards/pkg/logger"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// respondAppError writes a structured error response
func respondAppError(w http.ResponseWriter, appErr *apperrors.AppError, log *logger.Logger) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(appErr).Error("Request failed")
	} else {
		log.WithError(appErr).Debug("Request rejected")
	}

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	respondJSON(w, appErr.StatusCode, response)
}

// respondError maps a service error to its HTTP representation and writes it
func respondError(w http.ResponseWriter, err error, log *logger.Logger) {
	respondAppError(w, mapError(err), log)
}

// mapError translates domain errors into the HTTP error taxonomy. Anything
// unrecognized is an internal error and its detail stays out of the response.
func mapError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrStaleAuthAttempt),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionInvalid):
		return apperrors.NewAuthenticationError(err.Error())

	case errors.Is(err, domain.ErrNotModerator):
		return apperrors.NewAuthorizationError(err.Error())

	case errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrModeratorNotFound):
		return apperrors.NewNotFoundError(err.Error())

	case errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrModeratorExists),
		errors.Is(err, domain.ErrSettlementInFlight):
		return apperrors.NewConflictError(err.Error())

	case errors.Is(err, domain.ErrActivityNotActive),
		errors.Is(err, domain.ErrEmptyProof),
		errors.Is(err, domain.ErrSelfRemoval):
		return apperrors.NewValidationError(err.Error(), nil)

	case errors.Is(err, domain.ErrSettlementAmbiguous),
		errors.Is(err, domain.ErrTransferFailed):
		return apperrors.NewExternalError(err.Error(), err)

	default:
		return apperrors.NewInternalError("Internal server error", err)
	}
}
