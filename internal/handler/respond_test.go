package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"club-rewards/internal/domain"
	apperrors "club-rewards/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestMapError_StatusCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidSignature, http.StatusUnauthorized},
		{domain.ErrStaleAuthAttempt, http.StatusUnauthorized},
		{domain.ErrSessionExpired, http.StatusUnauthorized},
		{domain.ErrSessionInvalid, http.StatusUnauthorized},
		{domain.ErrNotModerator, http.StatusForbidden},
		{domain.ErrActivityNotFound, http.StatusNotFound},
		{domain.ErrSubmissionNotFound, http.StatusNotFound},
		{domain.ErrModeratorNotFound, http.StatusNotFound},
		{domain.ErrAlreadyReviewed, http.StatusConflict},
		{domain.ErrModeratorExists, http.StatusConflict},
		{domain.ErrSettlementInFlight, http.StatusConflict},
		{domain.ErrActivityNotActive, http.StatusBadRequest},
		{domain.ErrEmptyProof, http.StatusBadRequest},
		{domain.ErrSelfRemoval, http.StatusBadRequest},
		{domain.ErrSettlementAmbiguous, http.StatusBadGateway},
		{domain.ErrTransferFailed, http.StatusBadGateway},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, mapError(tt.err).StatusCode)
		})
	}
}

func TestMapError_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%s: %w", "transfer tx123 confirmed but not recorded", domain.ErrSettlementAmbiguous)
	assert.Equal(t, http.StatusBadGateway, mapError(wrapped).StatusCode)

	wrapped = fmt.Errorf("%w: connection refused", domain.ErrTransferFailed)
	assert.Equal(t, http.StatusBadGateway, mapError(wrapped).StatusCode)
}

func TestMapError_PassesThroughAppError(t *testing.T) {
	appErr := apperrors.NewValidationError("bad input", nil)
	assert.Same(t, appErr, mapError(appErr))
}

func TestMapError_HidesInternalDetail(t *testing.T) {
	mapped := mapError(errors.New("pq: connection reset"))
	assert.Equal(t, "Internal server error", mapped.Message)
}
