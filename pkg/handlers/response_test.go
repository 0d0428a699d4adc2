package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/apperrors"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{apperrors.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{apperrors.ErrInactiveAccount, http.StatusForbidden, "account_deactivated"},
		{apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{apperrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, zap.NewNop(), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
		})
	}
}

func TestWriteServiceError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, zap.NewNop(), fmt.Errorf("%w: quantity must be a positive integer", apperrors.ErrValidation))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "quantity must be a positive integer")
}

func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, zap.NewNop(), errors.New("pq: connection refused host=db password=hunter2"))

	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "Something went wrong")
}
