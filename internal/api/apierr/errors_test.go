package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/colormatch/internal/model"
	"github.com/mcoot/colormatch/internal/services/auth"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{model.ErrSessionNotFound, http.StatusNotFound},
		{model.ErrInvalidStateForAction, http.StatusConflict},
		{model.ErrInvalidCoordinate, http.StatusBadRequest},
		{model.ErrInsufficientBoosterCharges, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", model.ErrUnknownBooster), http.StatusBadRequest},
		{auth.ErrInvalidSession, http.StatusUnauthorized},
		{auth.ErrPasswordTooShort, http.StatusBadRequest},
		{NewInvalidRequestError("bad"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, model.ErrInvalidContinue)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeInvalidContinue, resp.Error.Code)
}
