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

	"github.com/mcoot/solitaire-server/internal/model"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", model.Required("username"), http.StatusBadRequest, CodeInvalidRequest},
		{"invalid game record", model.ErrInvalidGameRecord, http.StatusBadRequest, CodeInvalidGameRecord},
		{"unknown user", model.ErrUnknownUser, http.StatusNotFound, CodeUnknownUser},
		{"no bound account", model.ErrNoBoundAccount, http.StatusNotFound, CodeNoBoundAccount},
		{"no game records", model.ErrNoGameRecords, http.StatusNotFound, CodeNoGameRecords},
		{"duplicate username", model.ErrDuplicateUsername, http.StatusConflict, CodeUsernameExists},
		{"invalid credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"address mismatch", model.ErrAddressMismatch, http.StatusForbidden, CodeAddressMismatch},
		{"wrapped", fmt.Errorf("lookup: %w", model.ErrUnknownUser), http.StatusNotFound, CodeUnknownUser},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
		{"explicit", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("dial tcp 10.0.0.5:6379: connection refused"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
