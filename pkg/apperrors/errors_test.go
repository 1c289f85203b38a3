package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsMapToHTTPCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     ErrorCode
		httpCode int
	}{
		{"validation", ValidationError("bad input"), CodeValidationFailed, http.StatusBadRequest},
		{"not found", NotFoundError("chat", "Conversation not found"), CodeNotFound, http.StatusNotFound},
		{"invalid state", InvalidStateError("booking", "wrong state", "accepted"), CodeInvalidStatus, http.StatusConflict},
		{"unauthorized", UnauthorizedError("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", ForbiddenError("not yours"), CodeForbidden, http.StatusForbidden},
		{"transient store", TransientStoreError(errors.New("conn refused")), CodeDatabaseError, http.StatusServiceUnavailable},
		{"internal", InternalError(errors.New("boom")), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpCode, tt.err.HTTPCode)
		})
	}
}

func TestInvalidStateErrorCarriesCurrentStatus(t *testing.T) {
	err := InvalidStateError("booking", "cannot accept", "rejected")

	details, ok := err.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rejected", details["current_status"])
}

func TestRetryableOnlyForTransientStoreErrors(t *testing.T) {
	assert.True(t, IsRetryable(TransientStoreError(errors.New("timeout"))))
	assert.False(t, IsRetryable(ValidationError("nope")))
	assert.False(t, IsRetryable(errors.New("plain error")))

	// Retryability survives wrapping.
	wrapped := fmt.Errorf("while sending: %w", TransientStoreError(errors.New("timeout")))
	assert.True(t, IsRetryable(wrapped))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := TransientStoreError(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestMarshalJSONHidesInternals(t *testing.T) {
	err := TransientStoreError(errors.New("dsn=postgres://secret@host"))

	raw, jsonErr := json.Marshal(err)
	require.NoError(t, jsonErr)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))

	assert.Equal(t, "DATABASE_ERROR", payload["code"])
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, payload, "HTTPCode")
}
