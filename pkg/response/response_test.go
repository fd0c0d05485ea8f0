package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"offerwall-rewards/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(requestID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if requestID != "" {
		c.Set(RequestIDKey, requestID)
	}
	return c, w
}

func TestSuccessEnvelopes(t *testing.T) {
	tests := []struct {
		name   string
		write  func(*gin.Context, any)
		status int
	}{
		{"ok", OK, http.StatusOK},
		{"created", Created, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-1")
			tt.write(c, map[string]int64{"points": 120})

			assert.Equal(t, tt.status, w.Code)
			var resp SuccessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "req-1", resp.RequestID)
			assert.NotEmpty(t, resp.Timestamp)
			assert.Equal(t, map[string]any{"points": float64(120)}, resp.Data)
		})
	}
}

func TestEnvelope_FlatWireShape(t *testing.T) {
	c, w := newContext("req-2")
	OK(c, nil)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "req-2", raw["request_id"])
	assert.Contains(t, raw, "timestamp")
	assert.NotContains(t, raw, "Meta")
}

func TestOK_GeneratesRequestID_WhenMissing(t *testing.T) {
	c, w := newContext("")
	OK(c, nil)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.RequestID, 36)
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"app error", apperror.ErrInsufficientPoints(), http.StatusPaymentRequired, "PTS_001", "Insufficient points balance"},
		{"wrapped app error", fmt.Errorf("outer: %w", apperror.ErrInvalidSignature()), http.StatusForbidden, "PB_003", "Invalid signature"},
		{"unknown error", fmt.Errorf("pq: password=hunter2"), http.StatusInternalServerError, "SYS_000", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext("req-3")
			Error(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, "req-3", resp.RequestID)
			assert.NotContains(t, w.Body.String(), "hunter2")
		})
	}
}

func TestText(t *testing.T) {
	c, w := newContext("")
	Text(c, http.StatusOK, "DUP")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DUP", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestJSON_NoEnvelope(t *testing.T) {
	c, w := newContext("")
	JSON(c, http.StatusBadRequest, gin.H{"status": "error"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":"error"}`, w.Body.String())
}
