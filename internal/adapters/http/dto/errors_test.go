package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req

	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())

	return resp
}

func TestErrorResponse_Builders(t *testing.T) {
	plain := NewErrorResponse(ErrorCodeNotFound, "quotation not found")
	assert.Equal(t, ErrorDetail{Code: ErrorCodeNotFound, Message: "quotation not found"}, plain.Error)
	assert.Empty(t, plain.TraceID)

	details := map[string]string{"cliente_cnpj": "must be a valid CNPJ"}
	detailed := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)
	assert.Equal(t, details, detailed.Error.Details)

	traced := detailed.WithTraceID("4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Same(t, detailed, traced)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traced.TraceID)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:     http.StatusNotFound,
		ErrorCodeConflict:     http.StatusConflict,
		ErrorCodeValidation:   http.StatusUnprocessableEntity,
		ErrorCodeBadRequest:   http.StatusBadRequest,
		ErrorCodeForbidden:    http.StatusForbidden,
		ErrorCodeUnauthorized: http.StatusUnauthorized,
		ErrorCodeUnavailable:  http.StatusServiceUnavailable,
		ErrorCodeTimeout:      http.StatusGatewayTimeout,
		ErrorCodeInternal:     http.StatusInternalServerError,
		"SOMETHING_ELSE":      http.StatusInternalServerError,
	}

	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, HTTPStatusFromCode(code))
		})
	}
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "from context",
			setup: func(c *gin.Context) { c.Set(TraceIDKey, "ctx-trace") },
			want:  "ctx-trace",
		},
		{
			name:  "from request id header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "hdr-trace") },
			want:  "hdr-trace",
		},
		{
			name: "context wins over header",
			setup: func(c *gin.Context) {
				c.Set(TraceIDKey, "ctx-trace")
				c.Request.Header.Set("X-Request-ID", "hdr-trace")
			},
			want: "ctx-trace",
		},
		{
			name:  "wrong type in context",
			setup: func(c *gin.Context) { c.Set(TraceIDKey, 42) },
		},
		{
			name:  "absent",
			setup: func(*gin.Context) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "")
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "not found",
			err:         domain.NewNotFoundError("quotation", "123"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "quotation",
		},
		{
			name:        "conflicting state",
			err:         domain.NewConflictingStateError(domain.ActionFinalize, domain.StatusRequested),
			wantStatus:  http.StatusConflict,
			wantCode:    ErrorCodeConflict,
			wantMessage: "solicitada",
		},
		{
			name:        "wrapped validation",
			err:         fmt.Errorf("creating quotation: %w", domain.NewValidationError("cliente_cnpj", "invalid CNPJ")),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    ErrorCodeValidation,
			wantMessage: "cliente_cnpj",
			wantDetails: map[string]string{"cliente_cnpj": "invalid CNPJ"},
		},
		{
			name:        "permission denied",
			err:         domain.NewPermissionDeniedError("finalize_quotation", "not the assigned operator"),
			wantStatus:  http.StatusForbidden,
			wantCode:    ErrorCodeForbidden,
			wantMessage: "finalize_quotation",
		},
		{
			name:        "storage hides the cause",
			err:         domain.NewStorageError("update quotation", errors.New("dial tcp 10.0.0.5:5432")),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "temporarily unavailable",
		},
		{
			name:        "unknown",
			err:         errors.New("unexpected error"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "")
			c.Set(TraceIDKey, "trace-"+tt.wantCode)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())

			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
			assert.NotContains(t, resp.Error.Message, "10.0.0.5")
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
			assert.Equal(t, "trace-"+tt.wantCode, resp.TraceID)
		})
	}
}

func TestHandleErrorCode(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "")

	HandleErrorCode(c, ErrorCodeUnauthorized, "actor identity is required")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, "actor identity is required", decodeError(t, w).Error.Message)
}

func TestHandleBindingError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"novo_operador_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeBadRequest,
		},
		{
			name:       "wrong json type",
			body:       `{"novo_operador_id":"quatro"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeBadRequest,
		},
		{
			name:       "notes over the limit",
			body:       `{"novo_operador_id":4,"observacoes":"` + strings.Repeat("n", 2001) + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrorCodeValidation,
			wantField:  "observacoes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, tt.body)

			var in ReassignRequest
			err := BindAndValidate(c, &in)
			require.Error(t, err)
			HandleBindingError(c, err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantField != "" {
				assert.Contains(t, resp.Error.Details, tt.wantField)
			}
		})
	}

	t.Run("missing operator id binds for the domain to judge", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, `{}`)

		var in ReassignRequest
		require.NoError(t, BindAndValidate(c, &in))
		assert.Zero(t, in.ToDomain().OperatorID)
	})
}
