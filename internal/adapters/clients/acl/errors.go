package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/clients"
	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

// ErrorResponse is the error envelope registries answer with. Both the nested
// {"error": {...}} and the flat {"code": ..., "message": ...} shapes are accepted.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail is the nested part of ErrorResponse.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode prefers the nested code.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage prefers the nested message.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse decodes body, returning nil when it carries neither code nor message.
func ParseErrorResponse(body string) *ErrorResponse {
	if body == "" {
		return nil
	}

	var resp ErrorResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil
	}
	if resp.GetCode() == "" && resp.GetMessage() == "" {
		return nil
	}

	return &resp
}

// MapClientError translates a clients failure for entity/id into a domain error.
// operation names the lookup for the StorageError.
func MapClientError(err error, operation, entity, id string) error {
	if err == nil {
		return nil
	}

	var statusErr *clients.StatusError
	if !errors.As(err, &statusErr) {
		switch {
		case errors.Is(err, clients.ErrCircuitOpen):
			return domain.NewStorageError(operation, fmt.Errorf("registry unavailable: %w", err))
		default:
			return domain.NewStorageError(operation, err)
		}
	}

	parsed := ParseErrorResponse(statusErr.Body)

	switch statusErr.StatusCode {
	case http.StatusNotFound:
		return domain.NewNotFoundError(entity, id)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if parsed != nil {
			for field, msg := range parsed.Error.Details {
				return domain.NewValidationError(field, msg)
			}
			if msg := parsed.GetMessage(); msg != "" {
				return domain.NewValidationError(entity, msg)
			}
		}
		return domain.NewValidationError(entity, "rejected by registry")
	default:
		return domain.NewStorageError(operation, err)
	}
}
