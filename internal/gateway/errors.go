package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/models"
)

// APIError is a gateway-level failure such as a declined request or bad credentials
// Code and Message are passed to callers verbatim
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tapsilat api error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tapsilat api error (status %d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError when it is one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Code    *models.FlexString `json:"code"`
		Message string             `json:"message"`
		Error   string             `json:"error"`
	}
	// best effort, non-JSON bodies fall back to the raw text
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{StatusCode: status}
	if payload.Code != nil {
		apiErr.Code = payload.Code.String()
	}

	switch {
	case payload.Error != "":
		apiErr.Message = payload.Error
	case payload.Message != "":
		apiErr.Message = payload.Message
	case len(strings.TrimSpace(string(body))) > 0 && !json.Valid(body):
		apiErr.Message = strings.TrimSpace(string(body))
	default:
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
