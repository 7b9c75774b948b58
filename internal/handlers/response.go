package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/tapsilat-checkout/internal/checkout"
	"github.com/Lixing-Zhang/tapsilat-checkout/internal/gateway"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	Code       *string `json:"code,omitempty"`
	StatusCode *int    `json:"status_code,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Success: false, Message: message}, logger)
}

// WriteServiceError maps a service error to its HTTP response.
// Validation and gateway errors are the caller's problem and log at warn.
func WriteServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("request body too large", "limit", tooLarge.Limit)
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", logger)
		return
	}

	var ve *checkout.ValidationError
	if errors.As(err, &ve) {
		logger.Warn("validation failed", "field", ve.Field, "error", ve.Message)
		WriteError(w, http.StatusBadRequest, ve.Error(), logger)
		return
	}

	if apiErr, ok := gateway.AsAPIError(err); ok {
		logger.Warn("tapsilat api error", "status_code", apiErr.StatusCode, "code", apiErr.Code, "error", apiErr.Message)
		resp := ErrorResponse{
			Success:    false,
			Message:    "Tapsilat API Error: " + apiErr.Message,
			StatusCode: &apiErr.StatusCode,
		}
		if apiErr.Code != "" {
			resp.Code = &apiErr.Code
		}
		WriteJSON(w, http.StatusBadRequest, resp, logger)
		return
	}

	logger.Error("request failed", "error", err)
	WriteError(w, http.StatusInternalServerError, err.Error(), logger)
}

// decodeJSON decodes a small JSON body into v.
// Empty and malformed bodies are reported as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return checkout.MissingField("body", "JSON data required")
		}
		return checkout.MissingField("body", "Invalid request data: "+err.Error())
	}
	return nil
}

// writeRaw writes a gateway response body through unchanged
func writeRaw(w http.ResponseWriter, raw json.RawMessage, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
