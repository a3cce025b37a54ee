// Package response writes the JSON envelope all API endpoints share.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quantx/pulse/internal/core"
)

// Meta carries response metadata alongside the payload.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse wraps a payload as {data, meta}.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail is the serialized form of a core.Error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse wraps an error as {error}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	})
}

// Error writes an error envelope. Errors that are not core.Error values
// are masked as INTERNAL_ERROR so internals never leak to clients.
func Error(w http.ResponseWriter, status int, err error) {
	write(w, status, ErrorResponse{Error: detailFor(err)})
}

func detailFor(err error) ErrorDetail {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		return ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "an internal error occurred",
		}
	}

	detail := ErrorDetail{
		Code:    coreErr.Code,
		Message: coreErr.Message,
	}
	if coreErr.Cause != nil {
		detail.Cause = coreErr.Cause.Error()
	}
	return detail
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
