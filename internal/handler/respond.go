// Package handler holds the JSON response conventions shared by all HTTP
// handlers.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jrmart12/nayos/internal/domain"
	"github.com/jrmart12/nayos/internal/middleware"
)

// JSON writes a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// errorBody is the error envelope shape.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error writes a domain error as a JSON error envelope. ValidationErrors
// carry their field map and map to 422; other domain codes map to their
// HTTP equivalents; anything else is a 500 with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.GetValidationFields(err); fields != nil {
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Code:    domain.EINVALID,
			Message: "Validation failed",
			Fields:  fields,
		}})
		return
	}

	code := domain.ErrorCode(err)
	status := statusFor(code)

	logger := middleware.GetLogger(r.Context())
	if status >= 500 {
		logger.Error("request failed", "error", err, "path", r.URL.Path)
	} else {
		logger.Info("request rejected", "error", err, "path", r.URL.Path)
	}

	JSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	}})
}

func statusFor(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
