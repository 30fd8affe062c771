// Package response writes JSON bodies and problem envelopes for both services.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/orderpay/internal/service/errs"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Problem is the error envelope returned by every endpoint.
type Problem struct {
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	RequestID string            `json:"requestId,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusFor maps err onto an HTTP status code.
func StatusFor(err error) int {
	switch errs.Kind(err) {
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict:
		return http.StatusConflict
	case errs.ErrBusinessRule:
		return http.StatusUnprocessableEntity
	case errs.ErrValidation:
		return http.StatusBadRequest
	case errs.ErrRemoteCall:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a Problem. Internal errors are logged and rendered
// without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	problem := Problem{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		problem.Message = "internal server error"
	} else {
		slog.InfoContext(r.Context(), "Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		problem.Fields = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			problem.Fields[fe.Namespace()] = fe.Tag()
		}
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}
