// Package rpc is the HTTP/JSON boundary shared by the Storefront, Admin and
// User facades: routing, payload decoding, error mapping and middleware.
package rpc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

const internalMessage = "internal server error"

func WriteJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError maps err to a status code. Errors outside the domain taxonomy are
// logged and reported with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := StatusOf(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"error", err,
			"route", r.Pattern,
			"request_id", RequestIDFrom(r.Context()),
		)
		message = internalMessage
	} else {
		logger.Debug("request rejected",
			"error", err,
			"status", status,
			"route", r.Pattern,
			"request_id", RequestIDFrom(r.Context()),
		)
	}

	WriteJSON(w, logger, status, map[string]string{"error": message})
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
