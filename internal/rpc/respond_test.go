package rpc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", fmt.Errorf("product 7: %w", domain.ErrNotFound), http.StatusNotFound, `{"error":"product 7: not found"}`},
		{"invalid argument", fmt.Errorf("%w: name failed", domain.ErrInvalidArgument), http.StatusBadRequest, `{"error":"invalid argument: name failed"}`},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, `{"error":"unauthenticated"}`},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, `{"error":"forbidden"}`},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable, `{"error":"unavailable"}`},
		{"store failure is opaque", fmt.Errorf("get_user: %w: %w", store.ErrStoreFailure, errors.New("password=hunter2")), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			WriteError(rec, req, discard, tt.err)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.body {
				t.Errorf("expected body %s, got %s", tt.body, got)
			}
		})
	}
}
