package rpc

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

type priced struct {
	Name  string          `json:"name" validate:"required,max=8"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

func TestDecode(t *testing.T) {
	decode := func(body string) (priced, error) {
		var p priced
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return p, Decode(req, &p)
	}

	t.Run("accepts a valid payload", func(t *testing.T) {
		p, err := decode(`{"name":"lamp","price":"12.50"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Price.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("expected price 12.5, got %s", p.Price)
		}
	})

	t.Run("accepts a numeric price", func(t *testing.T) {
		if _, err := decode(`{"name":"lamp","price":3}`); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	rejected := map[string]string{
		"empty body":     ``,
		"malformed":      `{"name":`,
		"unknown field":  `{"name":"lamp","price":"1","colour":"red"}`,
		"missing name":   `{"price":"1"}`,
		"name too long":  `{"name":"chandelier","price":"1"}`,
		"negative price": `{"name":"lamp","price":"-0.01"}`,
	}
	for name, body := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := decode(body)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("expected invalid argument, got %v", err)
			}
		})
	}

	t.Run("names fields by their json tag", func(t *testing.T) {
		_, err := decode(`{"name":"lamp","price":"-1"}`)
		if err == nil || !strings.Contains(err.Error(), "price") {
			t.Errorf("expected error naming price, got %v", err)
		}
	})
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if gotErr != nil || got != 42 {
		t.Errorf("expected 42, got %d (%v)", got, gotErr)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	if !errors.Is(gotErr, domain.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", gotErr)
	}
}
