package orders

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_HandlePlaceOrder_Validation(t *testing.T) {
	handler := NewHandler(nil, nil, DefaultPricing(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("rejects invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.HandlePlaceOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("rejects missing user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"cart_id": 1, "payment_id": 2}`))
		rec := httptest.NewRecorder()

		handler.HandlePlaceOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "User ID is required" {
			t.Errorf("unexpected body: %q", got)
		}
	})
}

func TestHandler_HandleGetDetails_InvalidID(t *testing.T) {
	handler := NewHandler(nil, nil, DefaultPricing(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/details/{orderId}", handler.HandleGetDetails)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/details/not-a-number", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
