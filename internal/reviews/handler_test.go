package reviews

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandleAddRequiresAuthentication(t *testing.T) {
	handler := NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"game_id":1,"rating":5}`))
	rec := httptest.NewRecorder()

	handler.HandleAdd(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "Authentication required" {
		t.Errorf("expected body %q, got %q", "Authentication required", got)
	}
}

func TestHandleGetInvalidID(t *testing.T) {
	handler := NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reviews/{reviewId}", handler.HandleGet)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/abc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
