package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gamezilla/storefront/internal/domain"
)

func TestHandleSendsConfirmationEmail(t *testing.T) {
	var captured map[string]string
	emailSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode email request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer emailSrv.Close()

	h := NewNotificationHandler(emailSrv.URL, emailSrv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	event := domain.OrderPlacedEvent{
		OrderID:     42,
		UserID:      7,
		TotalAmount: 53.58,
		ItemCount:   3,
		Timestamp:   time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}

	if captured["to"] != "user-7@example.com" {
		t.Errorf("expected recipient user-7@example.com, got %q", captured["to"])
	}
	if captured["subject"] != "Order Confirmation: #42" {
		t.Errorf("unexpected subject %q", captured["subject"])
	}
	if !strings.Contains(captured["body"], "$53.58") {
		t.Errorf("expected body to mention total, got %q", captured["body"])
	}
	if !strings.Contains(captured["body"], "3 items") {
		t.Errorf("expected body to mention item count, got %q", captured["body"])
	}
}

func TestHandleEmailServiceFailure(t *testing.T) {
	emailSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer emailSrv.Close()

	h := NewNotificationHandler(emailSrv.URL, emailSrv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload, _ := json.Marshal(domain.OrderPlacedEvent{OrderID: 1, UserID: 1})
	if err := h.Handle(context.Background(), payload); err == nil {
		t.Fatal("expected error when email service fails")
	}
}

func TestHandleInvalidPayload(t *testing.T) {
	h := NewNotificationHandler("http://localhost:0", http.DefaultClient, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := h.Handle(context.Background(), []byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
