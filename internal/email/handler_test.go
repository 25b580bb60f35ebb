package email

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleSend(t *testing.T) {
	h := newTestHandler()

	body := `{"to":"user-1@example.com","subject":"Order Confirmation: #1","body":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleSend(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp sendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != "sent" {
		t.Errorf("expected status %q, got %q", "sent", resp.Status)
	}
}

func TestHandleSendMissingRecipient(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"subject":"x"}`))
	rec := httptest.NewRecorder()

	h.HandleSend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleSendInvalidBody(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/send", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.HandleSend(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
