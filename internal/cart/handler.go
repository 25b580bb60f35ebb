package cart

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamezilla/storefront/internal/domain"
)

type Handler struct {
	repo   *CartRepository
	logger *slog.Logger
}

func NewHandler(repo *CartRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

type cartResponse struct {
	Cart  *domain.Cart      `json:"cart"`
	Items []domain.CartItem `json:"items"`
}

func (h *Handler) HandleGetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	cart, items, err := h.repo.GetByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get cart", "error", err, "user_id", userID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{Cart: cart, Items: items})
}

type addItemRequest struct {
	UserID   int64 `json:"user_id"`
	GameID   int64 `json:"game_id"`
	Quantity int   `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == 0 || req.GameID == 0 {
		http.Error(w, "user_id and game_id are required", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	if err := h.repo.AddItem(r.Context(), req.UserID, req.GameID, req.Quantity); err != nil {
		h.logger.Error("failed to add cart item", "error", err, "user_id", req.UserID, "game_id", req.GameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("cart item added", "user_id", req.UserID, "game_id", req.GameID, "quantity", req.Quantity)
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Item added to cart"))
}

type updateItemRequest struct {
	CartItemID int64 `json:"cart_item_id"`
	Quantity   int   `json:"quantity"`
}

func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateItem(r.Context(), req.CartItemID, req.Quantity)
	if err != nil {
		h.logger.Error("failed to update cart item", "error", err, "cart_item_id", req.CartItemID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Cart item updated successfully"})
}

// HandleDelete fans out the two DELETE routes, remove/{cartItemId} and
// {userId}/clear. They cannot be registered as separate ServeMux patterns
// because neither is more specific than the other.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	first, second := r.PathValue("first"), r.PathValue("second")
	switch {
	case first == "remove":
		h.removeItem(w, r, second)
	case second == "clear":
		h.clear(w, r, first)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request, rawID string) {
	cartItemID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, "invalid cart item id", http.StatusBadRequest)
		return
	}

	removed, err := h.repo.RemoveItem(r.Context(), cartItemID)
	if err != nil {
		h.logger.Error("failed to remove cart item", "error", err, "cart_item_id", cartItemID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !removed {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Item removed from cart"))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request, rawID string) {
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Clear(r.Context(), userID); err != nil {
		h.logger.Error("failed to clear cart", "error", err, "user_id", userID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("cart cleared", "user_id", userID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Cart cleared"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
