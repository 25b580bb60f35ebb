package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gamezilla/storefront/internal/domain"
	"github.com/gamezilla/storefront/internal/messaging"
)

type Handler struct {
	repo     *OrderRepository
	producer *messaging.Producer
	pricing  PricingConfig
	logger   *slog.Logger
}

func NewHandler(repo *OrderRepository, producer *messaging.Producer, pricing PricingConfig, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		pricing:  pricing,
		logger:   logger,
	}
}

type placeOrderRequest struct {
	UserID          int64  `json:"user_id"`
	CartID          int64  `json:"cart_id"`
	PaymentID       int64  `json:"payment_id"`
	ShippingAddress string `json:"shipping_address"`
	BillingAddress  string `json:"billing_address"`
}

func (h *Handler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == 0 {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	orderID, totals, err := h.repo.PlaceOrder(r.Context(), PlaceOrderParams{
		UserID:          req.UserID,
		CartID:          req.CartID,
		PaymentID:       req.PaymentID,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}, h.pricing)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			http.Error(w, "Cart is empty", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidCart):
			http.Error(w, "Invalid cart items or prices", http.StatusBadRequest)
		default:
			h.logger.Error("failed to place order", "error", err, "user_id", req.UserID, "cart_id", req.CartID)
			http.Error(w, "Server Error", http.StatusInternalServerError)
		}
		return
	}

	if h.producer != nil {
		event := domain.OrderPlacedEvent{
			OrderID:     orderID,
			UserID:      req.UserID,
			TotalAmount: totals.TotalAmount,
			ItemCount:   totals.ItemCount,
			Timestamp:   time.Now().UTC(),
		}
		if err := h.producer.Publish(r.Context(), strconv.FormatInt(orderID, 10), event); err != nil {
			h.logger.Error("failed to publish order placed event", "error", err, "order_id", orderID)
		}
	}

	h.logger.Info("order placed", "order_id", orderID, "user_id", req.UserID, "total", totals.TotalAmount)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Order placed successfully",
		"order_id": orderID,
	})
}

type processPaymentRequest struct {
	UserID          int64   `json:"user_id"`
	CartID          int64   `json:"cart_id"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"payment_method"`
	CardLast4       *string `json:"card_last4"`
	PaypalEmail     *string `json:"paypal_email"`
	UpiID           *string `json:"upi_id"`
	ShippingAddress string  `json:"shipping_address"`
	BillingAddress  string  `json:"billing_address"`
}

// HandleProcessPayment records a payment before any order exists. The amount
// is taken from the caller as-is and never checked against the cart's
// computed total.
func (h *Handler) HandleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	paymentID, err := h.repo.CreatePayment(r.Context(), ProcessPaymentParams{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		CardLast4:     req.CardLast4,
		PaypalEmail:   req.PaypalEmail,
		UpiID:         req.UpiID,
	})
	if err != nil {
		h.logger.Error("failed to process payment", "error", err, "user_id", req.UserID)
		h.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Payment processing failed",
		})
		return
	}

	h.logger.Info("payment processed", "payment_id", paymentID, "method", req.PaymentMethod)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"payment_id": paymentID,
	})
}

func (h *Handler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	details, err := h.repo.GetDetails(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order details", "error", err, "order_id", orderID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if details == nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, details)
}

func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	orders, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list orders for user", "error", err, "user_id", userID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("orderId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", orderID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	h.logger.Info("order status updated", "order_id", orderID, "status", req.Status)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Order status updated successfully"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
