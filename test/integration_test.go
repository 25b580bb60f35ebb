//go:build integration

package test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/gamezilla/storefront/internal/cart"
	"github.com/gamezilla/storefront/internal/domain"
	"github.com/gamezilla/storefront/internal/messaging"
	"github.com/gamezilla/storefront/internal/orders"
)

func seedUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	var userID int64
	err := db.QueryRow(`
		INSERT INTO users (username, email, role_id)
		VALUES ($1, $1 || '@example.com', (SELECT role_id FROM roles WHERE name = 'Customer'))
		RETURNING user_id
	`, username).Scan(&userID)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return userID
}

func seedGame(t *testing.T, db *sql.DB, title string, price *float64) int64 {
	t.Helper()

	var gameID int64
	err := db.QueryRow(`
		INSERT INTO games (title, price) VALUES ($1, $2) RETURNING game_id
	`, title, price).Scan(&gameID)
	if err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	return gameID
}

func cartIDForUser(t *testing.T, db *sql.DB, userID int64) int64 {
	t.Helper()

	var cartID int64
	if err := db.QueryRow(`SELECT cart_id FROM carts WHERE user_id = $1`, userID).Scan(&cartID); err != nil {
		t.Fatalf("failed to look up cart: %v", err)
	}
	return cartID
}

func ptr(v float64) *float64 { return &v }

func newOrdersMux(handler *orders.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", handler.HandlePlaceOrder)
	mux.HandleFunc("POST /api/orders/payment", handler.HandleProcessPayment)
	mux.HandleFunc("GET /api/orders/details/{orderId}", handler.HandleGetDetails)
	return mux
}

func TestCheckoutFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open DB: %v", err)
	}
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cartRepo := cart.NewCartRepository(db)
	orderRepo := orders.NewOrderRepository(db)
	handler := orders.NewHandler(orderRepo, nil, orders.DefaultPricing(), logger)
	mux := newOrdersMux(handler)

	userID := seedUser(t, db, "checkout-user")
	game1 := seedGame(t, db, "Space Raiders", ptr(19.99))
	game2 := seedGame(t, db, "Puzzle Box", ptr(5.00))

	if err := cartRepo.AddItem(ctx, userID, game1, 2); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	if err := cartRepo.AddItem(ctx, userID, game2, 1); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	cartID := cartIDForUser(t, db, userID)

	payBody := fmt.Sprintf(`{"user_id": %d, "cart_id": %d, "amount": 53.58, "payment_method": "card", "card_last4": "4242"}`, userID, cartID)
	payReq := httptest.NewRequest(http.MethodPost, "/api/orders/payment", strings.NewReader(payBody))
	payRec := httptest.NewRecorder()
	mux.ServeHTTP(payRec, payReq)

	if payRec.Code != http.StatusOK {
		t.Fatalf("payment failed with status %d: %s", payRec.Code, payRec.Body.String())
	}

	var payResp struct {
		Success   bool  `json:"success"`
		PaymentID int64 `json:"payment_id"`
	}
	if err := json.NewDecoder(payRec.Body).Decode(&payResp); err != nil {
		t.Fatalf("failed to decode payment response: %v", err)
	}
	if !payResp.Success || payResp.PaymentID == 0 {
		t.Fatalf("unexpected payment response: %+v", payResp)
	}

	orderBody := fmt.Sprintf(`{"user_id": %d, "cart_id": %d, "payment_id": %d}`, userID, cartID, payResp.PaymentID)
	orderReq := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(orderBody))
	orderRec := httptest.NewRecorder()
	mux.ServeHTTP(orderRec, orderReq)

	if orderRec.Code != http.StatusCreated {
		t.Fatalf("place order failed with status %d: %s", orderRec.Code, orderRec.Body.String())
	}

	var orderResp struct {
		Success bool  `json:"success"`
		OrderID int64 `json:"order_id"`
	}
	if err := json.NewDecoder(orderRec.Body).Decode(&orderResp); err != nil {
		t.Fatalf("failed to decode order response: %v", err)
	}
	if orderResp.OrderID == 0 {
		t.Fatal("expected order id in response")
	}

	details, err := orderRepo.GetDetails(ctx, orderResp.OrderID)
	if err != nil {
		t.Fatalf("failed to fetch order details: %v", err)
	}
	if details == nil {
		t.Fatal("order not found")
	}

	order := details.Order
	if order.Subtotal != 44.98 {
		t.Errorf("expected subtotal 44.98, got %v", order.Subtotal)
	}
	if order.TaxAmount != 3.60 {
		t.Errorf("expected tax 3.60, got %v", order.TaxAmount)
	}
	if order.ShippingCost != 5.00 {
		t.Errorf("expected shipping 5.00, got %v", order.ShippingCost)
	}
	if order.TotalAmount != 53.58 {
		t.Errorf("expected total 53.58, got %v", order.TotalAmount)
	}
	if order.Status != domain.OrderStatusCompleted {
		t.Errorf("expected status %q, got %q", domain.OrderStatusCompleted, order.Status)
	}
	if order.ShippingAddress != "Default Shipping Address" {
		t.Errorf("unexpected shipping address %q", order.ShippingAddress)
	}
	if order.BillingAddress != "Default Billing Address" {
		t.Errorf("unexpected billing address %q", order.BillingAddress)
	}

	if len(details.Items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(details.Items))
	}

	if details.Payment == nil {
		t.Fatal("expected payment linked to order")
	}
	if details.Payment.OrderID == nil || *details.Payment.OrderID != orderResp.OrderID {
		t.Error("payment not back-filled with order id")
	}

	_, items, err := cartRepo.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("failed to fetch cart: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected cart to be emptied, found %d items", len(items))
	}

	// Order lines keep the price paid even after the catalog moves on.
	if _, err := db.Exec(`UPDATE games SET price = 99.99 WHERE game_id = $1`, game1); err != nil {
		t.Fatalf("failed to change game price: %v", err)
	}
	details, err = orderRepo.GetDetails(ctx, orderResp.OrderID)
	if err != nil {
		t.Fatalf("failed to refetch order details: %v", err)
	}
	for _, item := range details.Items {
		if item.GameID == game1 && item.UnitPrice != 19.99 {
			t.Errorf("expected frozen unit price 19.99, got %v", item.UnitPrice)
		}
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open DB: %v", err)
	}
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := orders.NewHandler(orders.NewOrderRepository(db), nil, orders.DefaultPricing(), logger)
	mux := newOrdersMux(handler)

	userID := seedUser(t, db, "empty-cart-user")

	body := fmt.Sprintf(`{"user_id": %d, "cart_id": 9999, "payment_id": 1}`, userID)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "Cart is empty" {
		t.Errorf("expected body %q, got %q", "Cart is empty", got)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no orders written, found %d", count)
	}
}

func TestCheckoutUnpricedCart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open DB: %v", err)
	}
	defer func() { _ = db.Close() }()

	cartRepo := cart.NewCartRepository(db)
	orderRepo := orders.NewOrderRepository(db)

	userID := seedUser(t, db, "unpriced-user")
	unpriced := seedGame(t, db, "Early Access Mystery", nil)

	if err := cartRepo.AddItem(ctx, userID, unpriced, 3); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	cartID := cartIDForUser(t, db, userID)

	_, _, err = orderRepo.PlaceOrder(ctx, orders.PlaceOrderParams{
		UserID: userID,
		CartID: cartID,
	}, orders.DefaultPricing())
	if !errors.Is(err, orders.ErrInvalidCart) {
		t.Fatalf("expected ErrInvalidCart, got %v", err)
	}

	// The rejection rolls the drain back, so the cart is intact.
	_, items, err := cartRepo.GetByUser(ctx, userID)
	if err != nil {
		t.Fatalf("failed to fetch cart: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected cart item to survive rollback, found %d items", len(items))
	}
}

func TestCheckoutMixedNullPrices(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open DB: %v", err)
	}
	defer func() { _ = db.Close() }()

	cartRepo := cart.NewCartRepository(db)
	orderRepo := orders.NewOrderRepository(db)

	userID := seedUser(t, db, "mixed-cart-user")
	priced := seedGame(t, db, "Priced Game", ptr(10.00))
	unpriced := seedGame(t, db, "Unpriced Game", nil)

	if err := cartRepo.AddItem(ctx, userID, priced, 2); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	if err := cartRepo.AddItem(ctx, userID, unpriced, 5); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	cartID := cartIDForUser(t, db, userID)

	_, totals, err := orderRepo.PlaceOrder(ctx, orders.PlaceOrderParams{
		UserID: userID,
		CartID: cartID,
	}, orders.DefaultPricing())
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// Only the priced lines count toward the subtotal.
	if totals.Subtotal != 20.00 {
		t.Errorf("expected subtotal 20.00, got %v", totals.Subtotal)
	}
	if totals.TaxAmount != 1.60 {
		t.Errorf("expected tax 1.60, got %v", totals.TaxAmount)
	}
	if totals.TotalAmount != 26.60 {
		t.Errorf("expected total 26.60, got %v", totals.TotalAmount)
	}
}

func TestConcurrentCheckoutSameCart(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db, err := OpenDB(pg.ConnStr)
	if err != nil {
		t.Fatalf("failed to open DB: %v", err)
	}
	defer func() { _ = db.Close() }()

	cartRepo := cart.NewCartRepository(db)
	orderRepo := orders.NewOrderRepository(db)

	userID := seedUser(t, db, "racing-user")
	game := seedGame(t, db, "Hot Release", ptr(59.99))

	if err := cartRepo.AddItem(ctx, userID, game, 1); err != nil {
		t.Fatalf("failed to add item: %v", err)
	}
	cartID := cartIDForUser(t, db, userID)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := orderRepo.PlaceOrder(ctx, orders.PlaceOrderParams{
				UserID: userID,
				CartID: cartID,
			}, orders.DefaultPricing())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, emptyCarts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, orders.ErrEmptyCart):
			emptyCarts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || emptyCarts != 1 {
		t.Fatalf("expected exactly one success and one empty-cart failure, got %d/%d", successes, emptyCarts)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count); err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one order, found %d", count)
	}
}

func TestOrderPlacedEventRoundtrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	producer := messaging.NewProducer(brokers, "order.placed")
	defer func() { _ = producer.Close() }()

	sent := domain.OrderPlacedEvent{
		OrderID:     101,
		UserID:      7,
		TotalAmount: 53.58,
		ItemCount:   3,
		Timestamp:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := producer.Publish(ctx, "101", sent); err != nil {
		t.Fatalf("failed to publish event: %v", err)
	}

	consumer := messaging.NewConsumer(brokers, "order.placed", "test-group",
		messaging.WithStartOffset(kafka.FirstOffset))
	defer func() { _ = consumer.Close() }()

	received := make(chan domain.OrderPlacedEvent, 1)
	consumeCtx, stopConsume := context.WithCancel(ctx)
	defer stopConsume()

	go func() {
		_ = consumer.Consume(consumeCtx, func(_ context.Context, payload []byte) error {
			var event domain.OrderPlacedEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return err
			}
			received <- event
			stopConsume()
			return nil
		})
	}()

	select {
	case event := <-received:
		if event.OrderID != sent.OrderID || event.UserID != sent.UserID {
			t.Errorf("event identity mismatch: %+v", event)
		}
		if event.TotalAmount != sent.TotalAmount || event.ItemCount != sent.ItemCount {
			t.Errorf("event amounts mismatch: %+v", event)
		}
	case <-time.After(60 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
