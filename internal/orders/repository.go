package orders

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/gamezilla/storefront/internal/domain"
)

const (
	defaultShippingAddress = "Default Shipping Address"
	defaultBillingAddress  = "Default Billing Address"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type PlaceOrderParams struct {
	UserID          int64
	CartID          int64
	PaymentID       int64
	ShippingAddress string
	BillingAddress  string
}

// PlaceOrder converts the cart's line items into a durable order in a single
// transaction: the cart is drained with an atomic delete-returning joined
// against live game prices, totals are computed, the order header and its
// line items are written, the payment is linked, and everything commits or
// rolls back together. The drain takes the row locks, so a concurrent
// checkout on the same cart observes an empty cart and fails cleanly with
// ErrEmptyCart.
func (r *OrderRepository) PlaceOrder(ctx context.Context, p PlaceOrderParams, pricing PricingConfig) (int64, Totals, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, Totals{}, err
	}
	defer func() { _ = tx.Rollback() }()

	items, err := drainCart(ctx, tx, p.CartID)
	if err != nil {
		return 0, Totals{}, err
	}

	if len(items) == 0 {
		return 0, Totals{}, ErrEmptyCart
	}

	totals, err := pricing.Totals(items)
	if err != nil {
		return 0, Totals{}, err
	}

	shippingAddress := p.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = defaultShippingAddress
	}
	billingAddress := p.BillingAddress
	if billingAddress == "" {
		billingAddress = defaultBillingAddress
	}

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, order_date, subtotal, tax_amount, shipping_cost, total_amount, status, shipping_address, billing_address, updated_at)
		VALUES ($1, NOW(), $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING order_id
	`, p.UserID, totals.Subtotal, totals.TaxAmount, totals.ShippingCost, totals.TotalAmount,
		domain.OrderStatusCompleted, shippingAddress, billingAddress).Scan(&orderID)
	if err != nil {
		return 0, Totals{}, err
	}

	for _, item := range items {
		// Per-line subtotal is quantity * unit_price recomputed at insert,
		// not a share of the rounded aggregate.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, game_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $3 * $4)
		`, orderID, item.GameID, item.Quantity, item.UnitPrice)
		if err != nil {
			return 0, Totals{}, err
		}
	}

	// An unknown payment id updates zero rows and is not an error; the
	// payment was recorded in an earlier, independent request.
	_, err = tx.ExecContext(ctx, `
		UPDATE payments SET order_id = $1 WHERE payment_id = $2
	`, orderID, p.PaymentID)
	if err != nil {
		return 0, Totals{}, err
	}

	if err := tx.Commit(); err != nil {
		return 0, Totals{}, err
	}

	return orderID, totals, nil
}

func drainCart(ctx context.Context, tx *sql.Tx, cartID int64) ([]domain.CartItem, error) {
	rows, err := tx.QueryContext(ctx, `
		DELETE FROM cart_items ci
		USING games g
		WHERE ci.cart_id = $1 AND g.game_id = ci.game_id
		RETURNING ci.game_id, ci.quantity, g.price
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []domain.CartItem
	for rows.Next() {
		var (
			gameID   int64
			quantity sql.NullInt64
			price    sql.NullFloat64
		)
		if err := rows.Scan(&gameID, &quantity, &price); err != nil {
			return nil, err
		}
		// A null price or quantity counts as zero rather than failing the
		// checkout; the subtotal check catches carts where nothing priced
		// remains.
		items = append(items, domain.CartItem{
			GameID:    gameID,
			Quantity:  int(quantity.Int64),
			UnitPrice: price.Float64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

type ProcessPaymentParams struct {
	Amount        float64
	PaymentMethod string
	CardLast4     *string
	PaypalEmail   *string
	UpiID         *string
}

// CreatePayment records a completed payment with no order association; the
// order id is back-filled when the order is placed.
func (r *OrderRepository) CreatePayment(ctx context.Context, p ProcessPaymentParams) (int64, error) {
	transactionID := "TR-" + uuid.NewString()

	var paymentID int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (payment_date, amount, payment_method, status, transaction_id, card_last4, paypal_email, upi_id)
		VALUES (NOW(), $1, $2, 'completed', $3, $4, $5, $6)
		RETURNING payment_id
	`, p.Amount, p.PaymentMethod, transactionID, p.CardLast4, p.PaypalEmail, p.UpiID).Scan(&paymentID)
	if err != nil {
		return 0, err
	}

	return paymentID, nil
}

type OrderDetails struct {
	Order   *domain.Order      `json:"order"`
	Items   []domain.OrderItem `json:"items"`
	Payment *domain.Payment    `json:"payment"`
}

func (r *OrderRepository) GetDetails(ctx context.Context, orderID int64) (*OrderDetails, error) {
	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, `
		SELECT order_id, user_id, order_date, subtotal, tax_amount, shipping_cost, total_amount, status, shipping_address, billing_address, updated_at
		FROM orders
		WHERE order_id = $1
	`, orderID).Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Subtotal, &order.TaxAmount,
		&order.ShippingCost, &order.TotalAmount, &order.Status, &order.ShippingAddress,
		&order.BillingAddress, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_item_id, oi.order_id, oi.game_id, oi.quantity, oi.unit_price, oi.subtotal,
		       g.title, COALESCE(g.platform, ''), gi.image_url
		FROM order_items oi
		JOIN games g ON oi.game_id = g.game_id
		LEFT JOIN game_images gi ON g.game_id = gi.game_id AND gi.is_primary
		WHERE oi.order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.GameID, &item.Quantity, &item.UnitPrice,
			&item.Subtotal, &item.Title, &item.Platform, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payment := &domain.Payment{}
	err = r.db.QueryRowContext(ctx, `
		SELECT payment_id, order_id, payment_date, amount, payment_method, status, transaction_id, card_last4, paypal_email, upi_id
		FROM payments
		WHERE order_id = $1
	`, orderID).Scan(&payment.ID, &payment.OrderID, &payment.PaymentDate, &payment.Amount,
		&payment.PaymentMethod, &payment.Status, &payment.TransactionID, &payment.CardLast4,
		&payment.PaypalEmail, &payment.UpiID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, err
		}
		payment = nil
	}

	return &OrderDetails{Order: order, Items: items, Payment: payment}, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.order_id, o.user_id, u.username, o.order_date, o.subtotal, o.tax_amount, o.shipping_cost, o.total_amount, o.status, o.shipping_address, o.billing_address, o.updated_at
		FROM orders o
		JOIN users u ON o.user_id = u.user_id
		ORDER BY o.order_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.Username, &order.OrderDate, &order.Subtotal,
			&order.TaxAmount, &order.ShippingCost, &order.TotalAmount, &order.Status,
			&order.ShippingAddress, &order.BillingAddress, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, user_id, order_date, subtotal, tax_amount, shipping_cost, total_amount, status, shipping_address, billing_address, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.OrderDate, &order.Subtotal,
			&order.TaxAmount, &order.ShippingCost, &order.TotalAmount, &order.Status,
			&order.ShippingAddress, &order.BillingAddress, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE order_id = $2
	`, status, orderID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
