package domain

import "time"

type OrderStatus string

// New orders are written as "Completed" directly; the storefront has no
// fulfilment pipeline, so the remaining statuses exist only for the admin
// override endpoint.
const (
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusRefunded   OrderStatus = "Refunded"
)

type Order struct {
	ID              int64       `json:"order_id"`
	UserID          int64       `json:"user_id"`
	Username        string      `json:"username,omitempty"`
	OrderDate       time.Time   `json:"order_date"`
	Subtotal        float64     `json:"subtotal"`
	TaxAmount       float64     `json:"tax_amount"`
	ShippingCost    float64     `json:"shipping_cost"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem freezes quantity and unit price at checkout time; later catalog
// price changes do not touch it. Title, platform and image are joined in for
// the order-detail views.
type OrderItem struct {
	ID        int64   `json:"order_item_id"`
	OrderID   int64   `json:"order_id"`
	GameID    int64   `json:"game_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	Title     string  `json:"title,omitempty"`
	Platform  string  `json:"platform,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
}
