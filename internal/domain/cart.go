package domain

import "time"

// Cart is created lazily on the first add-to-cart and never deleted; checkout
// and clear only remove its line items.
type Cart struct {
	ID        int64     `json:"cart_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem carries the live catalog price in UnitPrice; nothing is locked in
// until checkout copies it onto an order line.
type CartItem struct {
	ID        int64     `json:"cart_item_id,omitempty"`
	CartID    int64     `json:"cart_id,omitempty"`
	GameID    int64     `json:"game_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Title     string    `json:"title,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	AddedAt   time.Time `json:"added_at,omitempty"`
}
