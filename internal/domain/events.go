package domain

import "time"

// OrderPlacedEvent is published after the checkout transaction commits.
type OrderPlacedEvent struct {
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}
