package domain

import "time"

// Payment is written before its order exists; checkout back-fills OrderID.
type Payment struct {
	ID            int64     `json:"payment_id"`
	OrderID       *int64    `json:"order_id"`
	PaymentDate   time.Time `json:"payment_date"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id"`
	CardLast4     *string   `json:"card_last4"`
	PaypalEmail   *string   `json:"paypal_email"`
	UpiID         *string   `json:"upi_id"`
}
