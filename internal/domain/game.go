package domain

import "time"

type Game struct {
	ID            int64      `json:"game_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price"`
	StockQuantity int        `json:"stock_quantity"`
	Developer     *string    `json:"developer"`
	Publisher     *string    `json:"publisher"`
	ReleaseDate   *time.Time `json:"release_date"`
	Platform      *string    `json:"platform"`
	Genre         *string    `json:"genre"`
	IsFeatured    bool       `json:"is_featured"`
	ImageURL      *string    `json:"image_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
