package domain

import "time"

type Review struct {
	ID        int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
