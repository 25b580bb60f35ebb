package domain

type Category struct {
	ID          int64   `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}
