package domain

import "time"

type Role struct {
	ID   int64  `json:"role_id"`
	Name string `json:"name"`
}

type Permission struct {
	ID   int64  `json:"permission_id"`
	Name string `json:"name"`
}

type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleName  *string   `json:"role_name"`
	CreatedAt time.Time `json:"created_at"`
}
