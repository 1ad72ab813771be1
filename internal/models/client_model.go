package models

import "time"

// Client is the tenant dimension: posts and social accounts belong to a
// client, clients belong to a manager (user).
type Client struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Company   string    `db:"company" json:"company"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
