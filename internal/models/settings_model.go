package models

import "time"

type Settings struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	Timezone       string    `db:"timezone" json:"timezone"`
	FacebookPageID string    `db:"facebook_page_id" json:"facebook_page_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
