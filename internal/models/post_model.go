package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID            int64          `db:"id" json:"id"`
	UserID        int64          `db:"user_id" json:"user_id"`
	ClientID      int64          `db:"client_id" json:"client_id"`
	Caption       string         `db:"caption" json:"caption"`
	Title         string         `db:"title" json:"title"`
	Hashtags      pq.StringArray `db:"hashtags" json:"hashtags"`
	ScheduledTime time.Time      `db:"scheduled_time" json:"scheduled_time"`
	Status        string         `db:"status" json:"status"` // draft, scheduled, processing, published, failed
	PublishedAt   *time.Time     `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// PlatformEntry is one declared publish target of a post. Entries are
// processed in display_order; each succeeds or fails independently.
type PlatformEntry struct {
	ID           int64      `db:"id" json:"id"`
	PostID       int64      `db:"post_id" json:"post_id"`
	Platform     string     `db:"platform" json:"platform"`
	PageID       string     `db:"page_id" json:"page_id,omitempty"`
	Status       string     `db:"status" json:"status"` // pending, published, failed
	PublishedAt  *time.Time `db:"published_at" json:"published_at,omitempty"`
	URL          string     `db:"url" json:"url,omitempty"`
	DisplayOrder int        `db:"display_order" json:"display_order"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	MediaType string    `db:"media_type" json:"media_type"` // image, video, gif
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	Caption   string    `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PostMedia struct {
	PostID       int64     `db:"post_id" json:"post_id"`
	AssetID      int64     `db:"asset_id" json:"asset_id"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusDraft      = "draft"
	PostStatusScheduled  = "scheduled"
	PostStatusProcessing = "processing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)

const (
	EntryStatusPending   = "pending"
	EntryStatusPublished = "published"
	EntryStatusFailed    = "failed"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeGif   = "gif"
)

const (
	PlatformLinkedin = "linkedin"
	PlatformFacebook = "facebook"
)
