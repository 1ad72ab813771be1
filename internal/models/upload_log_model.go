package models

import "time"

// UploadLog records one publish attempt for one (post, platform, account)
// triple. Rows are append-only in normal flow: created pending, updated once
// to a terminal status, and touched again only by an explicit retry.
type UploadLog struct {
	ID           int64     `db:"id" json:"id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	Platform     string    `db:"platform" json:"platform"`
	AccountID    int64     `db:"account_id" json:"account_id"`
	Status       string    `db:"status" json:"status"` // pending, success, failed, retrying
	AttemptCount int       `db:"attempt_count" json:"attempt_count"`
	RemotePostID string    `db:"remote_post_id" json:"remote_post_id,omitempty"`
	PostURL      string    `db:"post_url" json:"post_url,omitempty"`
	ErrorCode    string    `db:"error_code" json:"error_code,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	ErrorDetails string    `db:"error_details" json:"error_details,omitempty"`
	RawResponse  string    `db:"raw_response" json:"raw_response,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	UploadStatusPending  = "pending"
	UploadStatusSuccess  = "success"
	UploadStatusFailed   = "failed"
	UploadStatusRetrying = "retrying"
)
