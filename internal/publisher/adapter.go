package publisher

import (
	"context"
)

// MediaItem is the read-only media input an adapter receives.
type MediaItem struct {
	URL       string
	MediaType string // image, video, gif
	Caption   string
}

// PublishRequest carries everything one adapter call needs. AccessToken is
// already decrypted; Content already has hashtags appended.
type PublishRequest struct {
	Content     string
	Media       []MediaItem
	AccountID   string
	AccessToken string
	PageID      string
}

type PublishResult struct {
	RemotePostID string
	URL          string
	RawResponse  string
}

// Adapter publishes one post to one platform. Failures come back as
// *PublishError values; adding a platform means adding an Adapter without
// touching the dispatcher.
type Adapter interface {
	Platform() string
	Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error)
}
