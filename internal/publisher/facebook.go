package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/transfer"
)

// FacebookAdapter publishes to the Graph API. With a page id it swaps in the
// page's own access token from /me/accounts; without one it posts to /me
// with the stored user token. Exactly one video goes to /videos, exactly one
// image to /photos, anything else becomes a /feed text post with the image
// URLs appended as plain links.
type FacebookAdapter struct {
	client    *http.Client
	graphBase string
}

func NewFacebookAdapter() *FacebookAdapter {
	return &FacebookAdapter{
		client:    &http.Client{Timeout: 30 * time.Second},
		graphBase: "https://graph.facebook.com/v19.0",
	}
}

func (a *FacebookAdapter) Platform() string {
	return models.PlatformFacebook
}

func (a *FacebookAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	target := "me"
	token := req.AccessToken

	if req.PageID != "" {
		page, err := a.findPage(ctx, req.AccessToken, req.PageID)
		if err != nil {
			return nil, err
		}
		target = page.ID
		token = page.AccessToken
	}

	var images, videos []MediaItem
	for _, item := range req.Media {
		switch item.MediaType {
		case models.MediaTypeVideo:
			videos = append(videos, item)
		default:
			images = append(images, item)
		}
	}

	switch {
	case len(videos) == 1 && len(images) == 0:
		return a.publishVideo(ctx, target, token, req.Content, videos[0])
	case len(images) == 1 && len(videos) == 0:
		return a.publishPhoto(ctx, target, token, req.Content, images[0])
	default:
		return a.publishFeed(ctx, target, token, req.Content, images)
	}
}

// findPage resolves a page id against the caller's page list and returns the
// page entry carrying its own access token.
func (a *FacebookAdapter) findPage(ctx context.Context, userToken, pageID string) (*transfer.FacebookPage, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?access_token=%s", a.graphBase, url.QueryEscape(userToken))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, &PublishError{Code: "request_build", Message: err.Error()}
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &PublishError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{Code: "response_read", Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, facebookError(resp.StatusCode, respBody)
	}

	var pages transfer.FacebookPageList
	if err := json.Unmarshal(respBody, &pages); err != nil {
		return nil, &PublishError{Code: "response_parse", Message: err.Error(), Details: string(respBody)}
	}

	for i := range pages.Data {
		if pages.Data[i].ID == pageID {
			return &pages.Data[i], nil
		}
	}

	return nil, &PublishError{
		Code:    "cannot_access_page",
		Message: fmt.Sprintf("caller has no access to page %s", pageID),
		Details: string(respBody),
	}
}

func (a *FacebookAdapter) publishVideo(ctx context.Context, target, token, content string, video MediaItem) (*PublishResult, error) {
	data := url.Values{}
	data.Set("description", content)
	data.Set("file_url", video.URL)
	data.Set("access_token", token)

	return a.post(ctx, fmt.Sprintf("%s/%s/videos", a.graphBase, target), data)
}

func (a *FacebookAdapter) publishPhoto(ctx context.Context, target, token, content string, image MediaItem) (*PublishResult, error) {
	data := url.Values{}
	data.Set("url", image.URL)
	data.Set("caption", content)
	data.Set("access_token", token)

	return a.post(ctx, fmt.Sprintf("%s/%s/photos", a.graphBase, target), data)
}

func (a *FacebookAdapter) publishFeed(ctx context.Context, target, token, content string, images []MediaItem) (*PublishResult, error) {
	message := content
	if len(images) > 0 {
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, img.URL)
		}
		message = message + "\n\n" + strings.Join(urls, "\n")
	}

	data := url.Values{}
	data.Set("message", message)
	data.Set("access_token", token)

	return a.post(ctx, fmt.Sprintf("%s/%s/feed", a.graphBase, target), data)
}

func (a *FacebookAdapter) post(ctx context.Context, endpoint string, data url.Values) (*PublishResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, &PublishError{Code: "request_build", Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &PublishError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{Code: "response_read", Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, facebookError(resp.StatusCode, respBody)
	}

	var result struct {
		ID     string `json:"id"`
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &PublishError{Code: "response_parse", Message: err.Error(), Details: string(respBody)}
	}

	// Photo uploads return both the photo id and the created post id.
	remoteID := result.PostID
	if remoteID == "" {
		remoteID = result.ID
	}
	if remoteID == "" {
		return nil, &PublishError{Code: "missing_post_id", Message: "no post id returned from Facebook", Details: string(respBody)}
	}

	return &PublishResult{
		RemotePostID: remoteID,
		URL:          fmt.Sprintf("https://www.facebook.com/%s", remoteID),
		RawResponse:  string(respBody),
	}, nil
}

func facebookError(status int, body []byte) *PublishError {
	var apiErr transfer.FacebookErrorResponse
	code := fmt.Sprintf("facebook_%d", status)
	message := fmt.Sprintf("unexpected status code from Facebook: %d", status)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
		if apiErr.Error.Code != 0 {
			code = "facebook_" + strconv.Itoa(apiErr.Error.Code)
		}
	}
	return &PublishError{
		Code:    code,
		Message: message,
		Details: string(body),
	}
}
