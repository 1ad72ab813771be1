package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/transfer"
)

const linkedinUploadMechanism = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"

// LinkedinAdapter publishes UGC posts via api.linkedin.com/v2. Only image
// media are attached; each image goes through registerUpload followed by a
// binary PUT before the ugcPosts call. Videos and gifs are dropped from the
// payload.
type LinkedinAdapter struct {
	client  *http.Client
	apiBase string
}

func NewLinkedinAdapter() *LinkedinAdapter {
	return &LinkedinAdapter{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: "https://api.linkedin.com",
	}
}

func (a *LinkedinAdapter) Platform() string {
	return models.PlatformLinkedin
}

func (a *LinkedinAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	author := fmt.Sprintf("urn:li:person:%s", req.AccountID)

	var assets []string
	for _, item := range req.Media {
		if item.MediaType != models.MediaTypeImage {
			continue
		}
		asset, err := a.uploadImage(ctx, author, req.AccessToken, item.URL)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	shareMediaCategory := "NONE"
	media := make([]map[string]interface{}, 0, len(assets))
	if len(assets) > 0 {
		shareMediaCategory = "IMAGE"
		for _, asset := range assets {
			media = append(media, map[string]interface{}{
				"status": "READY",
				"media":  asset,
			})
		}
	}

	payload := map[string]interface{}{
		"author":         author,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]string{
					"text": req.Content,
				},
				"shareMediaCategory": shareMediaCategory,
				"media":              media,
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &PublishError{Code: "payload_encode", Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.apiBase+"/v2/ugcPosts", bytes.NewBuffer(body))
	if err != nil {
		return nil, &PublishError{Code: "request_build", Message: err.Error()}
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &PublishError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &PublishError{Code: "response_read", Message: err.Error()}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, linkedinError(resp.StatusCode, respBody)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &PublishError{Code: "response_parse", Message: err.Error(), Details: string(respBody)}
	}
	if result.ID == "" {
		result.ID = resp.Header.Get("X-RestLi-Id")
	}
	if result.ID == "" {
		return nil, &PublishError{Code: "missing_post_id", Message: "no post id returned from LinkedIn", Details: string(respBody)}
	}

	return &PublishResult{
		RemotePostID: result.ID,
		URL:          fmt.Sprintf("https://www.linkedin.com/feed/update/%s", result.ID),
		RawResponse:  string(respBody),
	}, nil
}

// uploadImage runs LinkedIn's two-step asset upload: registerUpload to get
// an upload URL and asset URN, then a binary PUT of the image bytes.
func (a *LinkedinAdapter) uploadImage(ctx context.Context, author, accessToken, imageURL string) (string, error) {
	payload := map[string]interface{}{
		"registerUploadRequest": map[string]interface{}{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   author,
			"serviceRelationships": []map[string]string{
				{
					"relationshipType": "OWNER",
					"identifier":       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &PublishError{Code: "payload_encode", Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.apiBase+"/v2/assets?action=registerUpload", bytes.NewBuffer(body))
	if err != nil {
		return "", &PublishError{Code: "request_build", Message: err.Error()}
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", &PublishError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &PublishError{Code: "response_read", Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return "", linkedinError(resp.StatusCode, respBody)
	}

	var registered transfer.LinkedinRegisterUploadResponse
	if err := json.Unmarshal(respBody, &registered); err != nil {
		return "", &PublishError{Code: "response_parse", Message: err.Error(), Details: string(respBody)}
	}

	mechanism, ok := registered.Value.UploadMechanism[linkedinUploadMechanism]
	if !ok || mechanism.UploadURL == "" {
		return "", &PublishError{Code: "missing_upload_url", Message: "registerUpload returned no upload URL", Details: string(respBody)}
	}

	imageBytes, err := a.fetchMedia(ctx, imageURL)
	if err != nil {
		return "", err
	}

	putReq, err := http.NewRequestWithContext(ctx, "PUT", mechanism.UploadURL, bytes.NewReader(imageBytes))
	if err != nil {
		return "", &PublishError{Code: "request_build", Message: err.Error()}
	}
	putReq.Header.Set("Authorization", "Bearer "+accessToken)

	putResp, err := a.client.Do(putReq)
	if err != nil {
		return "", &PublishError{Code: "network_error", Message: err.Error()}
	}
	defer putResp.Body.Close()

	if putResp.StatusCode != http.StatusCreated && putResp.StatusCode != http.StatusOK {
		uploadBody, _ := io.ReadAll(putResp.Body)
		return "", linkedinError(putResp.StatusCode, uploadBody)
	}

	return registered.Value.Asset, nil
}

func (a *LinkedinAdapter) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", mediaURL, nil)
	if err != nil {
		return nil, &PublishError{Code: "request_build", Message: err.Error()}
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, &PublishError{Code: "media_fetch", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &PublishError{Code: "media_fetch", Message: fmt.Sprintf("unexpected status %d fetching media", resp.StatusCode)}
	}

	return io.ReadAll(resp.Body)
}

func linkedinError(status int, body []byte) *PublishError {
	var apiErr transfer.LinkedinErrorResponse
	message := fmt.Sprintf("unexpected status code from LinkedIn: %d", status)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		message = apiErr.Message
	}
	return &PublishError{
		Code:    fmt.Sprintf("linkedin_%d", status),
		Message: message,
		Details: string(body),
	}
}
