package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/postloom/postloom/internal/models"
)

func newTestLinkedinAdapter(srv *httptest.Server) *LinkedinAdapter {
	return &LinkedinAdapter{
		client:  srv.Client(),
		apiBase: srv.URL,
	}
}

func TestLinkedinPublishTextPost(t *testing.T) {
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/ugcPosts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer li-token" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("X-Restli-Protocol-Version"); got != "2.0.0" {
			t.Errorf("restli version header = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"urn:li:share:42"}`)
	}))
	defer srv.Close()

	a := newTestLinkedinAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "hello\n\n#golang",
		AccountID:   "abc123",
		AccessToken: "li-token",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if result.RemotePostID != "urn:li:share:42" {
		t.Errorf("remote post id = %q", result.RemotePostID)
	}
	if result.URL != "https://www.linkedin.com/feed/update/urn:li:share:42" {
		t.Errorf("url = %q", result.URL)
	}

	if gotPayload["author"] != "urn:li:person:abc123" {
		t.Errorf("author = %v", gotPayload["author"])
	}
	content := gotPayload["specificContent"].(map[string]interface{})["com.linkedin.ugc.ShareContent"].(map[string]interface{})
	if content["shareMediaCategory"] != "NONE" {
		t.Errorf("shareMediaCategory = %v for text post", content["shareMediaCategory"])
	}
}

func TestLinkedinPublishWithImage(t *testing.T) {
	var putHit bool

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/v2/assets", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "registerUpload" {
			t.Errorf("missing registerUpload action")
		}
		fmt.Fprintf(w, `{"value":{"asset":"urn:li:digitalmediaAsset:1","uploadMechanism":{"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest":{"uploadUrl":"%s/upload"}}}}`, srv.URL)
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("upload method = %s", r.Method)
		}
		putHit = true
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/media/img.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/v2/ugcPosts", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		content := payload["specificContent"].(map[string]interface{})["com.linkedin.ugc.ShareContent"].(map[string]interface{})
		if content["shareMediaCategory"] != "IMAGE" {
			t.Errorf("shareMediaCategory = %v, want IMAGE", content["shareMediaCategory"])
		}
		media := content["media"].([]interface{})
		if len(media) != 1 {
			t.Errorf("media len = %d, want 1", len(media))
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"urn:li:share:43"}`)
	})

	a := newTestLinkedinAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "with image",
		AccountID:   "abc123",
		AccessToken: "li-token",
		Media: []MediaItem{
			{URL: srv.URL + "/media/img.png", MediaType: models.MediaTypeImage},
			{URL: srv.URL + "/media/clip.mp4", MediaType: models.MediaTypeVideo},
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !putHit {
		t.Error("binary upload PUT never happened")
	}
	if result.RemotePostID != "urn:li:share:43" {
		t.Errorf("remote post id = %q", result.RemotePostID)
	}
}

func TestLinkedinPublishIDFromHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:share:77")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	a := newTestLinkedinAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{Content: "x", AccountID: "a", AccessToken: "t"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.RemotePostID != "urn:li:share:77" {
		t.Errorf("remote post id = %q", result.RemotePostID)
	}
}

func TestLinkedinPublishErrorDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Invalid access token","status":401,"serviceErrorCode":65600}`)
	}))
	defer srv.Close()

	a := newTestLinkedinAdapter(srv)
	_, err := a.Publish(context.Background(), &PublishRequest{Content: "x", AccountID: "a", AccessToken: "t"})
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T, want *PublishError", err)
	}
	if pe.Code != "linkedin_401" {
		t.Errorf("code = %q", pe.Code)
	}
	if pe.Message != "Invalid access token" {
		t.Errorf("message = %q", pe.Message)
	}
	if pe.Details == "" {
		t.Error("details not captured")
	}
}
