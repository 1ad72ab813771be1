package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/postloom/postloom/internal/models"
)

func newTestFacebookAdapter(srv *httptest.Server) *FacebookAdapter {
	return &FacebookAdapter{
		client:    srv.Client(),
		graphBase: srv.URL,
	}
}

func TestFacebookPublishToPageUsesPageToken(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_token"); got != "user-token" {
			t.Errorf("page list fetched with %q", got)
		}
		fmt.Fprint(w, `{"data":[{"id":"page-1","name":"Acme","access_token":"page-token"}]}`)
	})
	mux.HandleFunc("/page-1/feed", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.PostForm.Get("access_token"); got != "page-token" {
			t.Errorf("published with %q, want page-token", got)
		}
		if got := r.PostForm.Get("message"); got != "hello" {
			t.Errorf("message = %q", got)
		}
		fmt.Fprint(w, `{"id":"page-1_222"}`)
	})

	a := newTestFacebookAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "hello",
		AccessToken: "user-token",
		PageID:      "page-1",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.RemotePostID != "page-1_222" {
		t.Errorf("remote post id = %q", result.RemotePostID)
	}
	if result.URL != "https://www.facebook.com/page-1_222" {
		t.Errorf("url = %q", result.URL)
	}
}

func TestFacebookPublishInaccessiblePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"other-page","name":"Other","access_token":"x"}]}`)
	}))
	defer srv.Close()

	a := newTestFacebookAdapter(srv)
	_, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "hello",
		AccessToken: "user-token",
		PageID:      "page-1",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T, want *PublishError", err)
	}
	if pe.Code != "cannot_access_page" {
		t.Errorf("code = %q", pe.Code)
	}
}

func TestFacebookPublishSinglePhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/photos" {
			t.Errorf("path = %s, want /me/photos", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostForm.Get("url"); got != "https://cdn/img.png" {
			t.Errorf("photo url = %q", got)
		}
		if got := r.PostForm.Get("caption"); got != "look" {
			t.Errorf("caption = %q", got)
		}
		fmt.Fprint(w, `{"id":"333","post_id":"me_333"}`)
	}))
	defer srv.Close()

	a := newTestFacebookAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "look",
		AccessToken: "user-token",
		Media:       []MediaItem{{URL: "https://cdn/img.png", MediaType: models.MediaTypeImage}},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.RemotePostID != "me_333" {
		t.Errorf("remote post id = %q, want the post id over the photo id", result.RemotePostID)
	}
}

func TestFacebookPublishSingleVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/videos" {
			t.Errorf("path = %s, want /me/videos", r.URL.Path)
		}
		r.ParseForm()
		if got := r.PostForm.Get("file_url"); got != "https://cdn/clip.mp4" {
			t.Errorf("file_url = %q", got)
		}
		if got := r.PostForm.Get("description"); got != "watch" {
			t.Errorf("description = %q", got)
		}
		fmt.Fprint(w, `{"id":"444"}`)
	}))
	defer srv.Close()

	a := newTestFacebookAdapter(srv)
	result, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "watch",
		AccessToken: "user-token",
		Media:       []MediaItem{{URL: "https://cdn/clip.mp4", MediaType: models.MediaTypeVideo}},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.RemotePostID != "444" {
		t.Errorf("remote post id = %q", result.RemotePostID)
	}
}

func TestFacebookPublishMultipleImagesFallsBackToFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/feed" {
			t.Errorf("path = %s, want /me/feed", r.URL.Path)
		}
		r.ParseForm()
		message := r.PostForm.Get("message")
		if !strings.Contains(message, "hello") || !strings.Contains(message, "https://cdn/a.png") || !strings.Contains(message, "https://cdn/b.gif") {
			t.Errorf("message missing image links: %q", message)
		}
		fmt.Fprint(w, `{"id":"555"}`)
	}))
	defer srv.Close()

	a := newTestFacebookAdapter(srv)
	// A gif counts as an image here.
	_, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "hello",
		AccessToken: "user-token",
		Media: []MediaItem{
			{URL: "https://cdn/a.png", MediaType: models.MediaTypeImage},
			{URL: "https://cdn/b.gif", MediaType: models.MediaTypeGif},
		},
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

func TestFacebookPublishGraphErrorDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Error validating access token","type":"OAuthException","code":190,"fbtrace_id":"xyz"}}`)
	}))
	defer srv.Close()

	a := newTestFacebookAdapter(srv)
	_, err := a.Publish(context.Background(), &PublishRequest{
		Content:     "hello",
		AccessToken: "bad-token",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var pe *PublishError
	if !errors.As(err, &pe) {
		t.Fatalf("error type %T, want *PublishError", err)
	}
	if pe.Code != "facebook_190" {
		t.Errorf("code = %q", pe.Code)
	}
	if pe.Message != "Error validating access token" {
		t.Errorf("message = %q", pe.Message)
	}
}
