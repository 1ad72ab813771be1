package publisher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
	"github.com/postloom/postloom/pkg/utils"
)

// Summary counts the outcome of one dispatch run.
type Summary struct {
	Published int
	Failed    int
	Skipped   int
}

// Dispatcher drives a claimed post through its platform entries one at a
// time. Each entry gets its own upload log row; a platform failure is
// recorded there and never aborts the remaining entries.
type Dispatcher struct {
	pr repository.PostRepository
	pe repository.PlatformEntryRepository
	sa repository.SocialAccountRepository
	pm repository.PostMediaRepository
	ma repository.MediaAssetRepository
	ul repository.UploadLogRepository

	adapters    map[string]Adapter
	secretKey   string
	callTimeout time.Duration
}

func NewDispatcher(
	pr repository.PostRepository,
	pe repository.PlatformEntryRepository,
	sa repository.SocialAccountRepository,
	pm repository.PostMediaRepository,
	ma repository.MediaAssetRepository,
	ul repository.UploadLogRepository,
	secretKey string,
	adapters ...Adapter,
) *Dispatcher {
	d := &Dispatcher{
		pr:          pr,
		pe:          pe,
		sa:          sa,
		pm:          pm,
		ma:          ma,
		ul:          ul,
		adapters:    make(map[string]Adapter, len(adapters)),
		secretKey:   secretKey,
		callTimeout: 30 * time.Second,
	}
	for _, a := range adapters {
		d.adapters[a.Platform()] = a
	}
	return d
}

// Dispatch claims the post and publishes every pending platform entry. A
// false claim (someone else got there first, or the post is no longer due)
// returns a nil summary without error, which lets duplicate queue deliveries
// drain harmlessly.
func (d *Dispatcher) Dispatch(ctx context.Context, postID int64) (*Summary, error) {
	claimed, err := d.pr.ClaimForDispatch(ctx, postID, time.Now())
	if err != nil {
		return nil, err
	}
	if !claimed {
		slog.Info("post not claimable, skipping dispatch", "post_id", postID)
		return nil, nil
	}

	post, err := d.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, d.failClaimed(ctx, postID, err)
	}
	if post == nil {
		return nil, d.failClaimed(ctx, postID, fmt.Errorf("post %d vanished after claim", postID))
	}

	entries, err := d.pe.ListByPostID(ctx, postID)
	if err != nil {
		return nil, d.failClaimed(ctx, postID, err)
	}

	accounts, err := d.sa.ListByClientID(ctx, post.ClientID)
	if err != nil {
		return nil, d.failClaimed(ctx, postID, err)
	}

	media, err := d.loadMedia(ctx, postID)
	if err != nil {
		return nil, d.failClaimed(ctx, postID, err)
	}

	content := AssembleContent(post.Caption, post.Hashtags)

	summary := &Summary{}
	for _, entry := range entries {
		if entry.Status == models.EntryStatusPublished {
			continue
		}
		d.dispatchEntry(ctx, post, entry, accounts, content, media, summary)
	}

	if summary.Published > 0 {
		if err := d.pr.MarkPublished(ctx, postID, time.Now()); err != nil {
			return summary, err
		}
	} else {
		if err := d.pr.UpdatePostStatus(ctx, models.PostStatusFailed, postID); err != nil {
			return summary, err
		}
	}

	slog.Info("dispatch finished",
		"post_id", postID,
		"published", summary.Published,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	return summary, nil
}

// failClaimed releases a claimed post as failed before surfacing err. A post
// left in processing would never be re-selected: the sweep only matches
// scheduled and a redelivered claim fails against processing.
func (d *Dispatcher) failClaimed(ctx context.Context, postID int64, err error) error {
	if markErr := d.pr.UpdatePostStatus(ctx, models.PostStatusFailed, postID); markErr != nil {
		slog.Info(markErr.Error())
	}
	return err
}

// dispatchEntry publishes a single platform entry. Every outcome lands in
// the summary; only a missing account skips without an upload log row.
func (d *Dispatcher) dispatchEntry(ctx context.Context, post *models.Post, entry *models.PlatformEntry, accounts []*models.SocialAccount, content string, media []MediaItem, summary *Summary) {
	account := ResolveAccount(accounts, entry.Platform)
	if account == nil {
		slog.Info("no account for platform, skipping entry",
			"post_id", post.ID,
			"platform", entry.Platform)
		summary.Skipped++
		return
	}

	adapter, ok := d.adapters[account.Platform]
	if !ok {
		slog.Info("no adapter registered for platform, skipping entry",
			"post_id", post.ID,
			"platform", account.Platform)
		summary.Skipped++
		return
	}

	logID, err := d.ul.Create(ctx, &models.UploadLog{
		PostID:    post.ID,
		Platform:  account.Platform,
		AccountID: account.ID,
		Status:    models.UploadStatusPending,
	})
	if err != nil {
		slog.Info(err.Error())
		summary.Failed++
		return
	}

	result, err := d.invoke(ctx, adapter, account, entry.PageID, content, media)
	if err != nil {
		pubErr := AsPublishError(err)
		if markErr := d.ul.MarkFailed(ctx, logID, pubErr.Code, pubErr.Message, pubErr.Details); markErr != nil {
			slog.Info(markErr.Error())
		}
		summary.Failed++
		return
	}

	now := time.Now()
	if err := d.ul.MarkSuccess(ctx, logID, result.RemotePostID, result.URL, result.RawResponse); err != nil {
		slog.Info(err.Error())
	}
	if err := d.pe.MarkPublished(ctx, entry.ID, now, result.URL); err != nil {
		slog.Info(err.Error())
	}
	summary.Published++
}

// invoke decrypts the account token and runs the adapter under the per-call
// timeout.
func (d *Dispatcher) invoke(ctx context.Context, adapter Adapter, account *models.SocialAccount, pageID, content string, media []MediaItem) (*PublishResult, error) {
	token, err := utils.Decrypt(account.AccessToken, []byte(d.secretKey))
	if err != nil {
		return nil, &PublishError{Code: "token_decrypt", Message: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	return adapter.Publish(callCtx, &PublishRequest{
		Content:     content,
		Media:       media,
		AccountID:   account.AccountID,
		AccessToken: token,
		PageID:      pageID,
	})
}

// RetryUpload re-runs one failed upload log. The retrying transition guards
// against retrying anything but a failed log; a success also lifts the
// platform entry and, if the post had failed outright, the post itself.
func (d *Dispatcher) RetryUpload(ctx context.Context, logID int64) error {
	if err := d.ul.MarkRetrying(ctx, logID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Info("upload log not retryable", "upload_log_id", logID)
			return nil
		}
		return err
	}

	ul, err := d.ul.GetByID(ctx, logID)
	if err != nil {
		return err
	}
	if ul == nil {
		return fmt.Errorf("upload log %d vanished during retry", logID)
	}

	post, err := d.pr.GetByID(ctx, ul.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post %d for upload log %d not found", ul.PostID, logID)
	}

	account, err := d.sa.GetByID(ctx, ul.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		markErr := d.ul.MarkFailed(ctx, logID, "account_missing", "social account no longer exists", "")
		if markErr != nil {
			slog.Info(markErr.Error())
		}
		return nil
	}

	adapter, ok := d.adapters[account.Platform]
	if !ok {
		markErr := d.ul.MarkFailed(ctx, logID, "adapter_missing", "no adapter for platform "+account.Platform, "")
		if markErr != nil {
			slog.Info(markErr.Error())
		}
		return nil
	}

	entry, err := d.entryForLog(ctx, ul)
	if err != nil {
		return err
	}

	media, err := d.loadMedia(ctx, post.ID)
	if err != nil {
		return err
	}

	content := AssembleContent(post.Caption, post.Hashtags)

	pageID := ""
	if entry != nil {
		pageID = entry.PageID
	}

	result, err := d.invoke(ctx, adapter, account, pageID, content, media)
	if err != nil {
		pubErr := AsPublishError(err)
		return d.ul.MarkFailed(ctx, logID, pubErr.Code, pubErr.Message, pubErr.Details)
	}

	now := time.Now()
	if err := d.ul.MarkSuccess(ctx, logID, result.RemotePostID, result.URL, result.RawResponse); err != nil {
		return err
	}
	if entry != nil {
		if err := d.pe.MarkPublished(ctx, entry.ID, now, result.URL); err != nil {
			slog.Info(err.Error())
		}
	}
	if post.Status == models.PostStatusFailed {
		if err := d.pr.MarkPublished(ctx, post.ID, now); err != nil {
			slog.Info(err.Error())
		}
	}

	slog.Info("upload retried successfully",
		"upload_log_id", logID,
		"post_id", post.ID,
		"platform", ul.Platform)

	return nil
}

// entryForLog relocates the platform entry an upload log was written for.
// Logs predate any entry mutation, so match on platform within the post.
func (d *Dispatcher) entryForLog(ctx context.Context, ul *models.UploadLog) (*models.PlatformEntry, error) {
	entries, err := d.pe.ListByPostID(ctx, ul.PostID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Platform == ul.Platform && entry.Status != models.EntryStatusPublished {
			return entry, nil
		}
	}
	return nil, nil
}

func (d *Dispatcher) loadMedia(ctx context.Context, postID int64) ([]MediaItem, error) {
	links, err := d.pm.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(links))
	for _, link := range links {
		asset, err := d.ma.GetByID(ctx, link.AssetID)
		if err != nil {
			return nil, err
		}
		if asset == nil {
			slog.Info("media asset missing, skipping", "post_id", postID, "asset_id", link.AssetID)
			continue
		}
		items = append(items, MediaItem{
			URL:       asset.FileURL,
			MediaType: asset.MediaType,
			Caption:   asset.Caption,
		})
	}
	return items, nil
}
