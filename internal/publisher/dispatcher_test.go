package publisher

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/pkg/utils"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

// --- in-memory repositories ---

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[int64]*models.Post
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) ClaimForDispatch(ctx context.Context, id int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok || p.Status != models.PostStatusScheduled || p.ScheduledTime.After(now) {
		return false, nil
	}
	p.Status = models.PostStatusProcessing
	return true, nil
}

func (r *fakePostRepo) UpdatePostStatus(ctx context.Context, status string, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[postID]; ok {
		p.Status = status
	}
	return nil
}

func (r *fakePostRepo) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[postID]; ok {
		p.Status = models.PostStatusPublished
		p.PublishedAt = &publishedAt
	}
	return nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries []*models.PlatformEntry
	listErr error
}

func (r *fakeEntryRepo) Create(ctx context.Context, tx *sql.Tx, pe *models.PlatformEntry) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id int64) (*models.PlatformEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEntryRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PlatformEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.PlatformEntry
	for _, e := range r.entries {
		if e.PostID == postID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) MarkPublished(ctx context.Context, id int64, publishedAt time.Time, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			e.Status = models.EntryStatusPublished
			e.PublishedAt = &publishedAt
			e.URL = url
		}
	}
	return nil
}

func (r *fakeEntryRepo) UpdateStatus(ctx context.Context, status string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			e.Status = status
		}
	}
	return nil
}

type fakeAccountRepo struct {
	accounts []*models.SocialAccount
}

func (r *fakeAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, a := range r.accounts {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) ListByTimeInterval(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (r *fakeAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakeAccountRepo) SetToken(ctx context.Context, accountID int64, sa *models.SocialAccount) error {
	return nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakePostMediaRepo struct {
	links []*models.PostMedia
}

func (r *fakePostMediaRepo) Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error {
	return errors.New("not implemented")
}

func (r *fakePostMediaRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostMedia, error) {
	var out []*models.PostMedia
	for _, l := range r.links {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakePostMediaRepo) Remove(ctx context.Context, postID int64) error { return nil }

type fakeAssetRepo struct {
	assets map[int64]*models.MediaAsset
}

func (r *fakeAssetRepo) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return r.assets[id], nil
}

func (r *fakeAssetRepo) Remove(ctx context.Context, id int64) error { return nil }

type fakeUploadLogRepo struct {
	mu     sync.Mutex
	nextID int64
	logs   map[int64]*models.UploadLog
}

func newFakeUploadLogRepo() *fakeUploadLogRepo {
	return &fakeUploadLogRepo{nextID: 1, logs: make(map[int64]*models.UploadLog)}
}

func (r *fakeUploadLogRepo) Create(ctx context.Context, ul *models.UploadLog) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	copied := *ul
	copied.ID = id
	r.logs[id] = &copied
	return id, nil
}

func (r *fakeUploadLogRepo) GetByID(ctx context.Context, id int64) (*models.UploadLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul, ok := r.logs[id]
	if !ok {
		return nil, nil
	}
	copied := *ul
	return &copied, nil
}

func (r *fakeUploadLogRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.UploadLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UploadLog
	for _, ul := range r.logs {
		if ul.PostID == postID {
			copied := *ul
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUploadLogRepo) MarkSuccess(ctx context.Context, id int64, remotePostID, postURL, rawResponse string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul := r.logs[id]
	ul.Status = models.UploadStatusSuccess
	ul.RemotePostID = remotePostID
	ul.PostURL = postURL
	ul.RawResponse = rawResponse
	ul.ErrorCode = ""
	ul.ErrorMessage = ""
	ul.ErrorDetails = ""
	return nil
}

func (r *fakeUploadLogRepo) MarkFailed(ctx context.Context, id int64, errorCode, errorMessage, errorDetails string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul := r.logs[id]
	ul.Status = models.UploadStatusFailed
	ul.ErrorCode = errorCode
	ul.ErrorMessage = errorMessage
	ul.ErrorDetails = errorDetails
	return nil
}

func (r *fakeUploadLogRepo) MarkRetrying(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ul, ok := r.logs[id]
	if !ok || ul.Status != models.UploadStatusFailed {
		return sql.ErrNoRows
	}
	ul.Status = models.UploadStatusRetrying
	ul.AttemptCount++
	return nil
}

// --- fake adapter ---

type fakeAdapter struct {
	platform string
	result   *PublishResult
	err      error
	calls    int
	lastReq  *PublishRequest
}

func (a *fakeAdapter) Platform() string { return a.platform }

func (a *fakeAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	a.calls++
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

// --- fixtures ---

func encryptedToken(t *testing.T, token string) string {
	t.Helper()
	enc, err := utils.Encrypt([]byte(token), []byte(testSecretKey))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return enc
}

type fixture struct {
	pr *fakePostRepo
	pe *fakeEntryRepo
	sa *fakeAccountRepo
	pm *fakePostMediaRepo
	ma *fakeAssetRepo
	ul *fakeUploadLogRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	return &fixture{
		pr: &fakePostRepo{posts: map[int64]*models.Post{
			1: {
				ID:            1,
				ClientID:      10,
				Caption:       "hello world",
				Hashtags:      []string{"golang"},
				ScheduledTime: past,
				Status:        models.PostStatusScheduled,
			},
		}},
		pe: &fakeEntryRepo{entries: []*models.PlatformEntry{
			{ID: 1, PostID: 1, Platform: models.PlatformLinkedin, Status: models.EntryStatusPending, DisplayOrder: 0},
			{ID: 2, PostID: 1, Platform: models.PlatformFacebook, PageID: "page-1", Status: models.EntryStatusPending, DisplayOrder: 1},
		}},
		sa: &fakeAccountRepo{accounts: []*models.SocialAccount{
			{ID: 100, ClientID: 10, Platform: models.PlatformLinkedin, AccountID: "li-1", AccessToken: encryptedToken(t, "li-token")},
			{ID: 101, ClientID: 10, Platform: models.PlatformFacebook, AccountID: "fb-1", AccessToken: encryptedToken(t, "fb-token")},
		}},
		pm: &fakePostMediaRepo{},
		ma: &fakeAssetRepo{assets: map[int64]*models.MediaAsset{}},
		ul: newFakeUploadLogRepo(),
	}
}

func (f *fixture) dispatcher(adapters ...Adapter) *Dispatcher {
	return NewDispatcher(f.pr, f.pe, f.sa, f.pm, f.ma, f.ul, testSecretKey, adapters...)
}

// --- dispatch tests ---

func TestDispatchAllPlatformsSucceed(t *testing.T) {
	f := newFixture(t)
	li := &fakeAdapter{platform: models.PlatformLinkedin, result: &PublishResult{RemotePostID: "urn:li:share:1", URL: "https://linkedin/1"}}
	fb := &fakeAdapter{platform: models.PlatformFacebook, result: &PublishResult{RemotePostID: "fb_1", URL: "https://facebook/1"}}

	summary, err := f.dispatcher(li, fb).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.Published != 2 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusPublished {
		t.Errorf("post status = %s, want published", post.Status)
	}
	if post.PublishedAt == nil {
		t.Error("post published_at not set")
	}

	entries, _ := f.pe.ListByPostID(context.Background(), 1)
	for _, e := range entries {
		if e.Status != models.EntryStatusPublished {
			t.Errorf("entry %d status = %s, want published", e.ID, e.Status)
		}
	}

	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	if len(logs) != 2 {
		t.Fatalf("expected 2 upload logs, got %d", len(logs))
	}
	for _, ul := range logs {
		if ul.Status != models.UploadStatusSuccess {
			t.Errorf("log %d status = %s, want success", ul.ID, ul.Status)
		}
	}

	if fb.lastReq.PageID != "page-1" {
		t.Errorf("facebook page id = %q, want page-1", fb.lastReq.PageID)
	}
	if li.lastReq.AccessToken != "li-token" {
		t.Errorf("token not decrypted for adapter, got %q", li.lastReq.AccessToken)
	}
}

func TestDispatchPartialFailureStillPublishes(t *testing.T) {
	f := newFixture(t)
	li := &fakeAdapter{platform: models.PlatformLinkedin, result: &PublishResult{RemotePostID: "urn:li:share:1", URL: "https://linkedin/1"}}
	fb := &fakeAdapter{platform: models.PlatformFacebook, err: &PublishError{Code: "facebook_190", Message: "token expired", Details: `{"error":{}}`}}

	summary, err := f.dispatcher(li, fb).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.Published != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusPublished {
		t.Errorf("post status = %s, want published", post.Status)
	}

	// The failed entry keeps its pending status; only the log records it.
	entry, _ := f.pe.GetByID(context.Background(), 2)
	if entry.Status != models.EntryStatusPending {
		t.Errorf("failed entry status = %s, want pending", entry.Status)
	}

	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	var failed *models.UploadLog
	for _, ul := range logs {
		if ul.Status == models.UploadStatusFailed {
			failed = ul
		}
	}
	if failed == nil {
		t.Fatal("no failed upload log recorded")
	}
	if failed.ErrorCode != "facebook_190" || failed.ErrorMessage != "token expired" {
		t.Errorf("failed log error = %s/%s", failed.ErrorCode, failed.ErrorMessage)
	}
}

func TestDispatchAllFailuresMarksPostFailed(t *testing.T) {
	f := newFixture(t)
	li := &fakeAdapter{platform: models.PlatformLinkedin, err: errors.New("connection refused")}
	fb := &fakeAdapter{platform: models.PlatformFacebook, err: &PublishError{Code: "facebook_1", Message: "unknown"}}

	summary, err := f.dispatcher(li, fb).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.Published != 0 || summary.Failed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusFailed {
		t.Errorf("post status = %s, want failed", post.Status)
	}

	// Untagged adapter error is normalized to network_error.
	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	found := false
	for _, ul := range logs {
		if ul.ErrorCode == "network_error" {
			found = true
		}
	}
	if !found {
		t.Error("untagged error was not normalized to network_error")
	}
}

func TestDispatchMissingAccountSkipsWithoutLog(t *testing.T) {
	f := newFixture(t)
	// Only LinkedIn is connected; the facebook entry has no account.
	f.sa.accounts = f.sa.accounts[:1]
	li := &fakeAdapter{platform: models.PlatformLinkedin, result: &PublishResult{RemotePostID: "urn:li:share:1", URL: "https://linkedin/1"}}
	fb := &fakeAdapter{platform: models.PlatformFacebook}

	summary, err := f.dispatcher(li, fb).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.Published != 1 || summary.Skipped != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if fb.calls != 0 {
		t.Error("adapter called for entry without account")
	}

	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	if len(logs) != 1 {
		t.Fatalf("expected 1 upload log, got %d", len(logs))
	}
	if logs[0].Platform != models.PlatformLinkedin {
		t.Errorf("unexpected log platform %s", logs[0].Platform)
	}
}

func TestDispatchNoAccountsAtAllFailsPost(t *testing.T) {
	f := newFixture(t)
	f.sa.accounts = nil

	summary, err := f.dispatcher(
		&fakeAdapter{platform: models.PlatformLinkedin},
		&fakeAdapter{platform: models.PlatformFacebook},
	).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary.Published != 0 || summary.Skipped != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusFailed {
		t.Errorf("post status = %s, want failed", post.Status)
	}
	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	if len(logs) != 0 {
		t.Errorf("expected no upload logs, got %d", len(logs))
	}
}

func TestDispatchStoreErrorReleasesClaim(t *testing.T) {
	f := newFixture(t)
	f.pe.listErr = errors.New("store unreachable")
	li := &fakeAdapter{platform: models.PlatformLinkedin}

	summary, err := f.dispatcher(li).Dispatch(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error from Dispatch")
	}
	if summary != nil {
		t.Fatalf("expected nil summary, got %+v", summary)
	}
	if li.calls != 0 {
		t.Error("adapter called despite store error")
	}

	// The claim must not strand the post in processing; nothing re-selects it.
	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusFailed {
		t.Errorf("post status = %s, want failed", post.Status)
	}

	logs, _ := f.ul.ListByPostID(context.Background(), 1)
	if len(logs) != 0 {
		t.Errorf("expected no upload logs, got %d", len(logs))
	}
}

func TestDispatchUnclaimablePostIsNoop(t *testing.T) {
	f := newFixture(t)
	f.pr.posts[1].Status = models.PostStatusProcessing
	li := &fakeAdapter{platform: models.PlatformLinkedin}

	summary, err := f.dispatcher(li).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary for unclaimed post, got %+v", summary)
	}
	if li.calls != 0 {
		t.Error("adapter called for unclaimed post")
	}
}

func TestDispatchNotYetDuePostIsNoop(t *testing.T) {
	f := newFixture(t)
	f.pr.posts[1].ScheduledTime = time.Now().Add(time.Hour)

	summary, err := f.dispatcher(&fakeAdapter{platform: models.PlatformLinkedin}).Dispatch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if summary != nil {
		t.Fatalf("expected nil summary for future post, got %+v", summary)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusScheduled {
		t.Errorf("post status = %s, want scheduled", post.Status)
	}
}

func TestDispatchIncludesMedia(t *testing.T) {
	f := newFixture(t)
	f.pm.links = []*models.PostMedia{{PostID: 1, AssetID: 5, DisplayOrder: 0}}
	f.ma.assets[5] = &models.MediaAsset{ID: 5, MediaType: models.MediaTypeImage, FileURL: "https://cdn/img.png", Caption: "cover"}
	li := &fakeAdapter{platform: models.PlatformLinkedin, result: &PublishResult{RemotePostID: "x", URL: "y"}}
	fb := &fakeAdapter{platform: models.PlatformFacebook, result: &PublishResult{RemotePostID: "x", URL: "y"}}

	if _, err := f.dispatcher(li, fb).Dispatch(context.Background(), 1); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(li.lastReq.Media) != 1 || li.lastReq.Media[0].URL != "https://cdn/img.png" {
		t.Errorf("media not passed to adapter: %+v", li.lastReq.Media)
	}
	want := "hello world\n\n#golang"
	if li.lastReq.Content != want {
		t.Errorf("content = %q, want %q", li.lastReq.Content, want)
	}
}

// --- retry tests ---

func TestRetryUploadSuccessLiftsEntryAndPost(t *testing.T) {
	f := newFixture(t)
	f.pr.posts[1].Status = models.PostStatusFailed
	logID, _ := f.ul.Create(context.Background(), &models.UploadLog{
		PostID:    1,
		Platform:  models.PlatformLinkedin,
		AccountID: 100,
		Status:    models.UploadStatusPending,
	})
	f.ul.MarkFailed(context.Background(), logID, "linkedin_500", "server error", "")

	li := &fakeAdapter{platform: models.PlatformLinkedin, result: &PublishResult{RemotePostID: "urn:li:share:2", URL: "https://linkedin/2"}}

	if err := f.dispatcher(li).RetryUpload(context.Background(), logID); err != nil {
		t.Fatalf("RetryUpload: %v", err)
	}

	ul, _ := f.ul.GetByID(context.Background(), logID)
	if ul.Status != models.UploadStatusSuccess {
		t.Errorf("log status = %s, want success", ul.Status)
	}
	if ul.AttemptCount != 1 {
		t.Errorf("attempt count = %d, want 1", ul.AttemptCount)
	}

	entry, _ := f.pe.GetByID(context.Background(), 1)
	if entry.Status != models.EntryStatusPublished {
		t.Errorf("entry status = %s, want published", entry.Status)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusPublished {
		t.Errorf("post status = %s, want published", post.Status)
	}
}

func TestRetryUploadFailureStaysFailed(t *testing.T) {
	f := newFixture(t)
	f.pr.posts[1].Status = models.PostStatusFailed
	logID, _ := f.ul.Create(context.Background(), &models.UploadLog{
		PostID:    1,
		Platform:  models.PlatformLinkedin,
		AccountID: 100,
		Status:    models.UploadStatusPending,
	})
	f.ul.MarkFailed(context.Background(), logID, "linkedin_500", "server error", "")

	li := &fakeAdapter{platform: models.PlatformLinkedin, err: &PublishError{Code: "linkedin_401", Message: "revoked"}}

	if err := f.dispatcher(li).RetryUpload(context.Background(), logID); err != nil {
		t.Fatalf("RetryUpload: %v", err)
	}

	ul, _ := f.ul.GetByID(context.Background(), logID)
	if ul.Status != models.UploadStatusFailed {
		t.Errorf("log status = %s, want failed", ul.Status)
	}
	if ul.ErrorCode != "linkedin_401" {
		t.Errorf("error code = %s, want linkedin_401", ul.ErrorCode)
	}
	if ul.AttemptCount != 1 {
		t.Errorf("attempt count = %d, want 1", ul.AttemptCount)
	}

	post, _ := f.pr.GetByID(context.Background(), 1)
	if post.Status != models.PostStatusFailed {
		t.Errorf("post status = %s, want failed", post.Status)
	}
}

func TestRetryUploadOnSuccessfulLogIsNoop(t *testing.T) {
	f := newFixture(t)
	logID, _ := f.ul.Create(context.Background(), &models.UploadLog{
		PostID:    1,
		Platform:  models.PlatformLinkedin,
		AccountID: 100,
		Status:    models.UploadStatusPending,
	})
	f.ul.MarkSuccess(context.Background(), logID, "urn:li:share:1", "https://linkedin/1", "{}")

	li := &fakeAdapter{platform: models.PlatformLinkedin}

	if err := f.dispatcher(li).RetryUpload(context.Background(), logID); err != nil {
		t.Fatalf("RetryUpload: %v", err)
	}
	if li.calls != 0 {
		t.Error("adapter called when retrying a successful log")
	}

	ul, _ := f.ul.GetByID(context.Background(), logID)
	if ul.Status != models.UploadStatusSuccess {
		t.Errorf("log status = %s, want success", ul.Status)
	}
}
