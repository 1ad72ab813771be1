package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/lib/pq"
	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
	"github.com/postloom/postloom/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	pe repository.PlatformEntryRepository
	cl repository.ClientRepository
	sa repository.SocialAccountRepository
	ma repository.MediaAssetRepository
	pm repository.PostMediaRepository
	st repository.SettingsRepository
	r2 R2Service
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	pe repository.PlatformEntryRepository,
	cl repository.ClientRepository,
	sa repository.SocialAccountRepository,
	ma repository.MediaAssetRepository,
	pm repository.PostMediaRepository,
	st repository.SettingsRepository,
	r2 R2Service) PostService {
	return &postService{
		db: db,
		pr: pr,
		pe: pe,
		cl: cl,
		sa: sa,
		ma: ma,
		pm: pm,
		st: st,
		r2: r2,
	}
}

// CreatePost validates the request, stores the post with its platform
// entries and media in one transaction, and returns the delay until the
// scheduled time so the caller can enqueue the publish task.
func (s *postService) CreatePost(ctx context.Context, userID int64, pc *transfer.PostCreation, files []*multipart.FileHeader) (int64, time.Duration, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, 0, err
	}
	if pc.Caption == "" {
		err := errors.New("caption cannot be empty")
		slog.Info(err.Error())
		return 0, 0, err
	}

	clientID, err := strconv.ParseInt(pc.ClientID, 10, 64)
	if err != nil {
		err = fmt.Errorf("invalid client id: %w", err)
		slog.Info(err.Error())
		return 0, 0, err
	}

	owned, err := s.cl.CheckByUserID(ctx, clientID, userID)
	if err != nil {
		return 0, 0, err
	}
	if !owned {
		err = errors.New("client doesn't exist")
		slog.Info(err.Error())
		return 0, 0, err
	}

	scheduledTime, err := time.Parse("2006-01-02T15:04", pc.ScheduledTime)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Error(err.Error())
		return 0, 0, err
	}

	platforms, err := s.parsePlatforms(ctx, userID, pc.Platforms)
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, err
	}

	var hashtags []string
	if pc.Hashtags != "" {
		if err := json.Unmarshal([]byte(pc.Hashtags), &hashtags); err != nil {
			err = fmt.Errorf("invalid hashtags format: %w", err)
			slog.Info(err.Error())
			return 0, 0, err
		}
	}

	var captions []string
	if pc.MediaCaptions != "" {
		if err := json.Unmarshal([]byte(pc.MediaCaptions), &captions); err != nil {
			err = fmt.Errorf("invalid media captions format: %w", err)
			slog.Info(err.Error())
			return 0, 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	post := models.Post{
		UserID:        userID,
		ClientID:      clientID,
		Caption:       pc.Caption,
		Title:         pc.Title,
		Hashtags:      pq.StringArray(hashtags),
		ScheduledTime: scheduledTime,
		Status:        models.PostStatusScheduled,
	}

	postID, err := s.pr.Create(ctx, tx, &post)
	if err != nil {
		return 0, 0, fmt.Errorf("error creating post: %w", err)
	}

	for i, decl := range platforms {
		entry := models.PlatformEntry{
			PostID:       postID,
			Platform:     decl.Platform,
			PageID:       decl.PageID,
			Status:       models.EntryStatusPending,
			DisplayOrder: i,
		}
		if _, err = s.pe.Create(ctx, tx, &entry); err != nil {
			return 0, 0, fmt.Errorf("error saving platform entry: %w", err)
		}
	}

	if err = s.processFiles(ctx, tx, userID, postID, files, captions); err != nil {
		return 0, 0, fmt.Errorf("error processing files: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	delay := time.Until(scheduledTime)
	if delay < 0 {
		delay = 0
	}

	return postID, delay, nil
}

// parsePlatforms decodes and validates the JSON platform declarations. A
// facebook entry without a page id falls back to the user's default page
// from settings, when one is configured.
func (s *postService) parsePlatforms(ctx context.Context, userID int64, raw string) ([]transfer.PlatformDeclaration, error) {
	var platforms []transfer.PlatformDeclaration
	if err := json.Unmarshal([]byte(raw), &platforms); err != nil {
		return nil, fmt.Errorf("invalid platforms format: %w", err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no platforms selected")
	}

	seen := make(map[string]struct{}, len(platforms))
	for i, decl := range platforms {
		switch decl.Platform {
		case models.PlatformLinkedin, models.PlatformFacebook:
		default:
			return nil, fmt.Errorf("platform %s is not supported", decl.Platform)
		}

		if _, dup := seen[decl.Platform]; dup {
			return nil, fmt.Errorf("platform %s declared more than once", decl.Platform)
		}
		seen[decl.Platform] = struct{}{}

		if decl.Platform == models.PlatformFacebook && decl.PageID == "" {
			settings, exists, err := s.st.GetByUserID(ctx, userID)
			if err != nil {
				return nil, err
			}
			if exists && settings.FacebookPageID != "" {
				platforms[i].PageID = settings.FacebookPageID
			}
		}
	}

	return platforms, nil
}

func (s *postService) processFiles(ctx context.Context, tx *sql.Tx, userID, postID int64, files []*multipart.FileHeader, captions []string) error {
	for i, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer fileContent.Close()

		fileBytes, err := io.ReadAll(fileContent)
		if err != nil {
			return fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return fmt.Errorf("unsupported file type: %w", err)
		}

		mediaType, err := classifyMedia(fileType)
		if err != nil {
			return err
		}

		caption := ""
		if i < len(captions) {
			caption = captions[i]
		}

		assetID, err := s.saveFile(ctx, tx, userID, fileType.MIME.Value, mediaType, caption, fileBytes)
		if err != nil {
			return fmt.Errorf("error uploading file: %w", err)
		}

		postMedia := models.PostMedia{
			PostID:       postID,
			AssetID:      assetID,
			DisplayOrder: i,
		}
		if err := s.pm.Create(ctx, tx, &postMedia); err != nil {
			return fmt.Errorf("error saving media file: %w", err)
		}
	}
	return nil
}

// classifyMedia buckets a sniffed file type into the stored media kinds.
func classifyMedia(t types.Type) (string, error) {
	switch t.Extension {
	case "gif":
		return models.MediaTypeGif, nil
	case "jpg", "jpeg", "png", "webp":
		return models.MediaTypeImage, nil
	case "mp4", "mov":
		return models.MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("file type %s is not allowed", t.Extension)
	}
}

func (s *postService) saveFile(ctx context.Context, tx *sql.Tx, userID int64, fileType, mediaType, caption string, file []byte) (int64, error) {
	id, err := gonanoid.New()
	if err != nil {
		log.Println(err.Error())
		return 0, err
	}
	err = s.r2.UploadToR2(ctx, id, file, fileType)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	ma := models.MediaAsset{
		UserID:    userID,
		FileName:  id,
		MediaType: mediaType,
		FileSize:  int64(len(file)),
		FileURL:   s.r2.PublicURL(id),
		Caption:   caption,
	}

	assetID, err := s.ma.Create(ctx, tx, &ma)
	if err != nil {
		return 0, err
	}

	return assetID, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting post info")
	}

	return post, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posts")
	}
	return posts, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("User is not valid")
		slog.Info(err.Error())
		return err
	}

	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.pr.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("Error removing post")
	}

	return nil
}
