package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
)

type UploadLogService interface {
	List(ctx context.Context, userID, postID int64) ([]*models.UploadLog, error)
	GetForRetry(ctx context.Context, userID, logID int64) (*models.UploadLog, error)
}

type uploadLogService struct {
	ul repository.UploadLogRepository
	pr repository.PostRepository
}

func NewUploadLogService(ul repository.UploadLogRepository, pr repository.PostRepository) UploadLogService {
	return &uploadLogService{
		ul: ul,
		pr: pr,
	}
}

func (s *uploadLogService) List(ctx context.Context, userID, postID int64) ([]*models.UploadLog, error) {
	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("Post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	logs, err := s.ul.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("Error getting upload logs")
	}

	return logs, nil
}

// GetForRetry checks that the log belongs to one of the caller's posts and
// is in a retryable state before the handler enqueues the retry task.
func (s *uploadLogService) GetForRetry(ctx context.Context, userID, logID int64) (*models.UploadLog, error) {
	ul, err := s.ul.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}

	if ul == nil {
		err = errors.New("Upload log doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, ul.PostID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		err = errors.New("Upload log doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	if ul.Status != models.UploadStatusFailed {
		err = errors.New("only failed uploads can be retried")
		slog.Info(err.Error())
		return nil, err
	}

	return ul, nil
}
