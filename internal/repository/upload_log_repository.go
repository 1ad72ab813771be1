package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postloom/postloom/internal/models"
)

type UploadLogRepository interface {
	Create(ctx context.Context, ul *models.UploadLog) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.UploadLog, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.UploadLog, error)
	MarkSuccess(ctx context.Context, id int64, remotePostID, postURL, rawResponse string) error
	MarkFailed(ctx context.Context, id int64, errorCode, errorMessage, errorDetails string) error
	MarkRetrying(ctx context.Context, id int64) error
}

type uploadLogRepository struct {
	db *sql.DB
}

func NewUploadLogRepository(db *sql.DB) UploadLogRepository {
	return &uploadLogRepository{db: db}
}

const uploadLogColumns = `id, post_id, platform, account_id, status, attempt_count, remote_post_id, post_url, error_code, error_message, error_details, raw_response, created_at, updated_at`

func (r *uploadLogRepository) Create(ctx context.Context, ul *models.UploadLog) (int64, error) {
	query := `
		INSERT INTO upload_logs (post_id, platform, account_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, ul.PostID, ul.Platform, ul.AccountID, ul.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *uploadLogRepository) GetByID(ctx context.Context, id int64) (*models.UploadLog, error) {
	query := `SELECT ` + uploadLogColumns + ` FROM upload_logs WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var ul models.UploadLog
	err := row.Scan(&ul.ID, &ul.PostID, &ul.Platform, &ul.AccountID, &ul.Status,
		&ul.AttemptCount, &ul.RemotePostID, &ul.PostURL, &ul.ErrorCode,
		&ul.ErrorMessage, &ul.ErrorDetails, &ul.RawResponse, &ul.CreatedAt, &ul.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ul, nil
}

func (r *uploadLogRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.UploadLog, error) {
	query := `SELECT ` + uploadLogColumns + ` FROM upload_logs WHERE post_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var logs []*models.UploadLog
	for rows.Next() {
		var ul models.UploadLog
		err := rows.Scan(&ul.ID, &ul.PostID, &ul.Platform, &ul.AccountID, &ul.Status,
			&ul.AttemptCount, &ul.RemotePostID, &ul.PostURL, &ul.ErrorCode,
			&ul.ErrorMessage, &ul.ErrorDetails, &ul.RawResponse, &ul.CreatedAt, &ul.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		logs = append(logs, &ul)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return logs, nil
}

func (r *uploadLogRepository) MarkSuccess(ctx context.Context, id int64, remotePostID, postURL, rawResponse string) error {
	query := `
		UPDATE upload_logs
		SET status = $1,
			remote_post_id = $2,
			post_url = $3,
			raw_response = $4,
			error_code = '',
			error_message = '',
			error_details = '',
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, models.UploadStatusSuccess, remotePostID, postURL, rawResponse, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *uploadLogRepository) MarkFailed(ctx context.Context, id int64, errorCode, errorMessage, errorDetails string) error {
	query := `
		UPDATE upload_logs
		SET status = $1,
			error_code = $2,
			error_message = $3,
			error_details = $4,
			updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, models.UploadStatusFailed, errorCode, errorMessage, errorDetails, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// MarkRetrying transitions a failed log into retrying and bumps the attempt
// counter. The status guard keeps retry from re-running successful uploads.
func (r *uploadLogRepository) MarkRetrying(ctx context.Context, id int64) error {
	query := `
		UPDATE upload_logs
		SET status = $1,
			attempt_count = attempt_count + 1,
			updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, models.UploadStatusRetrying, time.Now(), id, models.UploadStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		return sql.ErrNoRows
	}
	return nil
}
