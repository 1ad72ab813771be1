package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postloom/postloom/internal/models"
)

type PlatformEntryRepository interface {
	Create(ctx context.Context, tx *sql.Tx, pe *models.PlatformEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PlatformEntry, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PlatformEntry, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time, url string) error
	UpdateStatus(ctx context.Context, status string, id int64) error
}

type platformEntryRepository struct {
	db *sql.DB
}

func NewPlatformEntryRepository(db *sql.DB) PlatformEntryRepository {
	return &platformEntryRepository{db: db}
}

func (r *platformEntryRepository) Create(ctx context.Context, tx *sql.Tx, pe *models.PlatformEntry) (int64, error) {
	query := `
		INSERT INTO post_platforms (post_id, platform, page_id, status, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, pe.PostID, pe.Platform, pe.PageID, pe.Status, pe.DisplayOrder).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, pe.PostID, pe.Platform, pe.PageID, pe.Status, pe.DisplayOrder).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *platformEntryRepository) GetByID(ctx context.Context, id int64) (*models.PlatformEntry, error) {
	query := `SELECT id, post_id, platform, page_id, status, published_at, url, display_order
		FROM post_platforms WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var pe models.PlatformEntry
	err := row.Scan(&pe.ID, &pe.PostID, &pe.Platform, &pe.PageID, &pe.Status, &pe.PublishedAt, &pe.URL, &pe.DisplayOrder)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &pe, nil
}

// ListByPostID returns a post's platform entries in declaration order.
func (r *platformEntryRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PlatformEntry, error) {
	query := `SELECT id, post_id, platform, page_id, status, published_at, url, display_order
		FROM post_platforms
		WHERE post_id = $1
		ORDER BY display_order`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.PlatformEntry
	for rows.Next() {
		var pe models.PlatformEntry
		err := rows.Scan(&pe.ID, &pe.PostID, &pe.Platform, &pe.PageID, &pe.Status, &pe.PublishedAt, &pe.URL, &pe.DisplayOrder)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &pe)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return entries, nil
}

func (r *platformEntryRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time, url string) error {
	query := `
		UPDATE post_platforms
		SET status = $1,
			published_at = $2,
			url = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.EntryStatusPublished, publishedAt, url, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *platformEntryRepository) UpdateStatus(ctx context.Context, status string, id int64) error {
	query := `UPDATE post_platforms SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
