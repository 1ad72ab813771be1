package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/postloom/postloom/internal/models"
)

func TestMarkRetrying(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUploadLogRepository(db)

	t.Run("failed log transitions to retrying", func(t *testing.T) {
		mock.ExpectExec("UPDATE upload_logs").
			WithArgs(models.UploadStatusRetrying, sqlmock.AnyArg(), int64(9), models.UploadStatusFailed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.MarkRetrying(context.Background(), 9); err != nil {
			t.Fatalf("MarkRetrying: %v", err)
		}
	})

	t.Run("non-failed log is rejected", func(t *testing.T) {
		mock.ExpectExec("UPDATE upload_logs").
			WithArgs(models.UploadStatusRetrying, sqlmock.AnyArg(), int64(9), models.UploadStatusFailed).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkRetrying(context.Background(), 9)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("err = %v, want sql.ErrNoRows", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUploadLog(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUploadLogRepository(db)

	mock.ExpectQuery("INSERT INTO upload_logs").
		WithArgs(int64(1), models.PlatformLinkedin, int64(100), models.UploadStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := repo.Create(context.Background(), &models.UploadLog{
		PostID:    1,
		Platform:  models.PlatformLinkedin,
		AccountID: 100,
		Status:    models.UploadStatusPending,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 5 {
		t.Errorf("id = %d, want 5", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
