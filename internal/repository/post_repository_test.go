package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/postloom/postloom/internal/models"
)

func TestClaimForDispatch(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostRepository(db)
	now := time.Now()

	t.Run("scheduled and due post is claimed", func(t *testing.T) {
		mock.ExpectExec("UPDATE posts").
			WithArgs(models.PostStatusProcessing, now, int64(7), models.PostStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.ClaimForDispatch(context.Background(), 7, now)
		if err != nil {
			t.Fatalf("ClaimForDispatch: %v", err)
		}
		if !claimed {
			t.Error("expected claim to succeed")
		}
	})

	t.Run("already claimed post is not claimed again", func(t *testing.T) {
		mock.ExpectExec("UPDATE posts").
			WithArgs(models.PostStatusProcessing, now, int64(7), models.PostStatusScheduled).
			WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.ClaimForDispatch(context.Background(), 7, now)
		if err != nil {
			t.Fatalf("ClaimForDispatch: %v", err)
		}
		if claimed {
			t.Error("expected claim to fail for already-processing post")
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListDue(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostRepository(db)
	now := time.Now()
	scheduled := now.Add(-time.Minute)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "client_id", "caption", "title", "hashtags",
		"scheduled_time", "status", "published_at", "created_at", "updated_at",
	}).
		AddRow(int64(1), int64(2), int64(3), "first", "", "{golang}", scheduled, models.PostStatusScheduled, nil, now, now).
		AddRow(int64(4), int64(2), int64(3), "second", "", "{}", scheduled.Add(time.Second), models.PostStatusScheduled, nil, now, now)

	mock.ExpectQuery("SELECT (.+) FROM posts").
		WithArgs(models.PostStatusScheduled, now, 50).
		WillReturnRows(rows)

	posts, err := repo.ListDue(context.Background(), now, 50)
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	if posts[0].ID != 1 || posts[1].ID != 4 {
		t.Errorf("order = %d,%d, want oldest first", posts[0].ID, posts[1].ID)
	}
	if len(posts[0].Hashtags) != 1 || posts[0].Hashtags[0] != "golang" {
		t.Errorf("hashtags = %v", posts[0].Hashtags)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
