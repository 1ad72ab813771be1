package publisher

import (
	"testing"
	"time"

	"github.com/postloom/postloom/internal/models"
)

func TestResolveAccount(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	accounts := []*models.SocialAccount{
		{ID: 1, Platform: "linkedin", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Platform: "LinkedIn", CreatedAt: base},
		{ID: 3, Platform: "facebook", CreatedAt: base.Add(time.Hour)},
	}

	t.Run("earliest connected wins", func(t *testing.T) {
		got := ResolveAccount(accounts, "linkedin")
		if got == nil || got.ID != 2 {
			t.Fatalf("expected account 2, got %+v", got)
		}
	})

	t.Run("platform match is case-insensitive", func(t *testing.T) {
		got := ResolveAccount(accounts, "FACEBOOK")
		if got == nil || got.ID != 3 {
			t.Fatalf("expected account 3, got %+v", got)
		}
	})

	t.Run("no match returns nil", func(t *testing.T) {
		if got := ResolveAccount(accounts, "instagram"); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("empty account list returns nil", func(t *testing.T) {
		if got := ResolveAccount(nil, "linkedin"); got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}
