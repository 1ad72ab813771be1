package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
	"github.com/postloom/postloom/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	ps service.PlatformService
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, ps service.PlatformService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		ps: ps,
	}
}

// RefreshTokens rotates tokens for accounts expiring within the next half
// hour, a few at a time.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListByTimeInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			var err error
			switch acc.Platform {
			case models.PlatformLinkedin:
				err = c.ps.RefreshLinkedinToken(ctx, acc)
			case models.PlatformFacebook:
				err = c.ps.RefreshFacebookToken(ctx, acc)
			}
			if err != nil {
				slog.Info("Unable to refresh tokens",
					"platform", acc.Platform,
					"account_id", acc.ID)
			}
		}(acc)
	}

	wg.Wait()
}
