package publisher

import (
	"strings"

	"github.com/postloom/postloom/internal/models"
)

// ResolveAccount picks the connected account for a platform entry by
// case-insensitive platform name. When a client has several accounts on the
// same platform the earliest-connected one wins, so dispatch is
// deterministic. Returns nil when nothing matches.
func ResolveAccount(accounts []*models.SocialAccount, platform string) *models.SocialAccount {
	var match *models.SocialAccount
	for _, acc := range accounts {
		if !strings.EqualFold(acc.Platform, platform) {
			continue
		}
		if match == nil || acc.CreatedAt.Before(match.CreatedAt) {
			match = acc
		}
	}
	return match
}
