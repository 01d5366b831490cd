// Package services – GuildService
//
// Lists the guilds the authenticated identity shares with the bot by joining
// membership rows to guild rows. An identity without a linked Discord
// account gets an empty list, not an error: the dashboard renders the same
// "no servers" state either way.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/repo"
)

// GuildService provides read access to the guilds an identity belongs to.
type GuildService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// List returns the guild projection for the identity's linked Discord user,
// ordered by guild name. Identities with no Discord link (or no
// memberships) get an empty, non-nil slice.
func (s *GuildService) List(ctx context.Context, userID string) ([]repo.GuildListEntry, error) {
	du, err := repo.GetDiscordUserByUserID(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return []repo.GuildListEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return repo.ListGuildsForDiscordUser(ctx, s.DB, du.ID)
}
