// Package services – SettingsService
//
// Implements the guard chain for per-guild settings: resolve the identity's
// Discord link, confirm guild membership, and (for writes) evaluate the
// member's permission bitmask before touching the store. Each guard failure
// is one of the sentinel errors in errors.go so handlers map it directly to
// a status code.
//
// Guild id syntax and field-range validation happen at the HTTP boundary;
// this service assumes both already passed.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/discord"
	"github.com/soulwax/isobel-web/internal/domain"
	"github.com/soulwax/isobel-web/internal/repo"
)

// SettingsService reads and writes per-guild playback settings on behalf of
// an authenticated identity.
type SettingsService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// membership resolves the identity's Discord link and its membership row
// for guildID. Both misses are expected guard outcomes, not failures.
func (s *SettingsService) membership(ctx context.Context, userID, guildID string) (*domain.GuildMember, error) {
	du, err := repo.GetDiscordUserByUserID(ctx, s.DB, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoDiscordLink
	}
	if err != nil {
		return nil, err
	}

	m, err := repo.FindMembership(ctx, s.DB, guildID, du.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotGuildMember
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the settings for guildID, creating the default row on first
// access. The caller must be a member of the guild; reading does not
// require management permission.
func (s *SettingsService) Get(ctx context.Context, userID, guildID string) (*domain.Setting, error) {
	if _, err := s.membership(ctx, userID, guildID); err != nil {
		return nil, err
	}

	setting, err := repo.GetOrCreateSettings(ctx, s.DB, guildID)
	if errors.Is(err, repo.ErrNotFound) {
		// Creation path ran but the row is still missing.
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// Update applies the already-validated partial column updates to guildID's
// settings and returns the full post-update row. The caller must be a
// member whose bitmask carries ADMINISTRATOR or MANAGE_GUILD.
func (s *SettingsService) Update(ctx context.Context, userID, guildID string, updates map[string]any) (*domain.Setting, error) {
	m, err := s.membership(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if !discord.CanManageSettings(m.Permissions) {
		return nil, ErrInsufficientPermission
	}

	setting, err := repo.UpdateSettings(ctx, s.DB, guildID, updates)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}
