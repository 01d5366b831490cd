// Package repo – guild and membership persistence.
//
// Guild and GuildMember rows are bulk-upserted from the guild list Discord
// returns during sign-in, and read back by the guild list and settings
// endpoints. Membership lookup is read-only; NotFound is an expected
// outcome (user simply not in the guild), not an error to escalate.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soulwax/isobel-web/internal/domain"
)

// GuildListEntry is the projection returned to the guild list endpoint:
// the guild identity plus the member's permission bitmask within it.
type GuildListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Permissions string `json:"permissions"`
}

// UpsertGuilds inserts or refreshes guild rows in one statement. Conflicting
// rows (same snowflake) get their name, icon, and permissions updated.
// A nil or empty slice is a no-op.
func UpsertGuilds(ctx context.Context, db *gorm.DB, guilds []domain.Guild) error {
	if len(guilds) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range guilds {
		guilds[i].UpdatedAt = now
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "owner_id", "owner", "permissions", "updated_at"}),
		}).
		Create(&guilds).Error
}

// UpsertMembers inserts or refreshes membership rows in one statement,
// keyed by the composite (guild_id, user_id). Conflicts update the
// permission bitmask only.
func UpsertMembers(ctx context.Context, db *gorm.DB, members []domain.GuildMember) error {
	if len(members) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range members {
		members[i].UpdatedAt = now
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
		}).
		Create(&members).Error
}

// SyncGuildsForUser upserts the guilds and the membership rows for one
// Discord user in a single transaction, so a half-applied sign-in sync can
// not leave memberships pointing at missing guilds.
func SyncGuildsForUser(ctx context.Context, db *gorm.DB, guilds []domain.Guild, members []domain.GuildMember) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := UpsertGuilds(ctx, tx, guilds); err != nil {
			return err
		}
		return UpsertMembers(ctx, tx, members)
	})
}

// ListGuildsForDiscordUser joins memberships to guilds for one Discord user
// and returns the dashboard projection, ordered by guild name for a stable
// response. An empty slice (not nil) is returned when there are no rows.
func ListGuildsForDiscordUser(ctx context.Context, db *gorm.DB, discordUserID string) ([]GuildListEntry, error) {
	out := []GuildListEntry{}
	err := db.WithContext(ctx).
		Model(&domain.GuildMember{}).
		Select("guilds.id AS id, guilds.name AS name, guilds.icon AS icon, guild_members.permissions AS permissions").
		Joins("INNER JOIN guilds ON guilds.id = guild_members.guild_id").
		Where("guild_members.user_id = ?", discordUserID).
		Order("guilds.name asc").
		Scan(&out).Error
	return out, err
}

// FindMembership fetches the composite membership row for (guildID,
// discordUserID). Returns ErrNotFound when the user is not a member.
// Read-only; never mutates state.
func FindMembership(ctx context.Context, db *gorm.DB, guildID, discordUserID string) (*domain.GuildMember, error) {
	var m domain.GuildMember
	err := db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, discordUserID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
