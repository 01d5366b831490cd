// Package repo – per-guild settings persistence.
//
// The settings row is created lazily: the first read (or write) for a guild
// inserts the documented defaults. Concurrent first-access callers are
// resolved by the primary-key uniqueness constraint plus an
// insert-or-do-nothing, not by application-level locking, so exactly one
// row ever exists per guild.
//
// Field-range validation happens at the HTTP boundary before this file is
// reached; the store only enforces storage-level constraints.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soulwax/isobel-web/internal/domain"
)

// GetOrCreateSettings returns the settings row for guildID, inserting one
// with default values first when none exists. The insert tolerates losing a
// race against a concurrent creator: OnConflict DoNothing swallows the
// duplicate and the follow-up read returns whichever row won.
func GetOrCreateSettings(ctx context.Context, db *gorm.DB, guildID string) (*domain.Setting, error) {
	def := domain.NewDefaultSetting(guildID)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			DoNothing: true,
		}).
		Create(def).Error; err != nil {
		return nil, err
	}

	var s domain.Setting
	if err := db.WithContext(ctx).First(&s, "guild_id = ?", guildID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings upserts the row for guildID (default row first if absent),
// applies only the columns present in updates, refreshes updated_at, and
// returns the full post-update row.
//
// Two concurrent writers to the same guild race at row granularity;
// last write wins. That is the documented behavior, not an oversight.
func UpdateSettings(ctx context.Context, db *gorm.DB, guildID string, updates map[string]any) (*domain.Setting, error) {
	if _, err := GetOrCreateSettings(ctx, db, guildID); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		patch := make(map[string]any, len(updates)+1)
		for k, v := range updates {
			patch[k] = v
		}
		patch["updated_at"] = time.Now().UTC()

		if err := db.WithContext(ctx).
			Model(&domain.Setting{}).
			Where("guild_id = ?", guildID).
			Updates(patch).Error; err != nil {
			return nil, err
		}
	}

	var s domain.Setting
	if err := db.WithContext(ctx).First(&s, "guild_id = ?", guildID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
