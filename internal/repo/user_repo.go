// Package repo – identity persistence.
//
// This file provides repository functions for the User, Account, and
// DiscordUser models. Identities are created on first sign-in and refreshed
// (never deleted) on every subsequent sign-in; the Discord profile link is
// an upsert keyed by the Discord snowflake.
//
// Error semantics match the rest of the package: ErrNotFound for missing
// rows, raw GORM errors for everything else.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soulwax/isobel-web/internal/domain"
)

// EnsureUser finds the internal identity owning the given provider account,
// creating User and Account rows when this is the first sign-in. Profile
// fields (name, image, email) are refreshed either way.
func EnsureUser(ctx context.Context, db *gorm.DB, provider, providerAccountID, name, email, image string) (*domain.User, error) {
	var acc domain.Account
	err := db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&acc).Error

	switch {
	case err == nil:
		var u domain.User
		if err := db.WithContext(ctx).First(&u, "id = ?", acc.UserID).Error; err != nil {
			return nil, err
		}
		u.Name, u.Email, u.Image = name, email, image
		u.UpdatedAt = time.Now().UTC()
		if err := db.WithContext(ctx).Save(&u).Error; err != nil {
			return nil, err
		}
		return &u, nil

	case err == gorm.ErrRecordNotFound:
		u := &domain.User{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			Image:     image,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(u).Error; err != nil {
			return nil, err
		}
		a := &domain.Account{
			UserID:            u.ID,
			Provider:          provider,
			ProviderAccountID: providerAccountID,
		}
		if err := db.WithContext(ctx).Create(a).Error; err != nil {
			return nil, err
		}
		return u, nil

	default:
		return nil, err
	}
}

// UpdateAccountTokens stores the latest OAuth tokens for a provider account.
func UpdateAccountTokens(ctx context.Context, db *gorm.DB, provider, providerAccountID, accessToken, refreshToken, scope string, expiresAt int64) error {
	return db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		Updates(map[string]any{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"scope":         scope,
			"expires_at":    expiresAt,
			"updated_at":    time.Now().UTC(),
		}).Error
}

// UpsertDiscordUser inserts or refreshes the Discord profile linked to an
// internal identity. Conflicts on the snowflake primary key update the
// mutable profile columns only.
func UpsertDiscordUser(ctx context.Context, db *gorm.DB, du *domain.DiscordUser) error {
	du.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "global_name", "avatar", "updated_at"}),
		}).
		Create(du).Error
}

// GetDiscordUserByUserID resolves the Discord profile for an internal
// identity. ErrNotFound is a normal outcome: the sign-in linkage may not
// have completed yet.
func GetDiscordUserByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.DiscordUser, error) {
	var du domain.DiscordUser
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&du).Error
	if err != nil {
		return nil, err
	}
	return &du, nil
}
