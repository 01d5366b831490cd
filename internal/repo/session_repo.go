// Package repo – session persistence.
//
// Sessions are opaque tokens stored server-side; the cookie only carries the
// token. Lookups ignore expired rows, and sign-out deletes the row rather
// than flagging it.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/domain"
)

// CreateSession inserts a fresh session for userID with the given lifetime
// and returns it. The token is a random UUID.
func CreateSession(ctx context.Context, db *gorm.DB, userID string, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession returns the non-expired session for token, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, token string, now time.Time) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var s domain.Session
	err := db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes the session row for token. Deleting a token that
// does not exist is not an error.
func DeleteSession(ctx context.Context, db *gorm.DB, token string) error {
	return db.WithContext(ctx).
		Delete(&domain.Session{}, "token = ?", token).Error
}

// DeleteExpiredSessions removes every session that expired before now and
// reports how many rows went away. Called opportunistically at startup.
func DeleteExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Delete(&domain.Session{}, "expires_at <= ?", now)
	return res.RowsAffected, res.Error
}
