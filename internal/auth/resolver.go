// Package auth – session resolution.
//
// The resolver is the narrow surface the HTTP middleware depends on: given
// the credentials a request carried (the session cookie value), produce the
// logical session or report that there is none. "None" covers a missing
// cookie, an unknown token, an expired row, and a session whose user row
// has gone away; callers translate all of them to 401.
package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/repo"
)

// ErrNoSession is returned when request credentials do not resolve to a
// live session. It is expected control flow, mapped to 401 by callers.
var ErrNoSession = errors.New("no session")

// Identity is the resolved principal of a request: the internal user id
// plus the linked Discord id when the sign-in linkage has completed.
type Identity struct {
	UserID    string
	Name      string
	Image     string
	DiscordID string
	Expires   time.Time
}

// Resolver resolves session tokens against the sessions table.
type Resolver struct {
	DB *gorm.DB
}

// Resolve looks up token and returns the identity it belongs to, or
// ErrNoSession. A session row pointing at a deleted user also resolves to
// ErrNoSession rather than an internal error.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	sess, err := repo.GetSession(ctx, r.DB, token, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if sess.UserID == "" {
		return nil, ErrNoSession
	}

	ident := &Identity{UserID: sess.UserID, Expires: sess.ExpiresAt}

	var user struct {
		Name  string
		Image string
	}
	if err := r.DB.WithContext(ctx).
		Table("users").
		Select("name, image").
		Where("id = ?", sess.UserID).
		Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	ident.Name, ident.Image = user.Name, user.Image

	if du, err := repo.GetDiscordUserByUserID(ctx, r.DB, sess.UserID); err == nil {
		ident.DiscordID = du.ID
	}
	return ident, nil
}
