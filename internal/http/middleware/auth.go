// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides session authentication: RequireSession resolves the
// session cookie through the identity subsystem and either stashes the
// resolved identity in the Gin context or aborts with 401. Guard failures
// are expected control flow; only resolver infrastructure errors become a
// 500.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/auth"
)

// Context keys populated by RequireSession.
const (
	// ctxKeyUserID holds the internal identity id of the session owner.
	ctxKeyUserID = "userID"
	// ctxKeyIdentity holds the full *auth.Identity.
	ctxKeyIdentity = "identity"
)

// SessionResolver is the narrow contract RequireSession needs from the
// identity subsystem: credentials in, logical session (or ErrNoSession) out.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Identity, error)
}

// IdentityFrom returns the resolved identity stored by RequireSession.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(ctxKeyIdentity)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*auth.Identity)
	return ident, ok
}

// UserIDFrom returns the authenticated user id stored by RequireSession.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireSession returns middleware that authenticates the request via the
// session cookie named cookieName. Requests without a live session are
// aborted with 401 and the standard error body.
func RequireSession(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)

		ident, err := resolver.Resolve(c.Request.Context(), token)
		if errors.Is(err, auth.ErrNoSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err != nil {
			LoggerFrom(c).Error().Err(err).Msg("session resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ctxKeyUserID, ident.UserID)
		c.Set(ctxKeyIdentity, ident)
		c.Next()
	}
}
