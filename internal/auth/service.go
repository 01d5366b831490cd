// Package auth – the OAuth flow itself.
//
// Routes handled (paths relative to the /api/auth mount):
//
//	GET  /signin   → 302 to Discord's authorization page, state cookie set
//	GET  /callback → code exchange, profile + guild sync, session issued
//	GET  /session  → JSON of the current session, or null
//	POST /signout  → session row deleted, cookie cleared
//
// The token exchange delegates to golang.org/x/oauth2; this package never
// touches the token endpoint wire format. Guild sync failures do not block
// sign-in: the user still gets a session, the guild list is just stale.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/discord"
	"github.com/soulwax/isobel-web/internal/domain"
	"github.com/soulwax/isobel-web/internal/repo"
)

// providerName is the Account.Provider value for Discord sign-ins.
const providerName = "discord"

// stateCookie is the short-lived cookie pairing a browser with its pending
// authorization redirect.
const stateCookie = "isobel_oauth_state"

// oauthScopes are the Discord scopes the dashboard needs: who the user is
// and which guilds they belong to.
var oauthScopes = []string{"identify", "guilds"}

// discordEndpoint is Discord's OAuth2 endpoint pair.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// exchangeCode is a test seam over the oauth2 code exchange.
var exchangeCode = func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	return cfg.Exchange(ctx, code)
}

// Options configures the identity subsystem.
type Options struct {
	ClientID     string
	ClientSecret string
	PublicURL    string        // external base URL; callback is PublicURL + BasePath + "/callback"
	BasePath     string        // mount point, e.g. "/api/auth"
	CookieName   string        // session cookie name
	SessionTTL   time.Duration // session row lifetime
	StateSecret  []byte        // HMAC key for the OAuth state JWT
	APIBase      string        // Discord REST base override (tests)
}

// Service is the identity subsystem behind the transport-neutral contract.
type Service struct {
	opts    Options
	db      *gorm.DB
	oauth   *oauth2.Config
	client  *discord.Client
	secure  bool
	resolve *Resolver
}

// NewService wires the subsystem. The session cookie is marked Secure when
// the public URL is https.
func NewService(db *gorm.DB, opts Options) *Service {
	if opts.BasePath == "" {
		opts.BasePath = "/api/auth"
	}
	return &Service{
		opts: opts,
		db:   db,
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Endpoint:     discordEndpoint,
			RedirectURL:  opts.PublicURL + opts.BasePath + "/callback",
			Scopes:       oauthScopes,
		},
		client:  discord.NewClient(opts.APIBase),
		secure:  strings.HasPrefix(opts.PublicURL, "https://"),
		resolve: &Resolver{DB: db},
	}
}

// Resolver exposes the session resolver backed by the same database.
func (s *Service) Resolver() *Resolver { return s.resolve }

// Handle dispatches one auth request. It never returns an error: internal
// failures are logged and surfaced as a generic 500 JSON body.
func (s *Service) Handle(ctx context.Context, req *Request) *Response {
	switch {
	case req.Method == http.MethodGet && req.Path == "/signin":
		return s.signin()
	case req.Method == http.MethodGet && req.Path == "/callback":
		return s.callback(ctx, req)
	case req.Method == http.MethodGet && req.Path == "/session":
		return s.session(ctx, req)
	case req.Method == http.MethodPost && req.Path == "/signout":
		return s.signout(ctx, req)
	default:
		return newResponse(http.StatusNotFound).withJSON([]byte(`{"error":"not found"}`))
	}
}

// signin starts the flow: mint a state pair and redirect to Discord.
func (s *Service) signin() *Response {
	nonce, token, err := newState(s.opts.StateSecret, time.Now().UTC())
	if err != nil {
		return s.internalError(err, "mint oauth state")
	}

	resp := newResponse(http.StatusFound).
		withRedirect(s.oauth.AuthCodeURL(token))
	resp.Cookies = append(resp.Cookies, &http.Cookie{
		Name:     stateCookie,
		Value:    nonce,
		Path:     s.opts.BasePath,
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return resp
}

// callback finishes the flow: validate state, exchange the code, persist
// identity and guild data, and issue the session cookie.
func (s *Service) callback(ctx context.Context, req *Request) *Response {
	code := req.Query.Get("code")
	state := req.Query.Get("state")
	if code == "" || state == "" {
		return newResponse(http.StatusBadRequest).withJSON([]byte(`{"error":"missing code or state"}`))
	}

	nonce, err := verifyState(s.opts.StateSecret, state)
	if err != nil {
		return newResponse(http.StatusBadRequest).withJSON([]byte(`{"error":"invalid oauth state"}`))
	}
	if got, ok := req.Cookie(stateCookie); !ok || got != nonce {
		return newResponse(http.StatusBadRequest).withJSON([]byte(`{"error":"invalid oauth state"}`))
	}

	tok, err := exchangeCode(ctx, s.oauth, code)
	if err != nil {
		log.Error().Err(err).Msg("oauth code exchange failed")
		return newResponse(http.StatusBadGateway).withJSON([]byte(`{"error":"authorization failed"}`))
	}

	profile, err := s.client.Me(ctx, tok.AccessToken)
	if err != nil {
		return s.internalError(err, "fetch discord profile")
	}

	user, err := repo.EnsureUser(ctx, s.db, providerName, profile.ID,
		displayName(profile), profile.Email, avatarURL(profile))
	if err != nil {
		return s.internalError(err, "persist identity")
	}
	if err := repo.UpdateAccountTokens(ctx, s.db, providerName, profile.ID,
		tok.AccessToken, tok.RefreshToken, strings.Join(oauthScopes, " "), tok.Expiry.Unix()); err != nil {
		return s.internalError(err, "persist tokens")
	}
	if err := repo.UpsertDiscordUser(ctx, s.db, &domain.DiscordUser{
		ID:         profile.ID,
		UserID:     user.ID,
		Username:   profile.Username,
		GlobalName: profile.GlobalName,
		Avatar:     profile.Avatar,
	}); err != nil {
		return s.internalError(err, "persist discord profile")
	}

	// Guild sync is best effort. A Discord hiccup here must not block the
	// sign-in itself.
	if err := s.syncGuilds(ctx, profile.ID, tok.AccessToken); err != nil {
		log.Error().Err(err).Str("discord_id", profile.ID).Msg("guild sync failed")
	}

	sess, err := repo.CreateSession(ctx, s.db, user.ID, s.opts.SessionTTL)
	if err != nil {
		return s.internalError(err, "create session")
	}

	resp := newResponse(http.StatusFound).withRedirect(s.opts.PublicURL + "/")
	resp.Cookies = append(resp.Cookies,
		s.sessionCookie(sess.Token, int(s.opts.SessionTTL.Seconds())),
		// One-shot state cookie is done.
		&http.Cookie{Name: stateCookie, Value: "", Path: s.opts.BasePath, MaxAge: -1, HttpOnly: true},
	)
	return resp
}

// syncGuilds bulk-upserts the guilds and membership rows Discord reports
// for the signing-in user.
func (s *Service) syncGuilds(ctx context.Context, discordUserID, accessToken string) error {
	apiGuilds, err := s.client.MyGuilds(ctx, accessToken)
	if err != nil {
		return err
	}

	guilds := make([]domain.Guild, 0, len(apiGuilds))
	members := make([]domain.GuildMember, 0, len(apiGuilds))
	for _, g := range apiGuilds {
		guilds = append(guilds, domain.Guild{
			ID:          g.ID,
			Name:        g.Name,
			Icon:        g.Icon,
			Owner:       g.Owner,
			Permissions: g.Permissions,
		})
		members = append(members, domain.GuildMember{
			GuildID:     g.ID,
			UserID:      discordUserID,
			Permissions: g.Permissions,
		})
	}
	return repo.SyncGuildsForUser(ctx, s.db, guilds, members)
}

// session reports the current session as JSON, or the literal null when the
// request carries no usable credentials. A session whose user id cannot be
// resolved is null too.
func (s *Service) session(ctx context.Context, req *Request) *Response {
	token, _ := req.Cookie(s.opts.CookieName)
	ident, err := s.resolve.Resolve(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return newResponse(http.StatusOK).withJSON([]byte(`null`))
	}
	if err != nil {
		return s.internalError(err, "resolve session")
	}

	body, err := json.Marshal(map[string]any{
		"user": map[string]any{
			"id":        ident.UserID,
			"name":      ident.Name,
			"image":     ident.Image,
			"discordId": ident.DiscordID,
		},
		"expires": ident.Expires.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return s.internalError(err, "encode session")
	}
	return newResponse(http.StatusOK).withJSON(body)
}

// signout deletes the session row (if any) and clears the cookie.
func (s *Service) signout(ctx context.Context, req *Request) *Response {
	if token, ok := req.Cookie(s.opts.CookieName); ok && token != "" {
		if err := repo.DeleteSession(ctx, s.db, token); err != nil {
			return s.internalError(err, "delete session")
		}
	}
	resp := newResponse(http.StatusOK).withJSON([]byte(`{"ok":true}`))
	resp.Cookies = append(resp.Cookies, s.sessionCookie("", -1))
	return resp
}

// sessionCookie builds the session cookie with the subsystem's fixed
// attributes. maxAge -1 clears it.
func (s *Service) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// internalError logs err with context and returns the generic 500 body.
// The message is never echoed to the caller.
func (s *Service) internalError(err error, msg string) *Response {
	log.Error().Err(err).Msg(msg)
	return newResponse(http.StatusInternalServerError).withJSON([]byte(`{"error":"Internal server error"}`))
}

// displayName prefers the new global display name over the login username.
func displayName(u *discord.APIUser) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// avatarURL renders the CDN URL for a user avatar hash, empty when unset.
func avatarURL(u *discord.APIUser) string {
	if u.Avatar == "" {
		return ""
	}
	return "https://cdn.discordapp.com/avatars/" + u.ID + "/" + u.Avatar + ".png"
}
