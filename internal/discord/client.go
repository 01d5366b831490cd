// Package discord – REST client.
//
// The dashboard only calls two Discord API endpoints, both during the OAuth
// callback: GET /users/@me for the signing-in profile and
// GET /users/@me/guilds for the guild/membership sync. The client is
// deliberately minimal: bearer-token requests, JSON decoding, context-aware.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIBase is the versioned Discord REST API root.
const DefaultAPIBase = "https://discord.com/api/v10"

// APIUser is the subset of the Discord user object the dashboard persists.
type APIUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
	Email      string `json:"email"`
}

// APIGuild is the subset of the partial guild object returned by
// /users/@me/guilds. Permissions is the member's computed bitmask for the
// requesting user, string-encoded by Discord.
type APIGuild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// Client performs authenticated requests against the Discord REST API.
// The zero value is not usable; construct with NewClient.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client rooted at base (DefaultAPIBase when empty).
func NewClient(base string) *Client {
	if base == "" {
		base = DefaultAPIBase
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Me fetches the profile of the user the bearer token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*APIUser, error) {
	var u APIUser
	if err := c.get(ctx, "/users/@me", token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// MyGuilds fetches the partial guild list for the bearer token's user.
func (c *Client) MyGuilds(ctx context.Context, token string) ([]APIGuild, error) {
	var gs []APIGuild
	if err := c.get(ctx, "/users/@me/guilds", token, &gs); err != nil {
		return nil, err
	}
	return gs, nil
}

// get performs a bearer-authenticated GET and decodes the JSON body into out.
// Non-2xx responses become errors carrying the status code; bodies of failed
// responses are drained but not surfaced to callers.
func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("discord: %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
