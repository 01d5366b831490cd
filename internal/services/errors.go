// Package services defines the business logic for guild listings, guild
// settings, and the bot health proxy. This file centralizes the closed set
// of service-level error values so callers can match them with errors.Is
// and map each one to exactly one HTTP status at the handler boundary.
//
// Guard failures below are expected control flow, not exceptions: only
// genuinely unexpected failures (datastore unreachable, upstream throwing)
// propagate as raw errors to the generic 500 handler.
package services

import "errors"

var (
	// ErrNoDiscordLink indicates the authenticated identity has no Discord
	// account linked yet (sign-in linkage incomplete). Maps to 403.
	ErrNoDiscordLink = errors.New("no linked discord account")

	// ErrNotGuildMember indicates the identity is not a recorded member of
	// the requested guild. A normal outcome, mapped to 403, never 500.
	ErrNotGuildMember = errors.New("you are not a member of this server")

	// ErrInsufficientPermission indicates the member's bitmask carries
	// neither ADMINISTRATOR nor MANAGE_GUILD. Maps to 403.
	ErrInsufficientPermission = errors.New("you do not have permission to modify settings")

	// ErrSettingsNotFound indicates the settings row was still absent after
	// the expected creation path. Maps to 404.
	ErrSettingsNotFound = errors.New("failed to retrieve guild settings")

	// ErrBotUnreachable indicates the bot health server could not be
	// reached within the configured timeout. Maps to 503.
	ErrBotUnreachable = errors.New("unable to connect to bot health server")
)
