// Package discord contains the small amount of Discord-specific logic the
// dashboard needs: snowflake validation, permission bitmask evaluation, and
// a thin REST client for the two user endpoints used during sign-in.
package discord

import "strconv"

// Discord permission bits relevant to the dashboard. Discord encodes granted
// capabilities as a 64-bit integer transported as a decimal string.
const (
	PermAdministrator uint64 = 1 << 3
	PermManageGuild   uint64 = 1 << 5
)

// ParsePermissions parses a string-encoded permission bitmask. The value may
// exceed the 53-bit float-safe range, so it is parsed as a full uint64.
// An empty or malformed string reports ok=false rather than an error;
// callers treat that as "no permissions".
func ParsePermissions(s string) (perms uint64, ok bool) {
	if s == "" {
		return 0, false
	}
	perms, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return perms, true
}

// HasAdministrator reports whether the bitmask string carries ADMINISTRATOR.
func HasAdministrator(permissions string) bool {
	perms, ok := ParsePermissions(permissions)
	return ok && perms&PermAdministrator != 0
}

// HasManageGuild reports whether the bitmask string carries MANAGE_GUILD.
func HasManageGuild(permissions string) bool {
	perms, ok := ParsePermissions(permissions)
	return ok && perms&PermManageGuild != 0
}

// CanManageSettings reports whether the bitmask string grants guild-settings
// management rights: ADMINISTRATOR or MANAGE_GUILD. Malformed input never
// panics and never grants access.
func CanManageSettings(permissions string) bool {
	perms, ok := ParsePermissions(permissions)
	return ok && perms&(PermAdministrator|PermManageGuild) != 0
}
