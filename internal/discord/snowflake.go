package discord

import "regexp"

// snowflakeRE matches Discord snowflake ids: 17 to 19 decimal digits.
var snowflakeRE = regexp.MustCompile(`^\d{17,19}$`)

// ValidSnowflake reports whether id is a syntactically plausible Discord id.
func ValidSnowflake(id string) bool {
	return snowflakeRE.MatchString(id)
}

// ValidGuildID reports whether guildID is a plausible guild snowflake.
// Endpoints reject anything else with 400 before touching the datastore.
func ValidGuildID(guildID string) bool {
	return ValidSnowflake(guildID)
}
