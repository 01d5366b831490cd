// Package domain defines the persistence models for identities, Discord
// users, guilds, guild memberships, sessions, and per-guild bot settings.
// These types are mapped with GORM and form the core data layer of the
// dashboard backend.
package domain

import (
	"time"
)

// User is the internal identity created on first successful sign-in. It is
// the stable principal every session points at; the linked DiscordUser row
// carries the external (Discord) identity.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / Email / Image: profile fields refreshed on each sign-in.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        string    `json:"id"    gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"  gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Image     string    `json:"image" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Account links a User to an OAuth provider account. One row per
// (provider, providerAccountId) pair; refreshed on each sign-in.
type Account struct {
	UserID            string `json:"userId"            gorm:"type:char(36);not null;index"`
	Provider          string `json:"provider"          gorm:"type:varchar(32);not null;uniqueIndex:ux_provider_account,priority:1"`
	ProviderAccountID string `json:"providerAccountId" gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_account,priority:2"`
	AccessToken       string `json:"-"                 gorm:"type:text"`
	RefreshToken      string `json:"-"                 gorm:"type:text"`
	ExpiresAt         int64  `json:"expiresAt"`
	Scope             string `json:"scope"             gorm:"type:varchar(255)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// User is the owning identity. Accounts are cascade-deleted with it.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Account.
func (Account) TableName() string { return "accounts" }

// Session is a database-backed browser session. The opaque Token is what the
// session cookie carries; expired rows are ignored by lookups.
type Session struct {
	Token     string    `json:"-"       gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"userId"  gorm:"type:char(36);not null;index"`
	ExpiresAt time.Time `json:"expires" gorm:"not null"`
	CreatedAt time.Time `json:"-"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// DiscordUser stores the external Discord profile linked to a User. Exactly
// zero or one row per User; upserted on each sign-in.
//
// Fields:
//   - ID: the Discord user snowflake (17-19 digit decimal string).
//   - UserID: the internal identity this profile belongs to (unique).
//   - Username / GlobalName / Avatar: refreshed from /users/@me.
type DiscordUser struct {
	ID         string    `json:"id"         gorm:"type:varchar(20);primaryKey"`
	UserID     string    `json:"userId"     gorm:"type:char(36);not null;uniqueIndex"`
	Username   string    `json:"username"   gorm:"type:varchar(64);not null"`
	GlobalName string    `json:"globalName" gorm:"type:varchar(64)"`
	Avatar     string    `json:"avatar"     gorm:"type:varchar(64)"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DiscordUser.
func (DiscordUser) TableName() string { return "discord_users" }

// Guild is a Discord server known to the dashboard. Rows are bulk-upserted
// from the guilds fetch performed during sign-in.
//
// Permissions holds the raw bitmask Discord reported for the signing-in user
// (or owner), kept as a string because the value can exceed 53 bits.
type Guild struct {
	ID          string    `json:"id"          gorm:"type:varchar(20);primaryKey"`
	Name        string    `json:"name"        gorm:"type:varchar(128);not null"`
	Icon        string    `json:"icon"        gorm:"type:varchar(64)"`
	OwnerID     string    `json:"ownerId"     gorm:"type:varchar(20)"`
	Owner       bool      `json:"owner"       gorm:"not null;default:false"`
	Permissions string    `json:"permissions" gorm:"type:varchar(24)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Guild.
func (Guild) TableName() string { return "guilds" }

// GuildMember relates one DiscordUser to one Guild. Composite-keyed by
// (guildId, userId); carries the member's computed permission bitmask within
// that guild, again string-encoded.
type GuildMember struct {
	GuildID     string    `json:"guildId"     gorm:"type:varchar(20);primaryKey"`
	UserID      string    `json:"userId"      gorm:"type:varchar(20);primaryKey"`
	Permissions string    `json:"permissions" gorm:"type:varchar(24)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Membership rows are owned jointly by both lifecycles: removing either
	// the guild or the Discord user removes the row.
	Guild Guild       `json:"-" gorm:"foreignKey:GuildID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User  DiscordUser `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for GuildMember.
func (GuildMember) TableName() string { return "guild_members" }
