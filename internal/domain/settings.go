// Package domain – per-guild bot settings.
//
// This file defines the Setting model (one row per guild, primary key =
// guild id) and the documented default values applied when a row is created
// lazily on first read or write. Absence of a row means "use defaults".
package domain

import (
	"time"
)

// Default values for a freshly created Setting row. They mirror the bot's
// own schema so a guild without a dashboard visit behaves identically.
const (
	DefaultPlaylistLimit                  = 50
	DefaultSecondsToWaitAfterQueueEmpties = 30
	DefaultLeaveIfNoListeners             = true
	DefaultQueueAddResponseEphemeral      = false
	DefaultAutoAnnounceNextSong           = false
	DefaultVolume                         = 100
	DefaultQueuePageSize                  = 10
	DefaultTurnDownVolumeWhenPeopleSpeak  = false
	DefaultTurnDownVolumeTarget           = 20
)

// Setting is the per-guild playback configuration edited through the
// dashboard. Exactly zero or one row exists per guild; the row is
// cascade-deleted with its parent Guild.
//
// Field ranges are enforced at the HTTP boundary before persistence:
//   - PlaylistLimit: 1–200
//   - SecondsToWaitAfterQueueEmpties: 0–300
//   - DefaultVolume: 0–100
//   - DefaultQueuePageSize: 1–30
//   - TurnDownVolumeWhenPeopleSpeakTarget: 0–100
type Setting struct {
	GuildID                             string    `json:"guildId"                             gorm:"type:varchar(20);primaryKey"`
	PlaylistLimit                       int       `json:"playlistLimit"                       gorm:"not null;default:50"`
	SecondsToWaitAfterQueueEmpties      int       `json:"secondsToWaitAfterQueueEmpties"      gorm:"not null;default:30"`
	LeaveIfNoListeners                  bool      `json:"leaveIfNoListeners"                  gorm:"not null;default:true"`
	QueueAddResponseEphemeral           bool      `json:"queueAddResponseEphemeral"           gorm:"not null;default:false"`
	AutoAnnounceNextSong                bool      `json:"autoAnnounceNextSong"                gorm:"not null;default:false"`
	DefaultVolume                       int       `json:"defaultVolume"                       gorm:"not null;default:100"`
	DefaultQueuePageSize                int       `json:"defaultQueuePageSize"                gorm:"not null;default:10"`
	TurnDownVolumeWhenPeopleSpeak       bool      `json:"turnDownVolumeWhenPeopleSpeak"       gorm:"not null;default:false"`
	TurnDownVolumeWhenPeopleSpeakTarget int       `json:"turnDownVolumeWhenPeopleSpeakTarget" gorm:"not null;default:20"`
	CreatedAt                           time.Time `json:"createdAt"`
	UpdatedAt                           time.Time `json:"updatedAt"`

	Guild Guild `json:"-" gorm:"foreignKey:GuildID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string { return "settings" }

// NewDefaultSetting returns a Setting carrying the documented defaults for
// guildID. CreatedAt/UpdatedAt are left for GORM to populate.
func NewDefaultSetting(guildID string) *Setting {
	return &Setting{
		GuildID:                             guildID,
		PlaylistLimit:                       DefaultPlaylistLimit,
		SecondsToWaitAfterQueueEmpties:      DefaultSecondsToWaitAfterQueueEmpties,
		LeaveIfNoListeners:                  DefaultLeaveIfNoListeners,
		QueueAddResponseEphemeral:           DefaultQueueAddResponseEphemeral,
		AutoAnnounceNextSong:                DefaultAutoAnnounceNextSong,
		DefaultVolume:                       DefaultVolume,
		DefaultQueuePageSize:                DefaultQueuePageSize,
		TurnDownVolumeWhenPeopleSpeak:       DefaultTurnDownVolumeWhenPeopleSpeak,
		TurnDownVolumeWhenPeopleSpeakTarget: DefaultTurnDownVolumeTarget,
	}
}
