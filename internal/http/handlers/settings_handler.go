// Guild settings HTTP handlers.
//
// This file exposes REST endpoints for per-guild playback settings:
//   - GET  /api/guilds/{guildId}/settings  (read, creates defaults lazily)
//   - POST /api/guilds/{guildId}/settings  (partial update)
//
// Handlers are transport-thin: they validate the guild id and payload, call
// the settings service (which runs the membership/permission guard chain),
// and translate typed outcomes into HTTP responses. The body schema is
// strict: unknown fields reject the whole request rather than being
// silently dropped.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/discord"
	"github.com/soulwax/isobel-web/internal/domain"
	"github.com/soulwax/isobel-web/internal/http/middleware"
	"github.com/soulwax/isobel-web/internal/repo"
	"github.com/soulwax/isobel-web/internal/services"
)

//
// Service contracts (context-aware)
//

// SettingsService defines the settings operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type SettingsService interface {
	// Get returns (creating if absent) the settings for a guild the user
	// is a member of.
	Get(ctx context.Context, userID, guildID string) (*domain.Setting, error)
	// Update applies validated partial column updates for a user with
	// management permission and returns the full row.
	Update(ctx context.Context, userID, guildID string, updates map[string]any) (*domain.Setting, error)
}

// GuildService defines the guild listing operation consumed by handlers.
type GuildService interface {
	// List returns the guilds the user's linked Discord account is a
	// member of.
	List(ctx context.Context, userID string) ([]repo.GuildListEntry, error)
}

// BotHealthService defines the proxied bot health check.
type BotHealthService interface {
	// Check performs one bounded health request against the bot process.
	Check(ctx context.Context) (services.BotHealthResult, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for guilds, settings, and health.
type Handlers struct {
	guildSvc    GuildService
	settingsSvc SettingsService
	healthSvc   BotHealthService
}

// New constructs a Handlers instance bound to the given services.
func New(guildSvc GuildService, settingsSvc SettingsService, healthSvc BotHealthService) *Handlers {
	return &Handlers{guildSvc: guildSvc, settingsSvc: settingsSvc, healthSvc: healthSvc}
}

//
// DTOs
//

// SettingsUpdateRequest is the strict partial-update payload. Every field
// is optional; absent fields are left untouched. Unknown keys fail the
// whole request.
type SettingsUpdateRequest struct {
	PlaylistLimit                       *int  `json:"playlistLimit,omitempty"`
	SecondsToWaitAfterQueueEmpties      *int  `json:"secondsToWaitAfterQueueEmpties,omitempty"`
	LeaveIfNoListeners                  *bool `json:"leaveIfNoListeners,omitempty"`
	QueueAddResponseEphemeral           *bool `json:"queueAddResponseEphemeral,omitempty"`
	AutoAnnounceNextSong                *bool `json:"autoAnnounceNextSong,omitempty"`
	DefaultVolume                       *int  `json:"defaultVolume,omitempty"`
	DefaultQueuePageSize                *int  `json:"defaultQueuePageSize,omitempty"`
	TurnDownVolumeWhenPeopleSpeak       *bool `json:"turnDownVolumeWhenPeopleSpeak,omitempty"`
	TurnDownVolumeWhenPeopleSpeakTarget *int  `json:"turnDownVolumeWhenPeopleSpeakTarget,omitempty"`
}

// SettingsResponse wraps a settings row the way the dashboard expects it.
type SettingsResponse struct {
	Settings *domain.Setting `json:"settings"`
}

// GuildsResponse wraps the guild list.
type GuildsResponse struct {
	Guilds []repo.GuildListEntry `json:"guilds"`
}

// rangeCheck validates one bounded integer field when present.
func rangeCheck(errs []FieldError, name string, v *int, min, max int) []FieldError {
	if v != nil && (*v < min || *v > max) {
		errs = append(errs, FieldError{
			Field:   name,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		})
	}
	return errs
}

// Validate returns one FieldError per out-of-range field, empty when the
// payload is acceptable.
func (r *SettingsUpdateRequest) Validate() []FieldError {
	var errs []FieldError
	errs = rangeCheck(errs, "playlistLimit", r.PlaylistLimit, 1, 200)
	errs = rangeCheck(errs, "secondsToWaitAfterQueueEmpties", r.SecondsToWaitAfterQueueEmpties, 0, 300)
	errs = rangeCheck(errs, "defaultVolume", r.DefaultVolume, 0, 100)
	errs = rangeCheck(errs, "defaultQueuePageSize", r.DefaultQueuePageSize, 1, 30)
	errs = rangeCheck(errs, "turnDownVolumeWhenPeopleSpeakTarget", r.TurnDownVolumeWhenPeopleSpeakTarget, 0, 100)
	return errs
}

// Updates converts the present fields into the column map the settings
// store applies. Absent fields do not appear.
func (r *SettingsUpdateRequest) Updates() map[string]any {
	u := map[string]any{}
	if r.PlaylistLimit != nil {
		u["playlist_limit"] = *r.PlaylistLimit
	}
	if r.SecondsToWaitAfterQueueEmpties != nil {
		u["seconds_to_wait_after_queue_empties"] = *r.SecondsToWaitAfterQueueEmpties
	}
	if r.LeaveIfNoListeners != nil {
		u["leave_if_no_listeners"] = *r.LeaveIfNoListeners
	}
	if r.QueueAddResponseEphemeral != nil {
		u["queue_add_response_ephemeral"] = *r.QueueAddResponseEphemeral
	}
	if r.AutoAnnounceNextSong != nil {
		u["auto_announce_next_song"] = *r.AutoAnnounceNextSong
	}
	if r.DefaultVolume != nil {
		u["default_volume"] = *r.DefaultVolume
	}
	if r.DefaultQueuePageSize != nil {
		u["default_queue_page_size"] = *r.DefaultQueuePageSize
	}
	if r.TurnDownVolumeWhenPeopleSpeak != nil {
		u["turn_down_volume_when_people_speak"] = *r.TurnDownVolumeWhenPeopleSpeak
	}
	if r.TurnDownVolumeWhenPeopleSpeakTarget != nil {
		u["turn_down_volume_when_people_speak_target"] = *r.TurnDownVolumeWhenPeopleSpeakTarget
	}
	return u
}

//
// Helpers
//

// decodeStrict decodes body into dst rejecting unknown fields, and maps
// decoder failures to per-field validation errors where possible.
func decodeStrict(body []byte, dst any) []FieldError {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return []FieldError{decodeFieldError(err)}
	}
	// Trailing garbage after the JSON value is also a hard error.
	if dec.More() {
		return []FieldError{{Field: "body", Message: "unexpected trailing data"}}
	}
	return nil
}

// decodeFieldError turns a json decoder error into a FieldError, naming the
// offending field when the error carries one.
func decodeFieldError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldError{Field: typeErr.Field, Message: "invalid type: expected " + typeErr.Type.String()}
	}
	// encoding/json reports unknown keys as `json: unknown field "name"`.
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		name := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return FieldError{Field: name, Message: "unknown field"}
	}
	return FieldError{Field: "body", Message: "invalid JSON body"}
}

// mapServiceError translates service guard outcomes into responses. Only
// genuinely unexpected errors fall through to the generic 500.
func mapServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoDiscordLink):
		fail(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrNotGuildMember):
		fail(c, http.StatusForbidden, "You are not a member of this server")
	case errors.Is(err, services.ErrInsufficientPermission):
		fail(c, http.StatusForbidden, "You do not have permission to modify settings")
	case errors.Is(err, services.ErrSettingsNotFound):
		fail(c, http.StatusNotFound, services.ErrSettingsNotFound.Error())
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("settings request failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

//
// Handlers
//

// GetSettings godoc
// @ID          getGuildSettings
// @Summary     Get guild settings
// @Description Returns the guild's playback settings, creating the default row on first access.
// @Tags        Settings
// @Produce     json
//
// @Param       guildId  path  string  true  "Guild snowflake (17-19 digits)"
//
// @Success     200  {object}  handlers.SettingsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid guild ID"
// @Failure     401  {object}  handlers.ErrorResponse  "No session"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a member"
// @Failure     404  {object}  handlers.ErrorResponse  "Row missing after creation"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/guilds/{guildId}/settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	guildID := c.Param("guildId")
	if !discord.ValidGuildID(guildID) {
		fail(c, http.StatusBadRequest, "Invalid guild ID format")
		return
	}

	setting, err := h.settingsSvc.Get(c.Request.Context(), middleware.UserIDFrom(c), guildID)
	if err != nil {
		mapServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, SettingsResponse{Settings: setting})
}

// UpdateSettings godoc
// @ID          updateGuildSettings
// @Summary     Update guild settings
// @Description Applies a partial settings update. Requires ADMINISTRATOR or MANAGE_GUILD in the guild. Unknown body fields are rejected.
// @Tags        Settings
// @Accept      json
// @Produce     json
//
// @Param       guildId  path  string                          true  "Guild snowflake (17-19 digits)"
// @Param       body     body  handlers.SettingsUpdateRequest  true  "Partial settings payload"
//
// @Success     200  {object}  handlers.SettingsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid guild ID or payload"
// @Failure     401  {object}  handlers.ErrorResponse  "No session"
// @Failure     403  {object}  handlers.ErrorResponse  "Not a member or insufficient permission"
// @Failure     404  {object}  handlers.ErrorResponse  "Row missing after creation"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/guilds/{guildId}/settings [post]
func (h *Handlers) UpdateSettings(c *gin.Context) {
	guildID := c.Param("guildId")
	if !discord.ValidGuildID(guildID) {
		fail(c, http.StatusBadRequest, "Invalid guild ID format")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid settings data")
		return
	}

	var req SettingsUpdateRequest
	if details := decodeStrict(body, &req); details != nil {
		failDetails(c, http.StatusBadRequest, "Invalid settings data", details)
		return
	}
	if details := req.Validate(); len(details) > 0 {
		failDetails(c, http.StatusBadRequest, "Invalid settings data", details)
		return
	}

	setting, err := h.settingsSvc.Update(c.Request.Context(), middleware.UserIDFrom(c), guildID, req.Updates())
	if err != nil {
		mapServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, SettingsResponse{Settings: setting})
}
