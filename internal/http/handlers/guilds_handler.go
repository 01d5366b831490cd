// Guild list HTTP handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/http/middleware"
)

// ListGuilds godoc
// @ID          listGuilds
// @Summary     List the user's guilds
// @Description Returns the Discord guilds the signed-in user shares with the bot, with the user's permission bitmask per guild. An account without a completed Discord link gets an empty list.
// @Tags        Guilds
// @Produce     json
//
// @Success     200  {object}  handlers.GuildsResponse
// @Failure     401  {object}  handlers.ErrorResponse  "No session"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/guilds [get]
func (h *Handlers) ListGuilds(c *gin.Context) {
	guilds, err := h.guildSvc.List(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("guild list failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	ok(c, http.StatusOK, GuildsResponse{Guilds: guilds})
}
