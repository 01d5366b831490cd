// Health HTTP handlers.
//
// Two surfaces: /api/health proxies the bot process's own health endpoint
// with a bounded timeout, and /health reports the web server itself (always
// healthy when it can answer at all).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulwax/isobel-web/internal/http/middleware"
)

// serviceName identifies this process in the self health payload.
const serviceName = "isobel-web"

// startedAt anchors the uptime reported by SelfHealth.
var startedAt = time.Now()

// BotHealth godoc
// @ID          botHealth
// @Summary     Bot health (proxied)
// @Description Relays the music bot's health payload verbatim. Upstream failures are reported with the upstream status; unreachable or slow upstreams produce 503.
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  map[string]any  "Upstream payload, passed through"
// @Failure     503  {object}  map[string]any  "Bot unreachable or timed out"
// @Router      /api/health [get]
func (h *Handlers) BotHealth(c *gin.Context) {
	res, err := h.healthSvc.Check(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Str("url", res.URL).Msg("bot health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"ready":  false,
			"error":  err.Error(),
			"url":    res.URL,
		})
		return
	}
	if !res.OK {
		middleware.LoggerFrom(c).Warn().Int("status", res.Status).Str("url", res.URL).Msg("bot reported unhealthy")
		c.JSON(res.Status, gin.H{
			"status": "error",
			"ready":  false,
			"error":  res.Err,
			"url":    res.URL,
		})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", res.Body)
}

// SelfHealth godoc
// @ID          selfHealth
// @Summary     Web server health
// @Tags        Health
// @Produce     json
//
// @Success     200  {object}  map[string]any
// @Router      /health [get]
func (h *Handlers) SelfHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
		"service":   serviceName,
	})
}
