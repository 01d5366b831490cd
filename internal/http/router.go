// Package httpapi wires the HTTP transport (Gin) to the application
// services, middleware, and route handlers. It centralizes cross-cutting
// concerns: tracing, correlation IDs, structured logging, panic recovery,
// metrics, CORS, security headers, and rate limiting.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS and security headers
//  8. Response compression
//
// Session authentication and rate limiting are attached per route group:
// the auth surface gets a stricter IP-keyed limiter, the API surface gets
// the general limiter plus RequireSession.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/soulwax/isobel-web/internal/auth"
	"github.com/soulwax/isobel-web/internal/config"
	"github.com/soulwax/isobel-web/internal/http/handlers"
	"github.com/soulwax/isobel-web/internal/http/middleware"
	"github.com/soulwax/isobel-web/internal/services"
)

// authBasePath is where the identity subsystem is mounted.
const authBasePath = "/api/auth"

// RegisterRoutes attaches all middleware and HTTP endpoints to the given
// Gin engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (10 KiB; settings payloads are tiny)
	r.Use(limitBody(10 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS. Cookies ride on every API call, so credentials must be
	// allowed and the origin list kept explicit, never a wildcard.
	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{
			cfg.PublicURL,
			"http://localhost:3000",
			"http://localhost:3001",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:3001",
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	// 8) Compress JSON responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Services built from db and config
	authSvc := auth.NewService(db, auth.Options{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		PublicURL:    cfg.PublicURL,
		BasePath:     authBasePath,
		CookieName:   cfg.Session.CookieName,
		SessionTTL:   cfg.Session.TTL,
		StateSecret:  []byte(cfg.Session.Secret),
		APIBase:      cfg.Discord.APIBase,
	})
	guildSvc := &services.GuildService{DB: db}
	settingsSvc := &services.SettingsService{DB: db}
	healthSvc := &services.BotHealthService{
		BaseURL: cfg.BotHealthURL,
		Timeout: cfg.BotHealthTimeout,
	}
	h := handlers.New(guildSvc, settingsSvc, healthSvc)

	// Liveness/health (unauthenticated)
	r.GET("/health", h.SelfHealth)
	r.GET("/api/health", h.BotHealth)

	// Identity subsystem, behind the stricter IP-keyed limiter
	authRL := middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst, middleware.KeyByIP())
	r.Any(authBasePath+"/*path", authRL.Handler(), handlers.AuthAdapter(authSvc, authBasePath))

	// Authenticated API, behind the general limiter
	apiRL := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	api := r.Group("/api")
	api.Use(apiRL.Handler())
	api.Use(middleware.RequireSession(authSvc.Resolver(), cfg.Session.CookieName))
	{
		api.GET("/guilds", h.ListGuilds)
		api.GET("/guilds/:guildId/settings", h.GetSettings)
		api.POST("/guilds/:guildId/settings", h.UpdateSettings)
	}

	// API docs (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
