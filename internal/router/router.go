package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/translation-trainer/internal/config"
	"github.com/iliyamo/translation-trainer/internal/handler"
	"github.com/iliyamo/translation-trainer/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the application's API under /api.  Registration and
// login are open; everything else requires a Bearer access token.  The
// whole group sits behind the Redis token bucket, and the read-only list
// endpoints are additionally served from the response cache.  rdb may be
// nil, in which case rate limiting and caching are disabled.
func RegisterAPI(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, t *handler.TranslationHandler, rdb *redis.Client) {
	api := e.Group("/api")
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Open endpoints: account creation and login.
	api.POST("/users", a.Register)
	api.POST("/login", a.Login)

	// Protected endpoints.
	auth := api.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/me", a.Me)
	auth.POST("/save-translation", t.SaveTranslation)

	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	auth.GET("/idioms_words", t.ListIdiomsWords, cache)
	auth.GET("/sentences", t.ListSentences, cache)
	auth.GET("/sentence_words", t.ListSentenceWords, cache)
}
