package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bdportal/api/internal/cache"
	"bdportal/api/internal/config"
	"bdportal/api/internal/middleware"
	"bdportal/api/internal/session"
	"bdportal/api/internal/upstream"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	content  *upstream.Client
	payloads *cache.PayloadCache
	sessions *session.Registry
	redis    *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	content *upstream.Client,
	redisClient *redis.Client,
	sessions *session.Registry,
) HandlerSet {
	return HandlerSet{
		log:      log,
		cfg:      cfg,
		content:  content,
		payloads: cache.NewPayloadCache(redisClient, log),
		sessions: sessions,
		redis:    redisClient,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		portal := v1.Group("/portal")
		portal.GET("/all", h.PortalAll)
		portal.GET("/news", h.News)
		portal.GET("/weather", h.Weather)
		portal.GET("/weather/locations", h.WeatherLocations)
		portal.GET("/weather/divisions", h.WeatherDivisions)
		portal.GET("/weather/bulk", h.WeatherBulk)
		portal.GET("/currency", h.Currency)
		portal.GET("/radio", h.Radio)
		portal.GET("/jobs", h.Jobs)
		portal.GET("/notices", h.Notices)
		portal.GET("/education", h.Education)
		portal.GET("/market", h.Market)
		portal.GET("/districts", h.Districts)
		portal.GET("/prayer", h.Prayer)
		portal.GET("/cricket", h.Cricket)
		portal.GET("/commodities", h.Commodities)
		portal.GET("/emergency", h.Emergency)
		portal.GET("/holidays", h.Holidays)
		portal.GET("/search", h.Search)
		portal.GET("/calendar", h.Calendar)

		ai := portal.Group("/ai")
		ai.GET("/limit", h.AILimit)
		ai.POST("/chat",
			middleware.RateLimit(h.redis, h.log, "ai-chat", h.cfg.AI.RateLimitRequests, h.cfg.AI.RateLimitWindow),
			h.AIChat,
		)

		videos := v1.Group("/videos")
		videos.GET("", h.VideoFeed)
		videos.GET("/search", h.VideoSearch)
		videos.GET("/bookmarks", h.VideoBookmarks)
		videos.POST("/bookmarks", h.VideoAddBookmark)
		videos.DELETE("/bookmarks/:id", h.VideoRemoveBookmark)
		videos.GET("/history", h.VideoHistory)
		videos.POST("/history", h.VideoRecordHistory)
		videos.GET("/:id", h.VideoByID)

		auth := v1.Group("/auth")
		auth.GET("/login", h.AuthLogin)
		auth.GET("/register", h.AuthRegister)
		auth.POST("/refresh", h.AuthRefresh)
		auth.POST("/logout", h.AuthLogout)

		v1.GET("/users/me", h.Me)
	}
}

// RegisterCallback wires the SSO callback route at the site root; the
// identity provider redirects the browser here, outside the /api prefix.
func (h HandlerSet) RegisterCallback(engine *gin.Engine) {
	engine.GET(h.cfg.Auth.CallbackPath, h.AuthCallback)
}
