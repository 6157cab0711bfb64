package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bdportal/api/internal/cache"
	"bdportal/api/internal/upstream"
)

// section serves a cached upstream payload. The cache key carries the encoded
// query so filtered views don't collide.
func (h HandlerSet) section(c *gin.Context, name string, ttl time.Duration, fetch cache.FetchFunc) {
	key := name
	if q := c.Request.URL.Query().Encode(); q != "" {
		key += "?" + q
	}

	payload, hit, err := h.payloads.Fetch(c.Request.Context(), key, ttl, fetch)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) && len(statusErr.Body) > 0 {
			// Pass the upstream's structured error through untouched.
			c.Data(statusErr.Code, "application/json", statusErr.Body)
			return
		}
		h.log.Error().Err(err).Str("section", name).Msg("section fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "content source unavailable"}})
		return
	}

	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

func (h HandlerSet) PortalAll(c *gin.Context) {
	h.section(c, "all", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.All(ctx)
	})
}

func (h HandlerSet) News(c *gin.Context) {
	category, source, limit := c.Query("category"), c.Query("source"), intQuery(c, "limit")
	h.section(c, "news", h.cfg.Cache.NewsTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.News(ctx, category, source, limit)
	})
}

func (h HandlerSet) Weather(c *gin.Context) {
	wq := upstream.WeatherQuery{
		Lat:      c.Query("lat"),
		Lon:      c.Query("lon"),
		District: c.Query("district"),
	}
	h.section(c, "weather", h.cfg.Cache.WeatherTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Weather(ctx, wq)
	})
}

func (h HandlerSet) WeatherLocations(c *gin.Context) {
	h.section(c, "weather-locations", h.cfg.Cache.StaticTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.WeatherLocations(ctx)
	})
}

func (h HandlerSet) WeatherDivisions(c *gin.Context) {
	h.section(c, "weather-divisions", h.cfg.Cache.WeatherTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.WeatherDivisions(ctx)
	})
}

func (h HandlerSet) WeatherBulk(c *gin.Context) {
	division := c.Query("division")
	h.section(c, "weather-bulk", h.cfg.Cache.WeatherTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.WeatherBulk(ctx, division)
	})
}

func (h HandlerSet) Currency(c *gin.Context) {
	h.section(c, "currency", h.cfg.Cache.CurrencyTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Currency(ctx)
	})
}

func (h HandlerSet) Radio(c *gin.Context) {
	h.section(c, "radio", h.cfg.Cache.StaticTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Radio(ctx)
	})
}

func (h HandlerSet) Jobs(c *gin.Context) {
	jobType, limit := c.Query("type"), intQuery(c, "limit")
	h.section(c, "jobs", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Jobs(ctx, jobType, limit)
	})
}

func (h HandlerSet) Notices(c *gin.Context) {
	category, limit := c.Query("category"), intQuery(c, "limit")
	h.section(c, "notices", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Notices(ctx, category, limit)
	})
}

func (h HandlerSet) Education(c *gin.Context) {
	eduType, limit := c.Query("type"), intQuery(c, "limit")
	h.section(c, "education", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Education(ctx, eduType, limit)
	})
}

func (h HandlerSet) Market(c *gin.Context) {
	category, limit := c.Query("category"), intQuery(c, "limit")
	h.section(c, "market", h.cfg.Cache.DefaultTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Market(ctx, category, limit)
	})
}

func (h HandlerSet) Districts(c *gin.Context) {
	flat := c.Query("flat") == "true"
	h.section(c, "districts", h.cfg.Cache.StaticTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Districts(ctx, flat)
	})
}

func (h HandlerSet) Prayer(c *gin.Context) {
	city := c.Query("city")
	h.section(c, "prayer", h.cfg.Cache.PrayerTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Prayer(ctx, city)
	})
}

func (h HandlerSet) Cricket(c *gin.Context) {
	// Live scores: short fixed TTL regardless of config.
	h.section(c, "cricket", 30*time.Second, func(ctx context.Context) ([]byte, error) {
		return h.content.Cricket(ctx)
	})
}

func (h HandlerSet) Commodities(c *gin.Context) {
	h.section(c, "commodities", h.cfg.Cache.CurrencyTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Commodities(ctx)
	})
}

func (h HandlerSet) Emergency(c *gin.Context) {
	h.section(c, "emergency", h.cfg.Cache.StaticTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Emergency(ctx)
	})
}

func (h HandlerSet) Holidays(c *gin.Context) {
	year := intQuery(c, "year")
	h.section(c, "holidays", h.cfg.Cache.StaticTTL, func(ctx context.Context) ([]byte, error) {
		return h.content.Holidays(ctx, year)
	})
}

func (h HandlerSet) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "q is required"}})
		return
	}
	contentType, limit := c.Query("type"), intQuery(c, "limit")

	// Searches are too varied to cache usefully.
	payload, err := h.content.Search(c.Request.Context(), query, contentType, limit)
	if err != nil {
		h.upstreamError(c, "search", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) AIChat(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	payload, err := h.content.AIChat(c.Request.Context(), req.Message)
	if err != nil {
		h.upstreamError(c, "ai-chat", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) AILimit(c *gin.Context) {
	payload, err := h.content.AILimit(c.Request.Context())
	if err != nil {
		h.upstreamError(c, "ai-limit", err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

func (h HandlerSet) upstreamError(c *gin.Context, name string, err error) {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && len(statusErr.Body) > 0 {
		c.Data(statusErr.Code, "application/json", statusErr.Body)
		return
	}
	h.log.Error().Err(err).Str("section", name).Msg("upstream request failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"message": "content source unavailable"}})
}
