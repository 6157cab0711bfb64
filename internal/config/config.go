package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type UpstreamConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

type AuthConfig struct {
	ProviderURL  string
	CallbackPath string
	PublicOrigin string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
}

type CacheConfig struct {
	NewsTTL     time.Duration
	WeatherTTL  time.Duration
	CurrencyTTL time.Duration
	PrayerTTL   time.Duration
	StaticTTL   time.Duration
	DefaultTTL  time.Duration
}

type AIConfig struct {
	RateLimitWindow   time.Duration
	RateLimitRequests int
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Redis            RedisConfig
	Upstream         UpstreamConfig
	Auth             AuthConfig
	Cache            CacheConfig
	AI               AIConfig
	WarmSections     []string
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("BDPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upstream.apibaseurl", "https://api.banglade.sh")
	v.SetDefault("upstream.timeout", "15s")

	v.SetDefault("auth.providerurl", "https://auth.banglade.sh")
	v.SetDefault("auth.callbackpath", "/auth/callback")
	v.SetDefault("auth.publicorigin", "http://localhost:8080")
	v.SetDefault("auth.sessionttl", "720h") // 30 days
	v.SetDefault("auth.cookiename", "bdp_sid")
	v.SetDefault("auth.cookiesecure", true)

	v.SetDefault("cache.newsttl", "5m")
	v.SetDefault("cache.weatherttl", "15m")
	v.SetDefault("cache.currencyttl", "30m")
	v.SetDefault("cache.prayerttl", "6h")
	v.SetDefault("cache.staticttl", "24h")
	v.SetDefault("cache.defaultttl", "10m")

	v.SetDefault("ai.ratelimitwindow", "1h")
	v.SetDefault("ai.ratelimitrequests", 20)

	v.SetDefault("warmsections", "news,weather,currency,prayer")

	// Registered empty so the env override is visible to Unmarshal.
	v.SetDefault("allowcorsorigins", "")
}
