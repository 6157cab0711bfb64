package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bdportal/api/internal/cache"
	"bdportal/api/internal/config"
	"bdportal/api/internal/upstream"
)

// Warmer refreshes hot portal sections on a schedule so morning traffic never
// hits a cold cache.
type Warmer struct {
	cron     *cron.Cron
	payloads *cache.PayloadCache
	content  *upstream.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewWarmer(payloads *cache.PayloadCache, content *upstream.Client, cfg *config.AppConfig, log zerolog.Logger) *Warmer {
	return &Warmer{
		cron:     cron.New(cron.WithSeconds()),
		payloads: payloads,
		content:  content,
		cfg:      cfg,
		log:      log,
	}
}

func (w *Warmer) Start() error {
	// Offset from minute boundaries to avoid herding with client polls.
	if _, err := w.cron.AddFunc("30 */5 * * * *", w.warmAll); err != nil {
		return err
	}

	w.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running warm pass to finish.
func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		w.log.Warn().Msg("cache warmer stop timed out")
	}
}

type warmTarget struct {
	ttl   time.Duration
	fetch cache.FetchFunc
}

func (w *Warmer) targets() map[string]warmTarget {
	return map[string]warmTarget{
		"news": {w.cfg.Cache.NewsTTL, func(ctx context.Context) ([]byte, error) {
			return w.content.News(ctx, "", "", 0)
		}},
		"weather": {w.cfg.Cache.WeatherTTL, func(ctx context.Context) ([]byte, error) {
			return w.content.WeatherDivisions(ctx)
		}},
		"currency": {w.cfg.Cache.CurrencyTTL, func(ctx context.Context) ([]byte, error) {
			return w.content.Currency(ctx)
		}},
		"prayer": {w.cfg.Cache.PrayerTTL, func(ctx context.Context) ([]byte, error) {
			return w.content.Prayer(ctx, "")
		}},
	}
}

func (w *Warmer) warmAll() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	targets := w.targets()
	for _, name := range w.cfg.WarmSections {
		target, ok := targets[name]
		if !ok {
			w.log.Warn().Str("section", name).Msg("unknown warm section in config")
			continue
		}

		// Keys match the handlers' no-query cache keys.
		key := name
		if name == "weather" {
			key = "weather-divisions"
		}

		if err := w.payloads.Warm(ctx, key, target.ttl, target.fetch); err != nil {
			w.log.Warn().Err(err).Str("section", name).Msg("cache warm failed")
			continue
		}
		w.log.Debug().Str("section", name).Msg("cache warmed")
	}
}
