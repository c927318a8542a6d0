package main

import (
	"net/http"

	redisrate "github.com/wallstreetcn/rate/redis"

	"github.com/tombowditch/pastebin/internal/config"
	"github.com/tombowditch/pastebin/internal/logging"
	"github.com/tombowditch/pastebin/internal/server/fakebin"
	"github.com/tombowditch/pastebin/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}
	logging.Init(cfg.LogLevel, cfg.LogDev)
	if err := cfg.ValidateFakebin(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}

	var (
		s       store.Store
		limiter fakebin.Limiter
	)
	if cfg.RedisURI == "" {
		logging.Warn().Msg("REDIS_URI not set, keeping pastes in memory")
		s = store.NewMemory()
		limiter = fakebin.NewMemoryLimiter(cfg.RateEvery, cfg.RateBurst)
	} else {
		rs, err := store.NewRedis(cfg.RedisURI, cfg.RedisPassword.Value(), cfg.RedisDB)
		if err != nil {
			logging.Fatal().Err(err).Msg("could not connect to redis")
		}
		defer rs.Close()
		logging.Info().Str("addr", cfg.RedisURI).Msg("connected to redis")
		s = rs

		// Note: the rate limiter library opens its own Redis connection
		redisHost, redisPort := store.ParseRedisURI(cfg.RedisURI)
		if err := redisrate.SetRedis(&redisrate.ConfigRedis{
			Host: redisHost,
			Port: redisPort,
			Auth: cfg.RedisPassword.Value(),
		}); err != nil {
			logging.Fatal().Err(err).Msg("could not initialize rate limiter")
		}
		limiter = fakebin.NewRedisLimiter(cfg.RateEvery, cfg.RateBurst)
	}

	handler := fakebin.NewHandler(s, limiter, fakebin.Options{
		BaseURL:     cfg.FakebinBaseURL,
		DevKeys:     cfg.FakebinDevKeys,
		ErrorPrefix: cfg.FakebinErrorPrefix,
		TrustProxy:  cfg.TrustProxy,
	})

	logging.Info().Str("addr", cfg.FakebinAddr).Msg("starting http server")
	if err := http.ListenAndServe(cfg.FakebinAddr, handler); err != nil {
		logging.Fatal().Err(err).Msg("http server failed")
	}
}
