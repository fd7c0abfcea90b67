package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/contact-bridge/internal/config"
	httpmiddleware "github.com/wolfman30/contact-bridge/internal/http/middleware"
	"github.com/wolfman30/contact-bridge/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRateLimiter picks the limiter for the submission endpoint. It returns
// nil when RATE_LIMIT_PER_MINUTE is zero. A reachable Redis gives a limiter
// shared across instances; otherwise limits are kept in process.
func BuildRateLimiter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (httpmiddleware.Limiter, func()) {
	noop := func() {}
	if cfg == nil || cfg.RateLimitPerMinute <= 0 {
		return nil, noop
	}
	if logger == nil {
		logger = logging.Default()
	}

	if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
		logger.Info("rate limiting submissions via redis", "per_minute", cfg.RateLimitPerMinute)
		return httpmiddleware.NewRedisLimiter(client, cfg.RateLimitPerMinute, time.Minute), func() { _ = client.Close() }
	}

	logger.Info("rate limiting submissions in memory", "per_minute", cfg.RateLimitPerMinute, "burst", cfg.RateLimitBurst)
	limiter := httpmiddleware.NewRateLimiter(float64(cfg.RateLimitPerMinute)/60, cfg.RateLimitBurst)
	return limiter, limiter.Close
}
