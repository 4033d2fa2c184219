package middleware

import (
	pkgLog "scheduling-assistant/pkg/log"
)

// Config tunes the middlewares. Zero values select defaults.
type Config struct {
	RateLimitPerMin int
	MaxClients      int
}

type Middleware struct {
	l       pkgLog.Logger
	limiter *rateLimiter
}

func New(l pkgLog.Logger, cfg Config) Middleware {
	return Middleware{
		l:       l,
		limiter: newRateLimiter(cfg.RateLimitPerMin, cfg.MaxClients),
	}
}
