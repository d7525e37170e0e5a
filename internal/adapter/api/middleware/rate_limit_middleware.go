package middleware

import (
	"github.com/labstack/echo/v4"

	"helperhub/internal/infrastructure/ratelimit"
	"helperhub/pkg/errors"
	"helperhub/pkg/logger"
	"helperhub/pkg/response"
)

const requestAction = "http_request"

// RateLimit throttles requests per client IP.
func RateLimit(rl *ratelimit.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if allowed, wait := rl.Allow(ip, requestAction); !allowed {
				logger.Warn("RATE LIMIT: blocked request from IP %s (retry in %v)", ip, wait)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}
			return next(c)
		}
	}
}
