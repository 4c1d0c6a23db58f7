package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aperture/internal/domain"
)

const (
	routeClaimsWrite = "claims:write"
	routeClaimsRead  = "claims:read"
	routeVerify      = "verify"
)

type RateLimitConfig struct {
	Limiter    domain.RateLimiter
	Requests   int
	Window     time.Duration
	FailClosed bool
}

func (s *Server) rateLimit(routeID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := s.limiter
		if cfg.Limiter == nil || cfg.Requests <= 0 {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP() + ":endpoint:" + routeID
		decision, err := cfg.Limiter.Allow(c.Request.Context(), key, cfg.Requests, cfg.Window)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			if cfg.FailClosed {
				writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
				c.Abort()
				return
			}
			c.Next()
			return
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			c.Abort()
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
