// Package http is the verification service: it stores claims and answers
// full and crop verification requests over a gin API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aperture/internal/usecase"
)

type Server struct {
	r   *gin.Engine
	log *zap.Logger

	claims  usecase.ClaimRepository
	events  usecase.EventRecorder
	full    *usecase.FullVerifier
	crop    *usecase.CropVerifier
	limiter RateLimitConfig
}

type ServerDeps struct {
	Logger       *zap.Logger
	Claims       usecase.ClaimRepository
	Events       usecase.EventRecorder
	FullVerifier *usecase.FullVerifier
	CropVerifier *usecase.CropVerifier
	RateLimit    RateLimitConfig
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.FullVerifier == nil {
		deps.FullVerifier = &usecase.FullVerifier{}
	}
	if deps.CropVerifier == nil {
		deps.CropVerifier = &usecase.CropVerifier{}
	}

	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		r:       r,
		log:     deps.Logger,
		claims:  deps.Claims,
		events:  deps.Events,
		full:    deps.FullVerifier,
		crop:    deps.CropVerifier,
		limiter: deps.RateLimit,
	}
	s.r.Use(s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		mode := "no-db"
		if s.claims != nil {
			mode = "db"
		}
		c.JSON(200, gin.H{"status": "ok", "mode": mode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/claims", s.rateLimit(routeClaimsWrite), s.handleStoreClaim)
		v1.GET("/claims/:claim_id", s.rateLimit(routeClaimsRead), s.handleGetClaim)
		v1.GET("/claims", s.rateLimit(routeClaimsRead), s.handleListClaims)
		v1.POST("/verify/full", s.rateLimit(routeVerify), s.handleVerifyFull)
		v1.POST("/verify/crop", s.rateLimit(routeVerify), s.handleVerifyCrop)
	}
}

func (s *Server) Run(addr string) error {
	return s.r.Run(addr)
}

// Handler exposes the router for httptest.
func (s *Server) Handler() *gin.Engine {
	return s.r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
