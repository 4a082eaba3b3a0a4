package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type ServerConfig struct {
	// RateLimit is the number of requests per second allowed on the API, 0 disables the limit
	RateLimit float64
	RateBurst int
}

// NewServer initializes the router of the movies API
func NewServer(cfg ServerConfig, movieHandler *MovieHandler) *gin.Engine {
	router := gin.New()

	router.SetTrustedProxies(nil)
	router.Use(requestLogger, gin.Recovery())
	if cfg.RateLimit > 0 {
		router.Use(rateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
	}

	// 404
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.Group("/movies").
		GET("", movieHandler.GETMovies).
		POST("", movieHandler.POSTMovie).
		GET("/:id", movieHandler.GETMovie).
		PATCH("/:id", movieHandler.PATCHMovie).
		DELETE("/:id", movieHandler.DELETEMovie)

	return router
}

// requestLogger logs every request once it has been handled
func requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.Info().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Msg("Request handled")
}

// rateLimiter rejects requests once the limiter has no token left
func rateLimiter(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
