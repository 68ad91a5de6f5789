package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured entry per request. Redirects, health
// checks and scrapes are logged at debug level to keep the hot path quiet.
func RequestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": c.ClientIP(),
		})
		if c.FullPath() == "/:hash" || c.FullPath() == "/health" || c.FullPath() == "/metrics" {
			entry.Debug("request")
			return
		}
		entry.Info("request")
	}
}

// NewRouter returns a gin engine with recovery and request logging.
func NewRouter(logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	return router
}
