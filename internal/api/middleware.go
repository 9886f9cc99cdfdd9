package api

import (
	"time"

	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID propagates or assigns the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(constants.LogFieldRequestID, id)
		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logging.Fields{
			constants.LogFieldRequestID: c.GetString(constants.LogFieldRequestID),
			constants.LogFieldMethod:    c.Request.Method,
			constants.LogFieldPath:      c.FullPath(),
			constants.LogFieldStatus:    c.Writer.Status(),
			constants.LogFieldLatency:   time.Since(start).Milliseconds(),
		}
		if p := principal(c); !p.Anonymous() {
			fields[constants.LogFieldActor] = p.Email
		}
		if len(c.Errors) > 0 {
			logging.Warn("request completed with errors", c.Errors.Last(), fields)
			return
		}
		logging.Debug("request completed", fields)
	}
}
