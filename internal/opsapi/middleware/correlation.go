package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CorrelationIDHeader carries the request identifier on the ops surface
	CorrelationIDHeader = "X-Correlation-ID"

	// CorrelationIDKey stores the identifier in the gin context
	CorrelationIDKey = "correlation_id"
)

// CorrelationID tags every ops request with an identifier so a scrape or
// health probe can be matched against the pipeline's log stream. An
// identifier supplied by the caller is kept; otherwise one is minted.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Header(CorrelationIDHeader, correlationID)
		c.Set(CorrelationIDKey, correlationID)

		c.Next()
	}
}

// GetCorrelationID returns the request's identifier, or "" outside a request
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
