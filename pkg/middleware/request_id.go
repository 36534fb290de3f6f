package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the per-request id, inbound and
// outbound.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware attaches a request id to every request: the inbound
// header value when the client supplies one, a fresh UUID otherwise. The id
// is echoed on the response and stored on the context for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}
