package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"

	"tableside/utils"
)

// TokenSink receives the customer access token for backend pass-through.
type TokenSink interface {
	SetToken(token string)
}

// PassthroughAuth captures the customer bearer token from the device UI and
// hands it to the backend client. No verification happens here — the auth
// provider owns the token; we only drop ones that are already expired so
// the order flow falls back to the guest path cleanly.
func PassthroughAuth(sink TokenSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tok := strings.TrimPrefix(h, "Bearer ")
			if utils.TokenUsable(tok) {
				sink.SetToken(tok)
			} else {
				sink.SetToken("")
			}
		}
		c.Next()
	}
}
