package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"family-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const adminSecretHeader = "X-Admin-Secret"

// AdminAuthMiddleware gates administrator routes behind the single
// shared secret. The check runs before any handler touches the ledger,
// and a failure is always a 401, distinguishable from not-found and
// conflict responses.
type AdminAuthMiddleware struct {
	secret string
}

func NewAdminAuthMiddleware(cfg config.AdminConfig) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		secret: strings.TrimSpace(cfg.Secret),
	}
}

func (m *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.Verify(c.GetHeader(adminSecretHeader)) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized (bad admin secret)",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Verify compares the presented secret with the configured one after
// trimming whitespace on both sides, in constant time.
func (m *AdminAuthMiddleware) Verify(presented string) bool {
	got := strings.TrimSpace(presented)
	if m.secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(m.secret)) == 1
}
