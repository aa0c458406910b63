package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "admin_session"

type SessionValidator interface {
	Validate(ctx context.Context, token string) (domain.Session, error)
}

// AdminSession rejects requests without a valid "Authorization: Bearer"
// session token and hands the session to the handlers that follow.
func AdminSession(validator SessionValidator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		session, err := validator.Validate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				logger.Error("Failed to validate admin session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin sign-in required"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// SessionFrom returns the session stored by AdminSession.
func SessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)
	return session, ok
}
