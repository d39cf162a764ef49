package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// ContextSessionKey is the gin context key storing session claims.
const ContextSessionKey = "currentSession"

// SessionTokenHeader is accepted as an alternative to a bearer Authorization header.
const SessionTokenHeader = "X-Session-Token"

type sessionValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// Session requires a token for a live session and exposes its claims to handlers.
func Session(sessions sessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := sessions.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Set(logger.SessionKey, claims.SessionID)
		c.Next()
	}
}

// SessionID returns the id of the session resolved by Session.
func SessionID(c *gin.Context) string {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return ""
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return ""
	}
	return claims.SessionID
}

func tokenFromRequest(c *gin.Context) (string, error) {
	if token := strings.TrimSpace(c.GetHeader(SessionTokenHeader)); token != "" {
		return token, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
