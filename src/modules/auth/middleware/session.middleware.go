package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	models "movieexplorer/src/modules/auth/models"
	auth "movieexplorer/src/modules/auth/services"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "session_id"
	HeaderName = "X-Session-ID"
	contextKey = "session"
)

type Loader interface {
	Lookup(ctx context.Context, id string) (*models.Session, error)
}

// SessionID reads the session reference from the cookie, then the header.
func SessionID(c *gin.Context) string {
	if id, err := c.Cookie(CookieName); err == nil && id != "" {
		return id
	}
	return c.GetHeader(HeaderName)
}

// LoadSession attaches the caller's session, when there is a live one, to the
// gin context. It never rejects a request.
func LoadSession(loader Loader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := SessionID(c)
		if id == "" {
			c.Next()
			return
		}
		sess, err := loader.Lookup(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(contextKey, sess)
		case errors.Is(err, auth.ErrSessionNotFound):
			logger.Debug("[Auth] unknown session", slog.String("session", id))
		default:
			logger.Error("[Auth] session lookup failed", slog.String("error", err.Error()))
		}
		c.Next()
	}
}

// CurrentSession returns the session LoadSession attached, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*models.Session)
	return sess
}

func SetSession(c *gin.Context, sess *models.Session) {
	c.Set(contextKey, sess)
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Please log in to continue",
				"redirect": "/login",
			})
			return
		}
		c.Next()
	}
}

func RequireSupervisor() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Please log in to continue",
				"redirect": "/login",
			})
			return
		}
		if !sess.IsSupervisor() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Access denied. Supervisor role required.",
				"redirect": "/dashboard",
			})
			return
		}
		c.Next()
	}
}
