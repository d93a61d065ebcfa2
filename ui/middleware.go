package ui

import (
	"net/http"
	"time"

	"chartfolio/domain/core"
	"chartfolio/internal/gate"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// requestLogger logs one line per request at DEBUG, and failures at WARN
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			s.log.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
			return
		}
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// session reads the session cookie into the context. Unknown or malformed ids are
// treated as no session; a fresh one is only issued on login.
func (s *Server) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(gate.CookieName); err == nil {
			if id, err := core.ParseSessionID(raw); err == nil {
				c.Set(sessionKey, id)
			}
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}

func setSessionCookie(c *gin.Context, id core.SessionID, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(gate.CookieName, id.String(), maxAge, "/calendar", "", false, true)
}
