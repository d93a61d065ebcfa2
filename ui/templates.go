package ui

import (
	"bytes"
	"net/http"

	apperrors "chartfolio/internal/errors"

	"github.com/gin-gonic/gin"
)

// renderTemplate executes a template into a buffer first so a failing template
// never leaves a half-written page behind
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("template %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// fail answers an API request with the status and code matching err
func (s *Server) fail(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}

func (s *Server) notFound(c *gin.Context, what string) {
	s.renderTemplate(c, http.StatusNotFound, "notfound.html", gin.H{"Title": "Not found", "What": what})
}
