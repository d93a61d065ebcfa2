package ui

import (
	"net/http"

	"chartfolio/internal/calendar"
	apperrors "chartfolio/internal/errors"

	"github.com/gin-gonic/gin"
)

func (s *Server) activeCalendar() *calendar.Calendar {
	if len(s.deps.Calendars) == 0 {
		return nil
	}
	return s.deps.Calendars[0]
}

func (s *Server) loggedIn(c *gin.Context) bool {
	return s.deps.Gate.LoggedIn(sessionFrom(c))
}

func (s *Server) handleCalendar(c *gin.Context) {
	cal := s.activeCalendar()
	if cal == nil {
		s.notFound(c, "calendar")
		return
	}
	if !s.loggedIn(c) {
		c.Redirect(http.StatusSeeOther, "/calendar/login")
		return
	}
	grid, err := calendar.Render(cal.Config(s.deps.Now()))
	if err != nil {
		s.log.Error("calendar %s: %v", cal.Name, err)
		s.fail(c, apperrors.Wrap(err, "rendering calendar"))
		return
	}
	s.renderTemplate(c, http.StatusOK, "calendar.html", gin.H{
		"Title":     "Calendar",
		"Name":      cal.Name,
		"Grid":      grid,
		"CanLogout": s.deps.Gate.Enabled(),
	})
}

func (s *Server) handleLoginForm(c *gin.Context) {
	if s.loggedIn(c) {
		c.Redirect(http.StatusSeeOther, "/calendar")
		return
	}
	s.renderTemplate(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

func (s *Server) handleLogin(c *gin.Context) {
	id, ok := s.deps.Gate.Login(sessionFrom(c), c.PostForm("password"))
	if !ok {
		s.renderTemplate(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title": "Login",
			"Error": "Incorrect password",
		})
		return
	}
	setSessionCookie(c, id, 0)
	c.Redirect(http.StatusSeeOther, "/calendar")
}

func (s *Server) handleLogout(c *gin.Context) {
	if id := sessionFrom(c); id != "" {
		s.deps.Gate.Logout(id)
	}
	setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/calendar/login")
}

// handleDrift lists the dates on which the shown table and the reference table disagree.
func (s *Server) handleDrift(c *gin.Context) {
	if !s.loggedIn(c) {
		s.fail(c, apperrors.Unauthorized("log in to the calendar first"))
		return
	}
	if len(s.deps.Calendars) < 2 {
		s.fail(c, apperrors.NotFound("reference calendar"))
		return
	}
	a, b := s.deps.Calendars[0], s.deps.Calendars[1]
	diffs := calendar.Drift(a, b)
	c.JSON(http.StatusOK, gin.H{
		"left":        a.Name,
		"right":       b.Name,
		"differences": diffs,
	})
}
