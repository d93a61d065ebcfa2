package ui

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "chartfolio/internal/errors"
	"chartfolio/internal/widget"

	"github.com/gin-gonic/gin"
)

// defaultWidth is used when neither the request nor a previous build gives a width.
const defaultWidth = 960

type pointerRequest struct {
	X *float64 `json:"x" form:"x" binding:"required"`
	Y *float64 `json:"y" form:"y" binding:"required"`
}

type resizeRequest struct {
	Width float64 `json:"width" form:"width" binding:"required,gt=0"`
}

type selectRequest struct {
	Feature string `json:"feature" form:"feature" binding:"required"`
}

type chartState struct {
	Kind     string    `json:"kind"`
	Width    float64   `json:"width"`
	Selected string    `json:"selected,omitempty"`
	Options  []string  `json:"options,omitempty"`
	Error    string    `json:"error,omitempty"`
	Code     string    `json:"code,omitempty"`
	RenderID string    `json:"render_id,omitempty"`
	BuiltAt  time.Time `json:"built_at"`
}

func stateOf(snap widget.Snapshot) chartState {
	st := chartState{
		Kind:     snap.Kind.String(),
		Width:    snap.Width,
		Selected: snap.Selected,
		Options:  snap.Options,
		BuiltAt:  snap.BuiltAt,
	}
	if snap.Err != nil {
		st.Error = snap.Err.Error()
		st.Code = apperrors.GetCode(snap.Err)
	}
	if snap.Drawing != nil {
		st.RenderID = snap.Drawing.ID.String()
	}
	return st
}

// widgetFor resolves the :kind parameter against the page's registry
func (s *Server) widgetFor(c *gin.Context, raw string) (*widget.Widget, bool) {
	if s.deps.Registry == nil {
		s.fail(c, apperrors.NotFound("charts"))
		return nil, false
	}
	kind, err := widget.ParseKind(raw)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	w, err := s.deps.Registry.Get(kind)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return w, true
}

// ensureBuilt builds w when it has never been built or a different width is asked for.
func (s *Server) ensureBuilt(c *gin.Context, w *widget.Widget) bool {
	snap := w.Snapshot()
	width := snap.Width
	if raw := c.Query("width"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0) {
			s.fail(c, apperrors.InvalidInput("width must be a positive number"))
			return false
		}
		width = v
	}
	if width <= 0 && s.deps.Reflow != nil {
		width = s.deps.Reflow.Width()
	}
	if width <= 0 {
		width = defaultWidth
	}
	if !snap.BuiltAt.IsZero() && width == snap.Width {
		return true
	}
	if err := w.Build(c.Request.Context(), width); err != nil {
		s.log.Warn("%s build at width %.0f: %v", w.Kind, width, err)
	}
	return true
}

// handleChartSVG serves the current drawing, or the error placeholder when the last
// build failed. Both are 200 so the page always has something to show.
func (s *Server) handleChartSVG(c *gin.Context) {
	name, ok := strings.CutSuffix(c.Param("file"), ".svg")
	if !ok {
		s.fail(c, apperrors.NotFound(c.Param("file")))
		return
	}
	w, ok := s.widgetFor(c, name)
	if !ok {
		return
	}
	if slug := c.Query("post"); slug != "" {
		if !s.servePostContainer(c, w, slug) {
			return
		}
	}
	if !s.ensureBuilt(c, w) {
		return
	}
	snap := w.Snapshot()
	if snap.Err != nil {
		c.Header("X-Chart-Error", apperrors.GetCode(snap.Err))
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", snap.SVG)
}

// servePostContainer checks that the post asking for w places its container. When it
// does not, the container-missing placeholder is written and false is returned.
func (s *Server) servePostContainer(c *gin.Context, w *widget.Widget, slug string) bool {
	if s.deps.Blog == nil {
		s.fail(c, apperrors.NotFound("blog"))
		return false
	}
	post, found := s.deps.Blog.Get(slug)
	if !found {
		s.fail(c, apperrors.NotFound("post "+slug))
		return false
	}
	err := w.CheckPage(post.Page())
	if err == nil {
		return true
	}
	s.log.Warn("%s requested by post %s: %v", w.Kind, slug, err)
	width := w.Snapshot().Width
	if width <= 0 {
		width = defaultWidth
	}
	c.Header("X-Chart-Error", apperrors.GetCode(err))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", w.Placeholder(width, err))
	return false
}

func (s *Server) handleChartState(c *gin.Context) {
	w, ok := s.widgetFor(c, c.Param("kind"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(w.Snapshot()))
}

func (s *Server) handleInspect(c *gin.Context) {
	w, ok := s.widgetFor(c, c.Param("kind"))
	if !ok {
		return
	}
	var req pointerRequest
	if err := c.ShouldBind(&req); err != nil {
		s.fail(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	c.JSON(http.StatusOK, w.Inspect(*req.X, *req.Y))
}

func (s *Server) handleLeave(c *gin.Context) {
	w, ok := s.widgetFor(c, c.Param("kind"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Leave())
}

func (s *Server) handleSelectFeature(c *gin.Context) {
	w, ok := s.widgetFor(c, c.Param("kind"))
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		s.fail(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	if err := w.SelectFeature(req.Feature); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stateOf(w.Snapshot()))
}

// handleResize hands the new container width to the reflow, which rebuilds every
// chart once the resize burst has gone quiet.
func (s *Server) handleResize(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBind(&req); err != nil {
		s.fail(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	if s.deps.Reflow == nil {
		if s.deps.Registry == nil {
			s.fail(c, apperrors.NotFound("charts"))
			return
		}
		err := s.deps.Registry.Rebuild(c.Request.Context(), req.Width)
		c.JSON(http.StatusOK, gin.H{"width": req.Width, "rebuilt": true, "ok": err == nil})
		return
	}
	s.deps.Reflow.OnResize(req.Width)
	c.JSON(http.StatusAccepted, gin.H{"width": req.Width, "scheduled": true})
}
