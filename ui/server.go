package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"chartfolio/internal"
	"chartfolio/internal/api"
	"chartfolio/internal/blog"
	"chartfolio/internal/calendar"
	"chartfolio/internal/gate"
	"chartfolio/internal/portfolio"
	"chartfolio/internal/reflow"
	"chartfolio/internal/render"
	"chartfolio/internal/widget"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Deps are the services the site is assembled from. Blog, Calendars and
// Portfolio may be nil; their pages then answer 404.
type Deps struct {
	Registry  *widget.Registry
	Reflow    *reflow.Reflow
	Hub       *api.SSEHub
	Blog      *blog.Blog
	Calendars []*calendar.Calendar // the first is shown, the second is the drift reference
	Gate      *gate.Gate
	Portfolio *portfolio.Portfolio
	Data      http.Handler // serves /blog/data/
	Gatherer  prometheus.Gatherer
	Theme     render.Theme
	Logger    *internal.Logger
	Now       func() time.Time
}

// Server represents the web server for the blog, its charts and the calendar
type Server struct {
	router    *gin.Engine
	templates *template.Template
	deps      Deps
	log       *internal.Logger
}

// NewServer parses the templates and registers every route
func NewServer(d Deps) (*Server, error) {
	if d.Logger == nil {
		d.Logger = internal.DefaultLogger
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Gate == nil {
		d.Gate = gate.New("", nil)
	}
	if d.Theme.Name == "" {
		d.Theme = render.Dark
	}

	funcMap := template.FuncMap{
		"date": func(t time.Time) string { return t.Format("January 2, 2006") },
		"svg":  func(b []byte) template.HTML { return template.HTML(b) },
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		templates: tmpl,
		deps:      d,
		log:       d.Logger.For("Server"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.log.Error("static filesystem: %v", err)
	} else {
		s.router.StaticFS("/static", http.FS(staticFS))
	}

	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/projects/:file", s.handleProjectChart)

	s.router.GET("/blog", s.handleBlogIndex)
	s.router.GET("/blog/:slug", s.handlePost)
	if s.deps.Data != nil {
		data := gin.WrapH(s.deps.Data)
		s.router.GET("/blog/data/*name", data)
		s.router.HEAD("/blog/data/*name", data)
	}

	s.router.GET("/charts/:file", s.handleChartSVG)
	charts := s.router.Group("/api/charts")
	{
		charts.GET("/:kind", s.handleChartState)
		charts.POST("/:kind/inspect", s.handleInspect)
		charts.POST("/:kind/leave", s.handleLeave)
		charts.POST("/:kind/select", s.handleSelectFeature)
	}
	s.router.POST("/api/resize", s.handleResize)
	if s.deps.Hub != nil {
		s.router.GET("/api/stream", s.deps.Hub.HandleSSE)
	}

	cal := s.router.Group("/calendar", s.session())
	{
		cal.GET("", s.handleCalendar)
		cal.GET("/login", s.handleLoginForm)
		cal.POST("/login", s.handleLogin)
		cal.POST("/logout", s.handleLogout)
		cal.GET("/drift", s.handleDrift)
	}

	if s.deps.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}
}

// Pump forwards rebuild events from the reflow to the SSE hub, one event per chart,
// until ctx is done or the reflow is closed.
func (s *Server) Pump(ctx context.Context) {
	if s.deps.Reflow == nil || s.deps.Hub == nil || s.deps.Registry == nil {
		return
	}
	events, release := s.deps.Reflow.Subscribe()
	defer release()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			for _, w := range s.deps.Registry.Widgets() {
				snap := w.Snapshot()
				ce := api.ChartEvent{
					Kind:      w.Kind.String(),
					EventType: "rebuild",
					Seq:       ev.Seq,
					Width:     snap.Width,
					Reason:    ev.Reason,
					Timestamp: ev.At,
				}
				if snap.Err != nil {
					ce.Error = snap.Err.Error()
				}
				s.deps.Hub.Broadcast(ce)
			}
		}
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
