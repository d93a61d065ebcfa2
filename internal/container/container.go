package container

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"chartfolio/adapters/datahost"
	"chartfolio/adapters/loader"
	"chartfolio/internal"
	"chartfolio/internal/api"
	"chartfolio/internal/blog"
	"chartfolio/internal/calendar"
	"chartfolio/internal/config"
	"chartfolio/internal/errors"
	"chartfolio/internal/gate"
	"chartfolio/internal/portfolio"
	"chartfolio/internal/reflow"
	"chartfolio/internal/render"
	"chartfolio/internal/widget"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// sweepInterval is how often expired calendar sessions are dropped.
const sweepInterval = 10 * time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data documents
	Files    fs.FS
	DataHost *datahost.Host
	Loader   *loader.Loader

	// Charts
	Metrics    *widget.Metrics
	Prometheus *prometheus.Registry
	Registry   *widget.Registry
	Reflow     *reflow.Reflow
	Watcher    *reflow.Watcher // nil unless DATA_WATCH is set
	SSEHub     *api.SSEHub

	// Pages
	Blog      *blog.Blog
	Calendars []*calendar.Calendar
	Gate      *gate.Gate
	Portfolio *portfolio.Portfolio

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates and wires every component. Nothing runs until Start.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.DefaultLogger,
		stop:   make(chan struct{}),
	}

	if err := c.initData(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize data documents")
	}
	if err := c.initPages(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize pages")
	}
	if err := c.initCharts(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize charts")
	}

	log.Printf("Container initialized: %d charts, %d posts, calendar %q",
		len(c.Registry.Widgets()), len(c.Blog.Posts()), c.Calendars[0].Name)
	return c, nil
}

// initData picks where chart documents are read from and what /blog/data/ serves
func (c *Container) initData() error {
	files, err := datahost.Open(c.Config.Data.Dir)
	if err != nil {
		return err
	}
	c.Files = files
	c.DataHost = datahost.New(files)

	if c.Config.Data.BaseURL != "" {
		log.Printf("Reading chart data from %s", c.Config.Data.BaseURL)
		c.Loader = loader.New(&loader.HTTPSource{
			Client:  &http.Client{},
			BaseURL: c.Config.Data.BaseURL + "/",
			Timeout: c.Config.Data.Timeout,
		})
		return nil
	}
	c.Loader = loader.New(&loader.FSSource{FS: files, Prefix: datahost.Prefix})
	return nil
}

// initCharts builds the widget registry, its reflow and the metrics they report to.
// Charts no post places a container for fail with CONTAINER_MISSING.
func (c *Container) initCharts() error {
	c.Metrics = widget.NewMetrics()
	c.Prometheus = prometheus.NewRegistry()
	c.Prometheus.MustRegister(
		c.Metrics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.Registry = widget.NewRegistry(c.Loader, widget.Options{
		DataPrefix:  datahost.Prefix,
		Theme:       render.ThemeByName(c.Config.Charts.Theme),
		Metrics:     c.Metrics,
		Page:        c.Blog.Page(),
		Parallelism: c.Config.Charts.Parallelism,
	})
	c.Reflow = reflow.New(c.Registry.Rebuild, c.Config.Charts.Debounce)
	c.SSEHub = api.NewSSEHub()

	if c.Config.Data.Watch {
		w, err := reflow.NewWatcher(c.Config.Data.Dir, c.Reflow)
		if err != nil {
			return errors.Wrap(err, "failed to watch data directory")
		}
		c.Watcher = w
	}
	return nil
}

// initPages loads the embedded blog, calendar tables and portfolio
func (c *Container) initPages() error {
	var err error
	if c.Blog, err = blog.Load(); err != nil {
		return err
	}
	if c.Portfolio, err = portfolio.Load(); err != nil {
		return err
	}

	// The configured table is shown; the other one is kept as the drift reference.
	names := []string{c.Config.Calendar.Table}
	for _, n := range calendar.Names() {
		if n != c.Config.Calendar.Table {
			names = append(names, n)
		}
	}
	for _, n := range names {
		cal, err := calendar.Load(n)
		if err != nil {
			return err
		}
		c.Calendars = append(c.Calendars, cal)
	}

	c.Gate = gate.New(c.Config.Calendar.Password, gate.NewStore(c.Config.Calendar.SessionTTL))
	if !c.Gate.Enabled() {
		log.Printf("CALENDAR_PASSWORD is empty, the calendar page is open")
	}
	return nil
}

// Start draws every chart once at the default width, then starts the data watcher
// and the session sweeper. Chart failures are logged, not returned.
func (c *Container) Start(ctx context.Context) error {
	if err := c.Reflow.Now(c.Config.Charts.DefaultWidth); err != nil {
		c.Logger.For("Container").Warn("initial chart build: %v", err)
	}
	if c.Watcher != nil {
		if err := c.Watcher.Start(ctx); err != nil {
			return errors.Wrap(err, "failed to start data watcher")
		}
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				if n := c.Gate.Store().Sweep(); n > 0 {
					c.Logger.For("Container").Debug("swept %d expired sessions", n)
				}
			}
		}
	}()
	return nil
}

// Shutdown stops background work in dependency order
func (c *Container) Shutdown(ctx context.Context) error {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.Watcher != nil {
		c.Watcher.Stop()
	}

	done := make(chan struct{})
	go func() {
		c.Reflow.Close()
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.SSEHub.Close()
	log.Printf("Container shutdown complete")
	return nil
}
