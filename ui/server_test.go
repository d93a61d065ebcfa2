package ui

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chartfolio/adapters/datahost"
	"chartfolio/adapters/loader"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "letmein"

type fixture struct {
	srv      *Server
	registry *widget.Registry
	reflow   *reflow.Reflow
	hub      *api.SSEHub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := widget.NewMetrics()
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(metrics)

	b, err := blog.Load()
	require.NoError(t, err)

	ld := loader.New(&loader.FSSource{FS: datahost.Fixtures(), Prefix: datahost.Prefix})
	reg := widget.NewRegistry(ld, widget.Options{
		DataPrefix: datahost.Prefix,
		Theme:      render.Dark,
		Metrics:    metrics,
		Page:       b.Page(),
	})
	rfl := reflow.New(reg.Rebuild, 10*time.Millisecond)
	hub := api.NewSSEHub()
	t.Cleanup(func() {
		rfl.Close()
		hub.Close()
	})

	planner, err := calendar.Load("planner")
	require.NoError(t, err)
	classic, err := calendar.Load("classic")
	require.NoError(t, err)
	pf, err := portfolio.Load()
	require.NoError(t, err)

	srv, err := NewServer(Deps{
		Registry:  reg,
		Reflow:    rfl,
		Hub:       hub,
		Blog:      b,
		Calendars: []*calendar.Calendar{planner, classic},
		Gate:      gate.New(testPassword, gate.NewStore(time.Hour)),
		Portfolio: pf,
		Data:      datahost.New(datahost.Fixtures()).Handler(),
		Gatherer:  promReg,
		Theme:     render.Dark,
		Now:       func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return &fixture{srv: srv, registry: reg, reflow: rfl, hub: hub}
}

func (f *fixture) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	switch {
	case strings.HasPrefix(body, "{"):
		req.Header.Set("Content-Type", "application/json")
	case body != "":
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestIndexAndBlogPages(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fraud Detection System")
	assert.Contains(t, rec.Body.String(), `/projects/project1.svg`)
	assert.Contains(t, rec.Body.String(), `/blog/churn-survival`)

	rec = f.do(http.MethodGet, "/blog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "simple-trendline")

	rec = f.do(http.MethodGet, "/blog/churn-survival", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="survival-curve"`)
	assert.Contains(t, rec.Body.String(), `id="feature-viz"`)
	assert.Contains(t, rec.Body.String(), `/static/charts.js`)
	assert.Contains(t, rec.Body.String(), `data-post="churn-survival"`)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `<select class="feature-select" data-for="feature-viz"`))

	rec = f.do(http.MethodGet, "/blog/no-such-post", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectChart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/projects/project3.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, 4, strings.Count(rec.Body.String(), `class="bar"`))

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/projects/project9.svg", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/projects/project1.png", "").Code)
}

func TestChartSVG(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/charts/anomaly.svg?width=800", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "chart-anomaly")
	assert.Empty(t, rec.Header().Get("X-Chart-Error"))

	w, err := f.registry.Get(widget.Anomaly)
	require.NoError(t, err)
	assert.Equal(t, 800.0, w.Snapshot().Width)

	rec = f.do(http.MethodGet, "/charts/pie.svg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "NOT_FOUND", body["code"])

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/charts/anomaly.svg?width=-3", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/charts/anomaly.png", "").Code)
}

func TestChartSVGForPost(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/charts/survival.svg?width=800&post=churn-survival", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Chart-Error"))
	assert.Contains(t, rec.Body.String(), "chart-survival")

	rec = f.do(http.MethodGet, "/charts/anomaly.svg?post=churn-survival", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONTAINER_MISSING", rec.Header().Get("X-Chart-Error"))
	assert.Contains(t, rec.Body.String(), "Error loading visualization data")
	assert.Contains(t, rec.Body.String(), "#anomaly-viz")

	// The shared widget is untouched by a page that cannot show it.
	anomaly, err := f.registry.Get(widget.Anomaly)
	require.NoError(t, err)
	assert.True(t, anomaly.Snapshot().BuiltAt.IsZero())

	rec = f.do(http.MethodGet, "/charts/anomaly.svg?post=no-such-post", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInspectAndLeave(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/charts/anomaly.svg?width=1000", "").Code)

	rec := f.do(http.MethodPost, "/api/charts/anomaly/inspect", `{"x": 0, "y": 10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res struct {
		Focus struct {
			Index   int  `json:"index"`
			Visible bool `json:"visible"`
		} `json:"focus"`
		Marker  *struct{ X, Y float64 } `json:"marker"`
		Tooltip *struct {
			Lines []struct{ Label, Value string } `json:"lines"`
		} `json:"tooltip"`
	}
	decode(t, rec, &res)
	assert.True(t, res.Focus.Visible)
	assert.Equal(t, 0, res.Focus.Index)
	require.NotNil(t, res.Marker)
	require.NotNil(t, res.Tooltip)
	assert.Equal(t, "12:00:00", res.Tooltip.Lines[0].Value)

	rec = f.do(http.MethodPost, "/api/charts/anomaly/inspect", `{"x": 5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/charts/anomaly/inspect", "x=NaN&y=10")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res.Marker, res.Tooltip = nil, nil
	decode(t, rec, &res)
	assert.False(t, res.Focus.Visible)
	assert.Nil(t, res.Marker)

	rec = f.do(http.MethodPost, "/api/charts/anomaly/leave", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res.Marker, res.Tooltip = nil, nil
	decode(t, rec, &res)
	assert.False(t, res.Focus.Visible)
	assert.Equal(t, -1, res.Focus.Index)
	assert.Nil(t, res.Marker)
}

func TestSelectFeature(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/charts/features.svg?width=900", "").Code)

	rec := f.do(http.MethodPost, "/api/charts/features/select", `{"feature": "page_views"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var st chartState
	decode(t, rec, &st)
	assert.Equal(t, "page_views", st.Selected)
	assert.Equal(t, []string{"session_duration", "page_views", "purchase_amount", "days_since_signup", "support_tickets"}, st.Options)

	rec = f.do(http.MethodGet, "/api/charts/features", "")
	decode(t, rec, &st)
	assert.Equal(t, "page_views", st.Selected)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/charts/features/select", `{"feature": "height"}`).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/charts/anomaly/select", `{"feature": "page_views"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/charts/features/select", `{}`).Code)
}

func TestResizeSchedulesRebuild(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/resize", `{"width": 0}`).Code)

	for _, w := range []string{"500", "600", "700"} {
		rec := f.do(http.MethodPost, "/api/resize", `{"width": `+w+`}`)
		require.Equal(t, http.StatusAccepted, rec.Code)
	}
	anomaly, _ := f.registry.Get(widget.Anomaly)
	require.Eventually(t, func() bool { return anomaly.Snapshot().Width == 700 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 700.0, f.reflow.Width())

	// Scatter keeps its fixed layout whatever the container width.
	scatter, _ := f.registry.Get(widget.Scatter)
	assert.Equal(t, render.ScatterLayout(), scatter.Snapshot().Drawing.Layout)
}

func loginCookie(t *testing.T, f *fixture) *http.Cookie {
	t.Helper()
	form := url.Values{"password": {testPassword}}.Encode()
	rec := f.do(http.MethodPost, "/calendar/login", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/calendar", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == gate.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestCalendarGate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/calendar", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/calendar/login", rec.Header().Get("Location"))

	rec = f.do(http.MethodPost, "/calendar/login", url.Values{"password": {"nope"}}.Encode())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect password")

	cookie := loginCookie(t, f)
	rec = f.do(http.MethodGet, "/calendar", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="today"`)
	assert.Contains(t, rec.Body.String(), "Bday")

	rec = f.do(http.MethodGet, "/calendar/login", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = f.do(http.MethodPost, "/calendar/logout", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = f.do(http.MethodGet, "/calendar", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestCalendarDrift(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/calendar/drift", "").Code)

	rec := f.do(http.MethodGet, "/calendar/drift", "", loginCookie(t, f))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Left        string                `json:"left"`
		Right       string                `json:"right"`
		Differences []calendar.Difference `json:"differences"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "planner", body.Left)
	assert.Equal(t, "classic", body.Right)

	fields := map[string]string{}
	for _, d := range body.Differences {
		fields[d.Date] = d.Field
	}
	assert.Equal(t, "color", fields["2025-07-11"])
	assert.NotContains(t, fields, "2025-01-20")
}

func TestDataAndMetricsRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/blog/data/anomaly.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), "api_metrics")

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/blog/data/missing.json", "").Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/charts/scatter.svg", "").Code)
	rec = f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chartfolio_widget_rebuilds_total{kind="scatter",result="ok"} 1`)
}

func TestPumpBroadcastsRebuilds(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.srv.Pump(ctx)

	ts := httptest.NewServer(f.srv.Handler())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/api/stream?kind=survival")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return f.hub.GetClientCount("survival") == 1 }, 2*time.Second, 10*time.Millisecond)

	// Pump subscribes asynchronously; keep rebuilding until an event arrives.
	got := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, "data:") {
				got <- line
				return
			}
		}
	}()
	deadline := time.After(3 * time.Second)
	for {
		require.NoError(t, f.reflow.Now(640))
		select {
		case line := <-got:
			assert.Contains(t, line, `"kind":"survival"`)
			assert.Contains(t, line, `"width":640`)
			assert.Contains(t, line, `"reason":"initial"`)
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("no rebuild event received")
		}
	}
}
