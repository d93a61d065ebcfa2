package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"chartfolio/internal/config"
	"chartfolio/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", GinMode: "test"},
		Charts: config.ChartConfig{
			Theme:        "dark",
			Debounce:     10 * time.Millisecond,
			DefaultWidth: 800,
			Parallelism:  2,
		},
		Calendar: config.CalendarConfig{Table: "classic", SessionTTL: time.Hour},
	}
}

func TestNewWiresEmbeddedContent(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)

	require.Len(t, c.Calendars, 2)
	assert.Equal(t, "classic", c.Calendars[0].Name)
	assert.Equal(t, "planner", c.Calendars[1].Name)
	assert.False(t, c.Gate.Enabled())
	assert.Nil(t, c.Watcher)
	assert.Len(t, c.Registry.Widgets(), len(widget.AllKinds))

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	for _, w := range c.Registry.Widgets() {
		snap := w.Snapshot()
		assert.NoError(t, snap.Err, w.Kind)
		assert.False(t, snap.BuiltAt.IsZero(), w.Kind)
	}
	assert.Equal(t, 800.0, c.Reflow.Width())

	families, err := c.Prometheus.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["chartfolio_widget_rebuilds_total"])

	require.NoError(t, c.Shutdown(ctx))
	require.NoError(t, c.Shutdown(ctx))
}

func TestDataDirectoryAndWatch(t *testing.T) {
	dir := t.TempDir()
	csv := "X,Y\n1,2\n2,4\n3,7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.csv"), []byte(csv), 0o644))

	cfg := testConfig()
	cfg.Data.Dir = dir
	cfg.Data.Watch = true

	c, err := New(cfg)
	require.NoError(t, err)
	require.NotNil(t, c.Watcher)
	require.NoError(t, c.Start(context.Background()))
	defer c.Shutdown(context.Background())

	scatter, err := c.Registry.Get(widget.Scatter)
	require.NoError(t, err)
	assert.NoError(t, scatter.Snapshot().Err)

	// The directory has no anomaly.json, so that chart shows its placeholder.
	anomaly, _ := c.Registry.Get(widget.Anomaly)
	assert.Error(t, anomaly.Snapshot().Err)
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	cfg := testConfig()
	cfg.Data.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := New(cfg)
	assert.Error(t, err)

	_, err = New(nil)
	assert.Error(t, err)
}
