package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderWritesSVG(t *testing.T) {
	out, err := run(t, "render", "survival", "--width", "720")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "chart-survival")

	_, err = run(t, "render", "pie")
	assert.Error(t, err)
}

func TestRenderToFileAndPlaceholder(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "anomaly.svg")

	// An empty directory has no anomaly.json: the placeholder is written and the command fails.
	_, err := run(t, "render", "anomaly", "--data", dir, "--out", target)
	require.Error(t, err)
	b, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Contains(t, string(b), "Error loading visualization data")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "anomaly", "--px", "0", "--py", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "index 0")
	assert.Contains(t, out, "Time: 12:00:00")

	out, err = run(t, "inspect", "anomaly", "--px", "-5", "--py", "10")
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", out)
}

func TestSummarizeCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("height,weight\n1,10\n2,20\n3,30\n4,40\n"), 0o644))

	out, err := run(t, "summarize", path)
	require.NoError(t, err)

	var doc map[string]map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1.0, doc["height"]["min"])
	assert.Equal(t, 40.0, doc["weight"]["max"])
	assert.Less(t, strings.Index(out, `"height"`), strings.Index(out, `"weight"`))
}

func TestCalendarCommands(t *testing.T) {
	out, err := run(t, "calendar", "render", "--table", "classic", "--today", "2025-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, `class="today"`)

	out, err = run(t, "calendar", "drift")
	require.NoError(t, err)
	assert.Contains(t, out, "2025-07-11\tcolor")
	assert.Contains(t, out, "differences between planner and classic")

	_, err = run(t, "calendar", "render", "--today", "March 10")
	assert.Error(t, err)
	_, err = run(t, "calendar", "render", "--table", "lunar")
	assert.Error(t, err)
}
