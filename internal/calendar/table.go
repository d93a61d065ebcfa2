// Package calendar renders the two-year event calendar from static event tables.
package calendar

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"chartfolio/domain/core"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFiles embed.FS

// Event is one labelled cell entry. Text is a trusted HTML fragment from the table file.
type Event struct {
	Text  template.HTML `json:"text"`
	Color string        `json:"color"`
}

// Label is the event text with markup removed.
func (e Event) Label() string {
	s := strings.ReplaceAll(string(e.Text), "<br>", " ")
	return strings.TrimSpace(s)
}

// Style is the inline background declaration for the event box.
func (e Event) Style() template.CSS {
	return template.CSS("background-color: " + e.Color)
}

// Table maps ISO dates (YYYY-MM-DD) to events.
type Table map[string]Event

// Dates returns the table's dates in order.
func (t Table) Dates() []string {
	out := make([]string, 0, len(t))
	for d := range t {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Calendar is one parsed event table file.
type Calendar struct {
	Name     string
	Years    []int
	Palette  map[string]string
	Events   Table
	Holidays Table
	// Overridden lists dates defined more than once; the later definition is kept.
	Overridden []string
}

type tableFile struct {
	Name     string            `yaml:"name"`
	Years    []int             `yaml:"years"`
	Palette  map[string]string `yaml:"palette"`
	Events   []entry           `yaml:"events"`
	Holidays []entry           `yaml:"holidays"`
}

type entry struct {
	Date  string `yaml:"date"`
	Text  string `yaml:"text"`
	Color string `yaml:"color"`
}

// Names lists the embedded tables.
func Names() []string {
	entries, err := tableFiles.ReadDir("tables")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Load parses an embedded table by name ("planner" or "classic").
func Load(name string) (*Calendar, error) {
	b, err := tableFiles.ReadFile("tables/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown calendar %q: %w", name, err)
	}
	return Parse(b)
}

// Parse decodes a table file. Colours may be palette names or literal CSS colours.
func Parse(b []byte) (*Calendar, error) {
	var f tableFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if len(f.Years) == 0 {
		return nil, fmt.Errorf("calendar %q lists no years", f.Name)
	}
	c := &Calendar{Name: f.Name, Years: f.Years, Palette: f.Palette}

	var err error
	if c.Events, err = c.table(f.Events); err != nil {
		return nil, err
	}
	if c.Holidays, err = c.table(f.Holidays); err != nil {
		return nil, err
	}
	if len(c.Overridden) > 0 {
		log.Printf("[Calendar] %s: dates defined twice, later entry kept: %s", c.Name, strings.Join(c.Overridden, ", "))
	}
	return c, nil
}

func (c *Calendar) table(entries []entry) (Table, error) {
	t := make(Table, len(entries))
	for _, e := range entries {
		ts, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, fmt.Errorf("calendar %q: bad date %q: %w", c.Name, e.Date, err)
		}
		key := core.DateKey(ts.Year(), ts.Month(), ts.Day())
		if _, dup := t[key]; dup {
			c.Overridden = append(c.Overridden, key)
		}
		t[key] = Event{Text: template.HTML(e.Text), Color: c.color(e.Color)}
	}
	return t, nil
}

func (c *Calendar) color(name string) string {
	if v, ok := c.Palette[name]; ok {
		return v
	}
	return name
}

// Config returns the render configuration for this table as seen on today.
func (c *Calendar) Config(today time.Time) Config {
	return Config{Years: c.Years, Events: c.Events, Holidays: c.Holidays, Today: today}
}
