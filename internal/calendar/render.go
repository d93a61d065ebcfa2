package calendar

import (
	"bytes"
	"html/template"
	"time"

	"chartfolio/domain/core"
)

// Config is everything Render needs. Nothing is read from package state.
type Config struct {
	Years    []int
	Events   Table
	Holidays Table
	Today    time.Time
}

// Cell is one day, or an empty padding cell when Day is 0.
type Cell struct {
	Day     int
	Date    string
	Today   bool
	Past    bool
	Entries []Event // holiday first, then event
}

// Empty reports whether the cell pads the grid.
func (c Cell) Empty() bool { return c.Day == 0 }

// Class is the td class list.
func (c Cell) Class() string {
	switch {
	case c.Empty():
		return "empty"
	case c.Today:
		return "today"
	case c.Past:
		return "past-date"
	}
	return ""
}

// Month is a Sunday-first grid of weeks.
type Month struct {
	Name  string
	Year  int
	Weeks [][7]Cell
}

// Year groups twelve months.
type Year struct {
	Year   int
	Months []Month
}

// Weekdays are the grid column headers.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Grid lays out every configured year.
func Grid(cfg Config) []Year {
	today := dayStart(cfg.Today)
	years := make([]Year, 0, len(cfg.Years))
	for _, y := range cfg.Years {
		yr := Year{Year: y}
		for m := time.January; m <= time.December; m++ {
			yr.Months = append(yr.Months, month(cfg, y, m, today))
		}
		years = append(years, yr)
	}
	return years
}

func month(cfg Config, year int, m time.Month, today time.Time) Month {
	first := time.Date(year, m, 1, 0, 0, 0, 0, today.Location())
	days := time.Date(year, m+1, 0, 0, 0, 0, 0, today.Location()).Day()
	lead := int(first.Weekday())
	weeks := (lead + days + 6) / 7

	out := Month{Name: m.String(), Year: year, Weeks: make([][7]Cell, weeks)}
	day := 1
	for w := 0; w < weeks; w++ {
		for dow := 0; dow < 7; dow++ {
			if (w == 0 && dow < lead) || day > days {
				continue
			}
			date := time.Date(year, m, day, 0, 0, 0, 0, today.Location())
			key := core.DateKey(year, m, day)
			c := Cell{Day: day, Date: key, Today: date.Equal(today), Past: date.Before(today)}
			if h, ok := cfg.Holidays[key]; ok {
				c.Entries = append(c.Entries, h)
			}
			if e, ok := cfg.Events[key]; ok {
				c.Entries = append(c.Entries, e)
			}
			out.Weeks[w][dow] = c
			day++
		}
	}
	return out
}

func dayStart(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var gridTemplate = template.Must(template.New("calendar").Parse(`
{{- range .Years}}<div class="year-section"><h2 class="year-title">{{.Year}}</h2><div class="months-grid">
{{- range .Months}}<div class="month"><div class="month-title">{{.Name}} {{.Year}}</div><table><tr>
{{- range $.Weekdays}}<th>{{.}}</th>{{end}}</tr>
{{- range .Weeks}}<tr>{{range .}}
{{- if .Empty}}<td class="empty"></td>
{{- else}}<td class="{{.Class}}"><div class="date">{{.Day}}</div>
{{- if .Entries}}<div class="event-container">{{range .Entries}}<div class="event" style="{{.Style}}">{{.Text}}</div>{{end}}</div>{{end -}}
</td>{{end}}{{end}}</tr>{{end -}}
</table></div>{{end -}}
</div></div>{{end}}`))

// Render produces the calendar markup for cfg.
func Render(cfg Config) (template.HTML, error) {
	var buf bytes.Buffer
	data := struct {
		Years    []Year
		Weekdays [7]string
	}{Grid(cfg), Weekdays}
	if err := gridTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
