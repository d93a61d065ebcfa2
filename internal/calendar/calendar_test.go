package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBothTables(t *testing.T) {
	assert.Equal(t, []string{"classic", "planner"}, Names())

	planner, err := Load("planner")
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, planner.Years)
	assert.Empty(t, planner.Holidays)
	assert.Equal(t, []string{"2026-04-20"}, planner.Overridden)
	assert.Equal(t, "Work Perf Eval", planner.Events["2026-04-20"].Label(), "later definition wins")

	classic, err := Load("classic")
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 167, 186)", classic.Holidays["2025-12-25"].Color)
	assert.Empty(t, classic.Overridden)

	_, err = Load("missing")
	assert.Error(t, err)
}

func TestBirthdayCellInBothTables(t *testing.T) {
	today := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for _, name := range []string{"planner", "classic"} {
		t.Run(name, func(t *testing.T) {
			c, err := Load(name)
			require.NoError(t, err)

			bday := c.Palette["bday"]
			require.NotEmpty(t, bday)
			ev, ok := c.Events["2025-07-11"]
			require.True(t, ok)
			assert.Equal(t, "Bday", ev.Label())
			assert.Equal(t, bday, ev.Color)

			html, err := Render(c.Config(today))
			require.NoError(t, err)
			assert.Contains(t, string(html), `<div class="event" style="background-color: `+bday+`">Bday<br><br></div>`)
		})
	}
}

func TestDriftFlagsDivergentCopies(t *testing.T) {
	planner, err := Load("planner")
	require.NoError(t, err)
	classic, err := Load("classic")
	require.NoError(t, err)

	diffs := Drift(planner, classic)
	require.NotEmpty(t, diffs)

	byDate := make(map[string]Difference)
	for _, d := range diffs {
		byDate[d.Date] = d
	}
	assert.Equal(t, "color", byDate["2025-07-11"].Field, "same text, different birthday colour")
	assert.Equal(t, "text", byDate["2025-02-09"].Field, "Super Bowl vs Baseball Complete")
	assert.Equal(t, "missing", byDate["2025-02-15"].Field)
	assert.Nil(t, byDate["2025-02-15"].Right)

	_, flagged := byDate["2025-01-20"]
	assert.False(t, flagged, "MLK day has the same text and colour in both")
	assert.Empty(t, Drift(planner, planner))
}

func TestGridShape(t *testing.T) {
	cfg := Config{Years: []int{2025}, Today: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)}
	years := Grid(cfg)
	require.Len(t, years, 1)
	require.Len(t, years[0].Months, 12)

	// February 2025 starts on a Saturday: six leading empty cells, 28 days, five weeks.
	feb := years[0].Months[1]
	assert.Equal(t, "February", feb.Name)
	require.Len(t, feb.Weeks, 5)
	for dow := 0; dow < 6; dow++ {
		assert.True(t, feb.Weeks[0][dow].Empty())
	}
	assert.Equal(t, 1, feb.Weeks[0][6].Day)
	assert.Equal(t, 28, feb.Weeks[4][5].Day)
	assert.True(t, feb.Weeks[4][6].Empty())

	mar := years[0].Months[2]
	var today, past, future int
	for _, w := range mar.Weeks {
		for _, c := range w {
			switch c.Class() {
			case "today":
				today++
				assert.Equal(t, 10, c.Day)
			case "past-date":
				past++
			case "":
				future++
			}
		}
	}
	assert.Equal(t, 1, today)
	assert.Equal(t, 9, past)
	assert.Equal(t, 21, future)
}

func TestHolidayBeforeEvent(t *testing.T) {
	cfg := Config{
		Years:    []int{2025},
		Holidays: Table{"2025-07-04": {Text: "Independence Day", Color: "red"}},
		Events:   Table{"2025-07-04": {Text: "BBQ", Color: "blue"}},
		Today:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	html, err := Render(cfg)
	require.NoError(t, err)
	s := string(html)
	h := strings.Index(s, "Independence Day")
	e := strings.Index(s, "BBQ")
	require.True(t, h > 0 && e > 0)
	assert.Less(t, h, e)
	assert.Equal(t, 12, strings.Count(s, `class="month"`))
	assert.NotContains(t, s, "past-date", "every date is after today")
}

func TestParseRejectsBadTables(t *testing.T) {
	_, err := Parse([]byte("name: x\nyears: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("name: x\nyears: [2025]\nevents:\n  - {date: \"2025-13-40\", text: a, color: red}\n"))
	assert.Error(t, err)

	c, err := Parse([]byte("name: x\nyears: [2025]\nevents:\n  - {date: \"2025-01-02\", text: a, color: \"#fff\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "#fff", c.Events["2025-01-02"].Color, "literal colours pass through")
}
