package present

import (
	"errors"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/EmpoweredVote/attendance-monitor/internal/aggregate"
)

// ErrEmptyChart is returned when a trend has no rows to draw.
var ErrEmptyChart = errors.New("trend has no rows")

// TrendTitle is the chart heading, with the participant total in English number format.
func TrendTitle(t aggregate.Trend) string {
	total := 0
	for _, r := range t.Rows {
		total += r.Participants
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s (%d participants)", t.Indicator, total)
}

// RenderTrendPNG draws the trend as a PNG. Single-key indicators become a bar
// per year; other indicators stack their secondary values inside each year's bar.
func RenderTrendPNG(w io.Writer, t aggregate.Trend) error {
	if len(t.Rows) == 0 {
		return ErrEmptyChart
	}

	if t.Secondary == "" {
		c := chart.BarChart{
			Title:    TrendTitle(t),
			Height:   480,
			Width:    960,
			BarWidth: 60,
			Background: chart.Style{
				Padding: chart.Box{Top: 48},
			},
		}
		top := 1.0
		for _, r := range t.Rows {
			c.Bars = append(c.Bars, chart.Value{Label: strconv.Itoa(r.Year), Value: float64(r.Participants)})
			if float64(r.Participants) > top {
				top = float64(r.Participants)
			}
		}
		// Anchor the axis at zero; the default range starts at the smallest bar.
		c.YAxis = chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}}
		return c.Render(chart.PNG, w)
	}

	groups := t.Groups()
	c := chart.StackedBarChart{
		Title:      TrendTitle(t),
		Height:     480,
		Width:      960,
		BarSpacing: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 48},
		},
	}
	for _, year := range t.Years() {
		bar := chart.StackedBar{Name: strconv.Itoa(year)}
		// Every bar carries every group so segment colours line up across years.
		for _, g := range groups {
			bar.Values = append(bar.Values, chart.Value{Label: g, Value: float64(participants(t, year, g))})
		}
		c.Bars = append(c.Bars, bar)
	}
	return c.Render(chart.PNG, w)
}

func participants(t aggregate.Trend, year int, group string) int {
	for _, r := range t.Rows {
		if r.Year == year && r.Group == group {
			return r.Participants
		}
	}
	return 0
}
