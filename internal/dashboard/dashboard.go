package dashboard

import (
	"github.com/EmpoweredVote/attendance-monitor/internal/aggregate"
	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
	"github.com/EmpoweredVote/attendance-monitor/internal/present"
)

// Dashboard is the process-wide state: loaded once, read-only afterward, and
// safe for concurrent handlers.
type Dashboard struct {
	Data       *attendance.Dataset
	Boundaries geo.Set
	Layout     present.Layout
}

// New assembles a dashboard from already loaded inputs.
func New(ds *attendance.Dataset, boundaries geo.Set, layout present.Layout) *Dashboard {
	return &Dashboard{Data: ds, Boundaries: boundaries, Layout: layout}
}

// BoundaryURL is where the page fetches a level's boundary document.
func BoundaryURL(level geo.Level) string {
	return "/api/boundaries/" + string(level)
}

// Update recomputes both outputs for a selection from scratch.
func (d *Dashboard) Update(sel Selection) (Figures, error) {
	mapFig, err := d.MapFigure(sel.Level, sel.Year)
	if err != nil {
		return Figures{}, err
	}
	trendFig, err := d.TrendFigure(sel.Indicator)
	if err != nil {
		return Figures{}, err
	}
	return Figures{Selection: sel, Map: mapFig, Trend: trendFig}, nil
}

func (d *Dashboard) MapFigure(level geo.Level, year int) (present.Figure, error) {
	rows, err := aggregate.Map(d.Data, level, year)
	if err != nil {
		return present.Figure{}, err
	}
	return present.MapFigure(level, rows, BoundaryURL(level), d.mapLayout(level)), nil
}

func (d *Dashboard) mapLayout(level geo.Level) present.MapLayout {
	l := d.Layout.Map
	if !l.AutoCenter {
		return l
	}
	if b, ok := d.Boundaries[level]; ok {
		if lat, lon, ok := b.Center(); ok {
			l.CenterLat, l.CenterLon = lat, lon
		}
	}
	return l
}

func (d *Dashboard) TrendFigure(indicator aggregate.Indicator) (present.Figure, error) {
	t, err := aggregate.ComputeTrend(d.Data, indicator)
	if err != nil {
		return present.Figure{}, err
	}
	return present.TrendFigure(t), nil
}

// Options returns the selector choices for the page.
func (d *Dashboard) Options() Options {
	years := d.Data.Years
	if years == nil {
		years = []int{}
	}
	return Options{
		Title:      d.Layout.Title,
		Levels:     geo.Levels,
		Years:      years,
		Indicators: aggregate.Indicators,
		Default: Selection{
			Level:     DefaultLevel,
			Year:      d.Data.MaxYear(),
			Indicator: DefaultIndicator,
		},
		Table: present.TopAttendeesTable(d.Data.RepeatVisitors, d.Layout.Table.PageSize),
	}
}
