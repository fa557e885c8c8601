// Package present translates aggregates into the chart and table specifications the
// dashboard page renders. Figures follow the Plotly JSON figure schema.
package present

import (
	"github.com/EmpoweredVote/attendance-monitor/internal/aggregate"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
)

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []any        `json:"data"`
	Layout FigureLayout `json:"layout"`
}

type FigureLayout struct {
	Mapbox  *Mapbox `json:"mapbox,omitempty"`
	BarMode string  `json:"barmode,omitempty"`
	XAxis   *Axis   `json:"xaxis,omitempty"`
	YAxis   *Axis   `json:"yaxis,omitempty"`
	Legend  *Legend `json:"legend,omitempty"`
	Margin  Margin  `json:"margin"`
}

type Mapbox struct {
	Style  string  `json:"style"`
	Center LatLon  `json:"center"`
	Zoom   float64 `json:"zoom"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title    Text   `json:"title"`
	TickMode string `json:"tickmode,omitempty"`
	TickVals []int  `json:"tickvals,omitempty"`
}

type Legend struct {
	Title Text `json:"title"`
}

type Text struct {
	Text string `json:"text"`
}

type Marker struct {
	Opacity float64 `json:"opacity"`
}

type ColorBar struct {
	Title Text `json:"title"`
}

// ChoroplethTrace is a choroplethmapbox trace matching locations to features.
type ChoroplethTrace struct {
	Type          string   `json:"type"`
	GeoJSON       string   `json:"geojson"`
	FeatureIDKey  string   `json:"featureidkey"`
	Locations     []string `json:"locations"`
	Z             []int    `json:"z"`
	ColorScale    string   `json:"colorscale"`
	ColorBar      ColorBar `json:"colorbar"`
	Marker        Marker   `json:"marker"`
	HoverTemplate string   `json:"hovertemplate"`
}

// BarTrace is one bar series.
type BarTrace struct {
	Type          string `json:"type"`
	Name          string `json:"name,omitempty"`
	X             []int  `json:"x"`
	Y             []int  `json:"y"`
	HoverTemplate string `json:"hovertemplate"`
}

// MapFigure builds the choropleth for one level. boundaryURL is where the page
// fetches the level's boundary document from.
func MapFigure(level geo.Level, rows []aggregate.MapRow, boundaryURL string, l MapLayout) Figure {
	trace := ChoroplethTrace{
		Type:          "choroplethmapbox",
		GeoJSON:       boundaryURL,
		FeatureIDKey:  level.FeatureKey(),
		Locations:     make([]string, 0, len(rows)),
		Z:             make([]int, 0, len(rows)),
		ColorScale:    l.ColorScale,
		ColorBar:      ColorBar{Title: Text{Text: "Attendances"}},
		Marker:        Marker{Opacity: l.Opacity},
		HoverTemplate: string(level) + "=%{location}<br>Attendances=%{z}<extra></extra>",
	}
	for _, r := range rows {
		trace.Locations = append(trace.Locations, r.Name)
		trace.Z = append(trace.Z, r.Attendances)
	}

	return Figure{
		Data: []any{trace},
		Layout: FigureLayout{
			Mapbox: &Mapbox{
				Style:  l.Style,
				Center: LatLon{Lat: l.CenterLat, Lon: l.CenterLon},
				Zoom:   l.Zoom,
			},
		},
	}
}

// TrendFigure builds the participants bar chart. A single-key indicator gives
// one series keyed by year; otherwise each secondary value is its own series,
// grouped side by side.
func TrendFigure(t aggregate.Trend) Figure {
	years := t.Years()
	fig := Figure{
		Layout: FigureLayout{
			XAxis:  &Axis{Title: Text{Text: string(aggregate.DimYear)}, TickMode: "array", TickVals: years},
			YAxis:  &Axis{Title: Text{Text: "Participants"}},
			Margin: Margin{L: 40, R: 20, T: 20, B: 40},
		},
	}
	if fig.Layout.XAxis.TickVals == nil {
		fig.Layout.XAxis.TickVals = []int{}
	}

	if t.Secondary == "" {
		bar := BarTrace{
			Type:          "bar",
			X:             make([]int, 0, len(t.Rows)),
			Y:             make([]int, 0, len(t.Rows)),
			HoverTemplate: "Year=%{x}<br>Participants=%{y}<extra></extra>",
		}
		for _, r := range t.Rows {
			bar.X = append(bar.X, r.Year)
			bar.Y = append(bar.Y, r.Participants)
		}
		fig.Data = []any{bar}
		return fig
	}

	fig.Layout.BarMode = "group"
	fig.Layout.Legend = &Legend{Title: Text{Text: string(t.Secondary)}}
	fig.Data = []any{}
	for _, g := range t.Groups() {
		bar := BarTrace{
			Type:          "bar",
			Name:          g,
			X:             []int{},
			Y:             []int{},
			HoverTemplate: string(t.Secondary) + "=" + g + "<br>Year=%{x}<br>Participants=%{y}<extra></extra>",
		}
		for _, r := range t.Rows {
			if r.Group == g {
				bar.X = append(bar.X, r.Year)
				bar.Y = append(bar.Y, r.Participants)
			}
		}
		fig.Data = append(fig.Data, bar)
	}
	return fig
}
