package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/EmpoweredVote/attendance-monitor/internal/aggregate"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
	"github.com/EmpoweredVote/attendance-monitor/internal/present"
)

// Defaults of the three selectors.
const (
	DefaultLevel     = geo.Subcounty
	DefaultIndicator = aggregate.Overall
)

var ErrBadYear = errors.New("year must be an integer")

// Selection is the dashboard's only reactive state.
type Selection struct {
	Level     geo.Level           `json:"level"`
	Year      int                 `json:"year"`
	Indicator aggregate.Indicator `json:"indicator"`
}

// Figures is everything a selection change redraws.
type Figures struct {
	Selection Selection      `json:"selection"`
	Map       present.Figure `json:"map"`
	Trend     present.Figure `json:"trend"`
}

// Options lists the selector choices and their defaults.
type Options struct {
	Title      string                `json:"title"`
	Levels     []geo.Level           `json:"levels"`
	Years      []int                 `json:"years"`
	Indicators []aggregate.Indicator `json:"indicators"`
	Default    Selection             `json:"default"`
	Table      present.TableSpec     `json:"table"`
}

// ParseSelection reads level, year and indicator from query parameters; absent
// values take their defaults. A year outside the data is allowed and simply
// selects nothing.
func ParseSelection(v url.Values, maxYear int) (Selection, error) {
	sel := Selection{Level: DefaultLevel, Year: maxYear, Indicator: DefaultIndicator}

	if s := v.Get("level"); s != "" {
		l, err := geo.ParseLevel(s)
		if err != nil {
			return Selection{}, err
		}
		sel.Level = l
	}
	if s := v.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %q", ErrBadYear, s)
		}
		sel.Year = y
	}
	if s := v.Get("indicator"); s != "" {
		ind, err := aggregate.ParseIndicator(s)
		if err != nil {
			return Selection{}, err
		}
		sel.Indicator = ind
	}
	return sel, nil
}
