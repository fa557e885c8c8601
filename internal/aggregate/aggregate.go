// Package aggregate computes the map and trend aggregates behind the dashboard.
// Every function is a pure read of an immutable dataset.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
)

// Dimension is a grouping key of the trend chart.
type Dimension string

const (
	DimYear     Dimension = "Year"
	DimDistrict Dimension = "District"
	DimGender   Dimension = "Gender"
	DimAgeGroup Dimension = "Age Group"
)

// Indicator is a named trend aggregation preset.
type Indicator string

const (
	Overall    Indicator = "Overall Attendance By Year"
	ByDistrict Indicator = "Attendance By Year And District"
	ByGender   Indicator = "Attendance By Year And Gender"
	ByCohort   Indicator = "Attendance By Year And Cohort"
)

// Indicators lists the presets in display order.
var Indicators = []Indicator{Overall, ByDistrict, ByGender, ByCohort}

var indicatorKeys = map[Indicator][]Dimension{
	Overall:    {DimYear},
	ByDistrict: {DimYear, DimDistrict},
	ByGender:   {DimYear, DimGender},
	ByCohort:   {DimYear, DimAgeGroup},
}

var ErrUnknownIndicator = errors.New("unknown indicator")

// ParseIndicator validates an indicator name.
func ParseIndicator(s string) (Indicator, error) {
	if _, ok := indicatorKeys[Indicator(s)]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
	}
	return Indicator(s), nil
}

// MapRow is the attendance count of one geography.
type MapRow struct {
	Name        string `json:"name"`
	Attendances int    `json:"attendances"`
}

// Map counts attendance records per geography for one year. Geographies with
// no records that year are absent; a year outside the data yields no rows.
func Map(ds *attendance.Dataset, level geo.Level, year int) ([]MapRow, error) {
	name, err := levelField(level)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.Year != year {
			continue
		}
		g := name(r)
		if g == "" {
			continue
		}
		counts[g]++
	}

	rows := make([]MapRow, 0, len(counts))
	for g, n := range counts {
		rows = append(rows, MapRow{Name: g, Attendances: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

func levelField(level geo.Level) (func(*attendance.Record) string, error) {
	switch level {
	case geo.District:
		return func(r *attendance.Record) string { return r.District }, nil
	case geo.Subcounty:
		return func(r *attendance.Record) string { return r.Subcounty }, nil
	}
	return nil, fmt.Errorf("%w: %q", geo.ErrUnknownLevel, level)
}

// TrendRow is the participant count of one observed key combination.
// Group is empty for the overall indicator.
type TrendRow struct {
	Year         int    `json:"year"`
	Group        string `json:"group,omitempty"`
	Participants int    `json:"participants"`
}

// Trend is the grouped participant count behind the bar chart.
type Trend struct {
	Indicator Indicator
	// Secondary is the second grouping key, empty for the overall indicator.
	Secondary Dimension
	Rows      []TrendRow
}

// Years returns the distinct years of the rows, ascending.
func (t Trend) Years() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, r := range t.Rows {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			out = append(out, r.Year)
		}
	}
	sort.Ints(out)
	return out
}

// Groups returns the distinct secondary values in display order.
func (t Trend) Groups() []string {
	return sortedGroups(t.Secondary, t.Rows)
}

// ComputeTrend counts unique persons per observed key combination of the
// indicator. Persons with an empty secondary key are left out.
func ComputeTrend(ds *attendance.Dataset, indicator Indicator) (Trend, error) {
	keys, ok := indicatorKeys[indicator]
	if !ok {
		return Trend{}, fmt.Errorf("%w: %q", ErrUnknownIndicator, indicator)
	}

	var secondary Dimension
	if len(keys) > 1 {
		secondary = keys[1]
	}

	type key struct {
		year  int
		group string
	}
	counts := map[key]int{}
	for i := range ds.Persons {
		p := &ds.Persons[i]
		k := key{year: p.Year}
		if secondary != "" {
			k.group = dimensionValue(secondary, &p.Record)
			if k.group == "" {
				continue
			}
		}
		counts[k]++
	}

	rows := make([]TrendRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, TrendRow{Year: k.year, Group: k.group, Participants: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return lessGroup(secondary, rows[i].Group, rows[j].Group)
	})

	return Trend{Indicator: indicator, Secondary: secondary, Rows: rows}, nil
}

func dimensionValue(d Dimension, r *attendance.Record) string {
	switch d {
	case DimDistrict:
		return r.District
	case DimGender:
		return r.Gender
	case DimAgeGroup:
		return string(r.AgeGroup)
	}
	return ""
}

// lessGroup orders cohorts by age and every other dimension alphabetically.
func lessGroup(d Dimension, a, b string) bool {
	if d == DimAgeGroup {
		return attendance.AgeGroup(a).Rank() < attendance.AgeGroup(b).Rank()
	}
	return a < b
}

func sortedGroups(d Dimension, rows []TrendRow) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		if r.Group == "" {
			continue
		}
		if _, ok := seen[r.Group]; !ok {
			seen[r.Group] = struct{}{}
			out = append(out, r.Group)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessGroup(d, out[i], out[j]) })
	return out
}
