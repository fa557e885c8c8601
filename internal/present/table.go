package present

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
)

// Column names of the top-attendees table.
const (
	ColFirstName   = "First Name"
	ColLastName    = "Last Name"
	ColDistrict    = "District"
	ColSubcounty   = "Subcounty"
	ColAttendances = "Attendances"
)

// Column describes one table column.
type Column struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	FilterCase string `json:"filter_case,omitempty"`
}

// TableSpec describes the top-attendees table widget.
type TableSpec struct {
	Columns  []Column `json:"columns"`
	PageSize int      `json:"page_size"`
	SortMode string   `json:"sort_mode"`
	Total    int      `json:"total"`
}

var tableColumns = []Column{
	{ID: ColFirstName, Name: ColFirstName, Type: "text", FilterCase: "insensitive"},
	{ID: ColLastName, Name: ColLastName, Type: "text", FilterCase: "insensitive"},
	{ID: ColDistrict, Name: ColDistrict, Type: "text", FilterCase: "insensitive"},
	{ID: ColSubcounty, Name: ColSubcounty, Type: "text", FilterCase: "insensitive"},
	{ID: ColAttendances, Name: ColAttendances, Type: "numeric"},
}

// TopAttendeesTable describes the table over the repeat-visitor view.
func TopAttendeesTable(view []attendance.RepeatVisitor, pageSize int) TableSpec {
	return TableSpec{
		Columns:  append([]Column(nil), tableColumns...),
		PageSize: pageSize,
		SortMode: "multi",
		Total:    len(view),
	}
}

var (
	ErrUnknownColumn = errors.New("unknown table column")
	ErrBadFilter     = errors.New("invalid filter")
	ErrBadPage       = errors.New("invalid page")
)

// SortBy is one key of a multi-column sort.
type SortBy struct {
	Column string
	Desc   bool
}

// TableQuery is a page request against the table.
type TableQuery struct {
	Filters  map[string]string
	Sort     []SortBy
	Page     int
	PageSize int
}

// ParseTableQuery reads filter[<column>], sort (e.g. "Attendances:desc,Last Name")
// page (zero based) and page_size from query parameters.
func ParseTableQuery(v url.Values, defaultPageSize int) (TableQuery, error) {
	q := TableQuery{Filters: map[string]string{}, PageSize: defaultPageSize}

	for key, vals := range v {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		col := strings.TrimSuffix(strings.TrimPrefix(key, "filter["), "]")
		if !knownColumn(col) {
			return TableQuery{}, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		if f := strings.TrimSpace(vals[0]); f != "" {
			q.Filters[col] = f
		}
	}

	if s := v.Get("sort"); s != "" {
		for _, part := range strings.Split(s, ",") {
			name, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
			if !knownColumn(name) {
				return TableQuery{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
			}
			q.Sort = append(q.Sort, SortBy{Column: name, Desc: strings.EqualFold(dir, "desc")})
		}
	}

	if p := v.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return TableQuery{}, fmt.Errorf("%w: page %q", ErrBadPage, p)
		}
		q.Page = n
	}
	if p := v.Get("page_size"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 500 {
			return TableQuery{}, fmt.Errorf("%w: page_size %q", ErrBadPage, p)
		}
		q.PageSize = n
	}
	return q, nil
}

func knownColumn(id string) bool {
	for _, c := range tableColumns {
		if c.ID == id {
			return true
		}
	}
	return false
}

// TablePage is one page of filtered, sorted rows.
type TablePage struct {
	Rows      []attendance.RepeatVisitor `json:"rows"`
	Page      int                        `json:"page"`
	PageSize  int                        `json:"page_size"`
	PageCount int                        `json:"page_count"`
	Total     int                        `json:"total"`
}

// QueryTable filters, sorts and pages the view. The view itself is never modified.
func QueryTable(view []attendance.RepeatVisitor, q TableQuery) (TablePage, error) {
	match, err := compileFilters(q.Filters)
	if err != nil {
		return TablePage{}, err
	}

	rows := make([]attendance.RepeatVisitor, 0, len(view))
	for _, r := range view {
		if match(r) {
			rows = append(rows, r)
		}
	}

	if len(q.Sort) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			for _, s := range q.Sort {
				c := compareColumn(s.Column, rows[i], rows[j])
				if c == 0 {
					continue
				}
				if s.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	size := q.PageSize
	if size <= 0 {
		size = len(rows)
	}
	page := TablePage{Page: q.Page, PageSize: size, Total: len(rows), Rows: []attendance.RepeatVisitor{}}
	if size > 0 {
		page.PageCount = (len(rows) + size - 1) / size
	}
	start := q.Page * size
	if start < len(rows) {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		page.Rows = rows[start:end]
	}
	return page, nil
}

func textValue(col string, r attendance.RepeatVisitor) string {
	switch col {
	case ColFirstName:
		return r.FirstName
	case ColLastName:
		return r.LastName
	case ColDistrict:
		return r.District
	case ColSubcounty:
		return r.Subcounty
	}
	return ""
}

func compareColumn(col string, a, b attendance.RepeatVisitor) int {
	if col == ColAttendances {
		return a.Attendances - b.Attendances
	}
	return strings.Compare(textValue(col, a), textValue(col, b))
}

// compileFilters builds a row predicate. Text filters match case-insensitive
// substrings; numeric filters accept an optional comparison operator.
func compileFilters(filters map[string]string) (func(attendance.RepeatVisitor) bool, error) {
	var preds []func(attendance.RepeatVisitor) bool
	fold := cases.Fold()
	for col, f := range filters {
		if col == ColAttendances {
			pred, err := numericFilter(f)
			if err != nil {
				return nil, err
			}
			preds = append(preds, func(r attendance.RepeatVisitor) bool { return pred(r.Attendances) })
			continue
		}
		col, needle := col, fold.String(f)
		preds = append(preds, func(r attendance.RepeatVisitor) bool {
			return strings.Contains(fold.String(textValue(col, r)), needle)
		})
	}
	return func(r attendance.RepeatVisitor) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}, nil
}

func numericFilter(f string) (func(int) bool, error) {
	ops := []struct {
		prefix string
		cmp    func(a, b int) bool
	}{
		{">=", func(a, b int) bool { return a >= b }},
		{"<=", func(a, b int) bool { return a <= b }},
		{"!=", func(a, b int) bool { return a != b }},
		{">", func(a, b int) bool { return a > b }},
		{"<", func(a, b int) bool { return a < b }},
		{"=", func(a, b int) bool { return a == b }},
	}
	cmp := func(a, b int) bool { return a == b }
	for _, op := range ops {
		if strings.HasPrefix(f, op.prefix) {
			f, cmp = strings.TrimPrefix(f, op.prefix), op.cmp
			break
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadFilter, f)
	}
	return func(v int) bool { return cmp(v, n) }, nil
}
