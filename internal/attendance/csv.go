package attendance

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Column names in the attendance export.
const (
	ColPersonID  = "Personal_Id"
	ColFirstName = "First_Name"
	ColLastName  = "Last_Name"
	ColDistrict  = "District"
	ColSubcounty = "Subcounty"
	ColDate      = "Date"
	ColAge       = "Age"
	ColGender    = "Gender"
)

var requiredColumns = []string{
	ColPersonID, ColFirstName, ColLastName, ColDistrict, ColSubcounty, ColDate, ColAge,
}

var (
	ErrNoHeader      = errors.New("csv has no header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidAge    = errors.New("invalid age")
)

// ParseCSV loads the attendance export at path.
func ParseCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses attendance rows from r. Rows whose Date does not parse are
// dropped and counted; any other malformed input is an error.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, k := range requiredColumns {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, k)
		}
	}

	t := &Table{}
	numericIDs := true
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		if id := get(ColPersonID); id != "" {
			if _, err := strconv.ParseInt(id, 10, 64); err != nil {
				numericIDs = false
			}
		}

		age, err := parseAge(get(ColAge))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if age != nil && (t.AgeCeiling == nil || *age > *t.AgeCeiling) {
			v := *age
			t.AgeCeiling = &v
		}

		date, ok := ParseDate(get(ColDate))
		if !ok {
			t.Dropped++
			continue
		}

		t.Records = append(t.Records, Record{
			PersonID:  get(ColPersonID),
			FirstName: get(ColFirstName),
			LastName:  get(ColLastName),
			District:  get(ColDistrict),
			Subcounty: get(ColSubcounty),
			Gender:    get(ColGender),
			Date:      date,
			Age:       age,
		})
	}
	if numericIDs {
		canonicalIDs(t.Records)
	}
	return t, nil
}

// canonicalIDs rewrites integer person IDs in their shortest form so "001"
// and "1" identify the same person. Callers apply it only when every ID in
// the column is an integer.
func canonicalIDs(records []Record) {
	for i := range records {
		if n, err := strconv.ParseInt(records[i].PersonID, 10, 64); err == nil {
			records[i].PersonID = strconv.FormatInt(n, 10)
		}
	}
}

func parseAge(s string) (*float64, error) {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null":
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w %q", ErrInvalidAge, s)
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

// KeepDistricts returns a copy of t restricted to the named districts.
// An empty allow-list keeps every record.
func (t *Table) KeepDistricts(districts []string) *Table {
	if len(districts) == 0 {
		return t
	}
	keep := make(map[string]struct{}, len(districts))
	for _, d := range districts {
		keep[d] = struct{}{}
	}
	out := &Table{AgeCeiling: t.AgeCeiling, Dropped: t.Dropped}
	for _, r := range t.Records {
		if _, ok := keep[r.District]; ok {
			out.Records = append(out.Records, r)
		}
	}
	return out
}
