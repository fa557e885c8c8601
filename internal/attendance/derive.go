package attendance

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// datasetNamespace scopes dataset IDs; it must stay stable so IDs (and ETags) survive restarts.
var datasetNamespace = uuid.MustParse("6f1c0d8e-4a53-4c1e-9d8e-3f3a4b2c9a10")

// NewDataset derives every view from a loaded table. It does not modify t.
func NewDataset(t *Table) (*Dataset, error) {
	binner, err := NewBinner(t.AgeCeiling)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(t.Records))
	for i, r := range t.Records {
		r.Year = r.Date.Year()
		r.AgeGroup = binner.Group(r.Age)
		records[i] = r
	}

	return &Dataset{
		ID:             datasetID(records),
		Records:        records,
		Persons:        UniquePersons(records),
		RepeatVisitors: RepeatVisitors(records),
		Years:          distinctYears(records),
	}, nil
}

// UniquePersons keeps the first record of every PersonID in input order.
// Records without a PersonID are skipped.
func UniquePersons(records []Record) []Person {
	seen := make(map[string]struct{}, len(records))
	var out []Person
	for _, r := range records {
		if r.PersonID == "" {
			continue
		}
		if _, ok := seen[r.PersonID]; ok {
			continue
		}
		seen[r.PersonID] = struct{}{}
		out = append(out, Person{Record: r})
	}
	return out
}

// RepeatVisitors counts records per PersonID and keeps people seen more than
// once, most frequent first. Name and geography fields take the first
// non-empty value seen for the person.
func RepeatVisitors(records []Record) []RepeatVisitor {
	byID := map[string]*RepeatVisitor{}
	var order []string
	for _, r := range records {
		if r.PersonID == "" {
			continue
		}
		v, ok := byID[r.PersonID]
		if !ok {
			v = &RepeatVisitor{PersonID: r.PersonID}
			byID[r.PersonID] = v
			order = append(order, r.PersonID)
		}
		v.Attendances++
		fillFirst(&v.FirstName, r.FirstName)
		fillFirst(&v.LastName, r.LastName)
		fillFirst(&v.District, r.District)
		fillFirst(&v.Subcounty, r.Subcounty)
	}

	out := make([]RepeatVisitor, 0, len(order))
	for _, id := range order {
		if v := byID[id]; v.Attendances > 1 {
			out = append(out, *v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Attendances != out[j].Attendances {
			return out[i].Attendances > out[j].Attendances
		}
		return LessID(out[i].PersonID, out[j].PersonID)
	})
	return out
}

// LessID orders person IDs numerically when both are integers and lexically otherwise.
func LessID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

func fillFirst(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func distinctYears(records []Record) []int {
	seen := map[int]struct{}{}
	var years []int
	for _, r := range records {
		if _, ok := seen[r.Year]; !ok {
			seen[r.Year] = struct{}{}
			years = append(years, r.Year)
		}
	}
	sort.Ints(years)
	return years
}

func datasetID(records []Record) uuid.UUID {
	h := sha256.New()
	for _, r := range records {
		age := ""
		if r.Age != nil {
			age = strconv.FormatFloat(*r.Age, 'g', -1, 64)
		}
		fmt.Fprintf(h, "%q|%q|%q|%q|%q|%q|%s|%s\n",
			r.PersonID, r.FirstName, r.LastName, r.District, r.Subcounty, r.Gender,
			r.Date.Format("2006-01-02T15:04:05"), age)
	}
	return uuid.NewSHA1(datasetNamespace, h.Sum(nil))
}
