package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
)

func ptr(v float64) *float64 { return &v }

func visit(id string, year int, district string) attendance.Record {
	return attendance.Record{
		PersonID:  id,
		FirstName: "F" + id,
		LastName:  "L" + id,
		District:  district,
		Subcounty: district + " Central",
		Date:      time.Date(year, 5, 1, 0, 0, 0, 0, time.UTC),
		Age:       ptr(30),
	}
}

// TestNewDataset_PersonViews covers three visits by P1 (2020, 2021, 2022) and one by P2 (2021).
func TestNewDataset_PersonViews(t *testing.T) {
	tbl := &attendance.Table{
		Records: []attendance.Record{
			visit("P1", 2020, "Gulu"),
			visit("P1", 2021, "Gulu"),
			visit("P2", 2021, "Omoro"),
			visit("P1", 2022, "Gulu"),
		},
		AgeCeiling: ptr(75),
	}

	ds, err := attendance.NewDataset(tbl)
	require.NoError(t, err)

	require.Len(t, ds.Persons, 2)
	assert.Equal(t, "P1", ds.Persons[0].PersonID)
	assert.Equal(t, 2020, ds.Persons[0].Year)
	assert.Equal(t, "P2", ds.Persons[1].PersonID)
	assert.Equal(t, 2021, ds.Persons[1].Year)

	require.Len(t, ds.RepeatVisitors, 1)
	assert.Equal(t, "P1", ds.RepeatVisitors[0].PersonID)
	assert.Equal(t, 3, ds.RepeatVisitors[0].Attendances)

	assert.Equal(t, []int{2020, 2021, 2022}, ds.Years)
	assert.Equal(t, 2022, ds.MaxYear())

	for _, r := range ds.Records {
		assert.Equal(t, attendance.Age30s, r.AgeGroup)
	}
	// The source table keeps its underived records.
	assert.Zero(t, tbl.Records[0].Year)
}

func TestNewDataset_IDIsDeterministic(t *testing.T) {
	tbl := &attendance.Table{Records: []attendance.Record{visit("1", 2020, "Gulu")}, AgeCeiling: ptr(80)}
	a, err := attendance.NewDataset(tbl)
	require.NoError(t, err)
	b, err := attendance.NewDataset(tbl)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	other := &attendance.Table{Records: []attendance.Record{visit("2", 2020, "Gulu")}, AgeCeiling: ptr(80)}
	c, err := attendance.NewDataset(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNewDataset_LowCeilingFails(t *testing.T) {
	_, err := attendance.NewDataset(&attendance.Table{AgeCeiling: ptr(60)})
	assert.ErrorIs(t, err, attendance.ErrAgeCeiling)
}

func TestUniquePersons_SkipsBlankIDs(t *testing.T) {
	persons := attendance.UniquePersons([]attendance.Record{
		{PersonID: ""}, {PersonID: "a"}, {PersonID: ""}, {PersonID: "a"}, {PersonID: "b"},
	})
	require.Len(t, persons, 2)
	assert.Equal(t, "a", persons[0].PersonID)
	assert.Equal(t, "b", persons[1].PersonID)
}

// TestRepeatVisitors_Invariants checks ordering, the >1 filter, first non-empty
// attributes and that counts never exceed the record total.
func TestRepeatVisitors_Invariants(t *testing.T) {
	records := []attendance.Record{
		{PersonID: "10", District: ""},
		{PersonID: "10", District: "Gulu", FirstName: "Ocen"},
		{PersonID: "9"}, {PersonID: "9"},
		{PersonID: "2"}, {PersonID: "2"}, {PersonID: "2"},
		{PersonID: "5"},
		{PersonID: ""}, {PersonID: ""},
	}

	got := attendance.RepeatVisitors(records)
	require.Len(t, got, 3)
	assert.Equal(t, "2", got[0].PersonID)
	assert.Equal(t, 3, got[0].Attendances)
	// Ties are ordered numerically by ID.
	assert.Equal(t, "9", got[1].PersonID)
	assert.Equal(t, "10", got[2].PersonID)
	assert.Equal(t, "Gulu", got[2].District)
	assert.Equal(t, "Ocen", got[2].FirstName)

	total := 0
	for i, v := range got {
		assert.Greater(t, v.Attendances, 1)
		if i > 0 {
			assert.LessOrEqual(t, v.Attendances, got[i-1].Attendances)
		}
		total += v.Attendances
	}
	assert.LessOrEqual(t, total, len(records))
}

func TestLessID(t *testing.T) {
	assert.True(t, attendance.LessID("9", "10"))
	assert.False(t, attendance.LessID("10", "9"))
	assert.True(t, attendance.LessID("A10", "A9"))
}
