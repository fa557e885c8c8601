package attendance_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
)

const header = "Personal_Id,First_Name,Last_Name,District,Subcounty,Date,Age,Gender\n"

// TestReadCSV_DropsUndatedRows verifies that rows with an unparseable Date are
// dropped and counted, while their Age still raises the age ceiling.
func TestReadCSV_DropsUndatedRows(t *testing.T) {
	in := header +
		"1,Akello,Grace,Gulu,Bardege,2021-03-04,34,Female\n" +
		"2,Okello,John,Omoro,Lakwana,not a date,71,Male\n" +
		"3,Auma,Ruth,Gulu,Laroo,,19,Female\n" +
		"4,Opio,Sam,Amuru,Atiak,3/15/2022,,Male\n"

	tbl, err := attendance.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, tbl.Records, 2)
	assert.Equal(t, 2, tbl.Dropped)
	require.NotNil(t, tbl.AgeCeiling)
	assert.Equal(t, 71.0, *tbl.AgeCeiling)

	first := tbl.Records[0]
	assert.Equal(t, "1", first.PersonID)
	assert.Equal(t, "Gulu", first.District)
	assert.Equal(t, "Female", first.Gender)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.Age)
	assert.Equal(t, 34.0, *first.Age)

	second := tbl.Records[1]
	assert.Equal(t, time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC), second.Date)
	assert.Nil(t, second.Age)
}

func TestReadCSV_BOMAndOptionalGender(t *testing.T) {
	in := "\ufeffPersonal_Id,First_Name,Last_Name,District,Subcounty,Date,Age\n" +
		"7,A,B,Gulu,Bardege,2020-01-01,NaN\n"

	tbl, err := attendance.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "7", tbl.Records[0].PersonID)
	assert.Empty(t, tbl.Records[0].Gender)
	assert.Nil(t, tbl.Records[0].Age)
	assert.Nil(t, tbl.AgeCeiling)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := attendance.ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, attendance.ErrNoHeader)

	_, err = attendance.ReadCSV(strings.NewReader("Personal_Id,First_Name\n1,A\n"))
	assert.ErrorIs(t, err, attendance.ErrMissingColumn)

	_, err = attendance.ReadCSV(strings.NewReader(header + "1,A,B,Gulu,Laroo,2020-01-01,old,Male\n"))
	assert.ErrorIs(t, err, attendance.ErrInvalidAge)
	assert.Contains(t, err.Error(), "row 2")
}

// TestParseCSV_MissingFile verifies that a missing input is reported, since it is fatal at startup.
func TestParseCSV_MissingFile(t *testing.T) {
	_, err := attendance.ParseCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"1,A,B,Gulu,Laroo,2020-01-01,30,Male\n"), 0o600))

	tbl, err := attendance.ParseCSV(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 1)
}

func TestKeepDistricts(t *testing.T) {
	tbl := &attendance.Table{Records: []attendance.Record{
		{PersonID: "1", District: "Gulu"},
		{PersonID: "2", District: "Kampala"},
		{PersonID: "3", District: "Omoro"},
	}}

	assert.Same(t, tbl, tbl.KeepDistricts(nil))

	kept := tbl.KeepDistricts([]string{"Gulu", "Omoro"})
	require.Len(t, kept.Records, 2)
	assert.Equal(t, "1", kept.Records[0].PersonID)
	assert.Equal(t, "3", kept.Records[1].PersonID)
	assert.Len(t, tbl.Records, 3)
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2021-06-01", "2021-06-01 08:30:00", "6/1/2021", "2021/06/01", "1-Jun-2021"} {
		got, ok := attendance.ParseDate(in)
		require.True(t, ok, in)
		assert.Equal(t, 2021, got.Year(), in)
		assert.Equal(t, time.June, got.Month(), in)
	}
	_, ok := attendance.ParseDate("32/13/2021")
	assert.False(t, ok)
}

// TestReadCSV_IntegerIDs verifies that zero-padded integer IDs collapse to one
// person when the whole column is numeric, and stay verbatim otherwise.
func TestReadCSV_IntegerIDs(t *testing.T) {
	in := header +
		"001,Grace,Akello,Gulu,Bardege,2021-03-04,34,Female\n" +
		"1,Grace,Akello,Gulu,Bardege,2022-03-04,35,Female\n" +
		"+2,John,Okello,Omoro,Lakwana,2022-05-01,61,Male\n" +
		"x9,Sam,Opio,Amuru,Atiak,not a date,40,Male\n"

	// The undated row still decides the column type.
	tbl, err := attendance.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "001", tbl.Records[0].PersonID)
	assert.Equal(t, "+2", tbl.Records[2].PersonID)

	in = header +
		"001,Grace,Akello,Gulu,Bardege,2021-03-04,34,Female\n" +
		"1,Grace,Akello,Gulu,Bardege,2022-03-04,35,Female\n" +
		",Anon,,Gulu,Laroo,2022-03-04,,\n" +
		"+2,John,Okello,Omoro,Lakwana,2022-05-01,61,Male\n"

	tbl, err = attendance.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "1", tbl.Records[0].PersonID)
	assert.Equal(t, "1", tbl.Records[1].PersonID)
	assert.Equal(t, "", tbl.Records[2].PersonID)
	assert.Equal(t, "2", tbl.Records[3].PersonID)

	ds, err := attendance.NewDataset(tbl)
	require.NoError(t, err)
	require.Len(t, ds.RepeatVisitors, 1)
	assert.Equal(t, "1", ds.RepeatVisitors[0].PersonID)
	assert.Equal(t, 2, ds.RepeatVisitors[0].Attendances)
}
