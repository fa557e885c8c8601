package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/attendance-monitor/internal/attendance"
)

func TestBinner_Group(t *testing.T) {
	b, err := attendance.NewBinner(ptr(88))
	require.NoError(t, err)

	cases := []struct {
		age  *float64
		want attendance.AgeGroup
	}{
		{nil, ""},
		{ptr(-1), ""},
		{ptr(0), attendance.AgeUnder20},
		{ptr(19.9), attendance.AgeUnder20},
		{ptr(20), attendance.Age20s},
		{ptr(39), attendance.Age30s},
		{ptr(40), attendance.Age40s},
		{ptr(59.5), attendance.Age50s},
		{ptr(60), attendance.AgeOver60},
		{ptr(87), attendance.AgeOver60},
		// The ceiling itself closes the last bin.
		{ptr(88), ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, b.Group(tc.age))
	}
}

func TestBinner_NoAges(t *testing.T) {
	b, err := attendance.NewBinner(nil)
	require.NoError(t, err)
	assert.Equal(t, attendance.AgeGroup(""), b.Group(ptr(30)))
}

func TestAgeGroup_Rank(t *testing.T) {
	assert.Equal(t, 0, attendance.AgeUnder20.Rank())
	assert.Equal(t, 5, attendance.AgeOver60.Rank())
	assert.Equal(t, 6, attendance.AgeGroup("teens").Rank())
}
