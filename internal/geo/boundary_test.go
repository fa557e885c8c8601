package geo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/attendance-monitor/internal/geo"
)

const districts = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"District": "Gulu"},
     "geometry": {"type": "Polygon", "coordinates": [[[32.0, 2.5], [32.5, 2.5], [32.5, 3.0], [32.0, 3.0], [32.0, 2.5]]]}},
    {"type": "Feature", "properties": {"District": "Amuru"},
     "geometry": {"type": "Polygon", "coordinates": [[[31.5, 3.0], [32.0, 3.0], [32.0, 3.5], [31.5, 3.5], [31.5, 3.0]]]}}
  ]
}`

func TestParseBoundary(t *testing.T) {
	b, err := geo.ParseBoundary([]byte(districts), geo.District)
	require.NoError(t, err)

	assert.True(t, b.Has("Amuru"))
	assert.True(t, b.Has("Gulu"))
	assert.False(t, b.Has("Kitgum"))
	assert.Equal(t, []byte(districts), b.Raw)

	lat, lon, ok := b.Center()
	require.True(t, ok)
	assert.InDelta(t, 3.0, lat, 1e-9)
	assert.InDelta(t, 32.0, lon, 1e-9)

	assert.Equal(t, []string{"Kitgum", "Zombo"}, b.Unmatched([]string{"Gulu", "Zombo", "", "Kitgum", "Zombo"}))
}

func TestParseBoundary_Errors(t *testing.T) {
	_, err := geo.ParseBoundary([]byte(`{"type":"FeatureCollection","features":[]}`), geo.District)
	assert.ErrorIs(t, err, geo.ErrNoFeatures)

	_, err = geo.ParseBoundary([]byte(districts), geo.Subcounty)
	assert.ErrorIs(t, err, geo.ErrMissingNameKey)

	_, err = geo.ParseBoundary([]byte(`{"type":`), geo.District)
	assert.Error(t, err)
}

func TestLoadSet(t *testing.T) {
	dir := t.TempDir()
	dPath := filepath.Join(dir, "geo_distr.json")
	sPath := filepath.Join(dir, "geo_subc.json")
	require.NoError(t, os.WriteFile(dPath, []byte(districts), 0o600))

	_, err := geo.LoadSet(dPath, sPath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	subc := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"Subcounty":"Bardege"},"geometry":{"type":"Point","coordinates":[32.3,2.8]}}]}`
	require.NoError(t, os.WriteFile(sPath, []byte(subc), 0o600))

	set, err := geo.LoadSet(dPath, sPath)
	require.NoError(t, err)
	assert.True(t, set[geo.Subcounty].Has("Bardege"))
	lat, lon, ok := set[geo.Subcounty].Center()
	require.True(t, ok)
	assert.InDelta(t, 2.8, lat, 1e-9)
	assert.InDelta(t, 32.3, lon, 1e-9)
}

func TestParseLevel(t *testing.T) {
	l, err := geo.ParseLevel("Subcounty")
	require.NoError(t, err)
	assert.Equal(t, geo.Subcounty, l)
	assert.Equal(t, "properties.Subcounty", l.FeatureKey())

	_, err = geo.ParseLevel("district")
	assert.ErrorIs(t, err, geo.ErrUnknownLevel)
}
