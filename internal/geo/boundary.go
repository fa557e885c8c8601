// Package geo loads the district and subcounty boundary documents the map is drawn against.
package geo

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Level is a geography level of the map.
type Level string

const (
	District  Level = "District"
	Subcounty Level = "Subcounty"
)

// Levels lists the selectable levels in display order.
var Levels = []Level{District, Subcounty}

var (
	ErrUnknownLevel   = errors.New("unknown geography level")
	ErrNoFeatures     = errors.New("feature collection has no features")
	ErrMissingNameKey = errors.New("feature is missing its name property")
)

// ParseLevel validates a level name.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// FeatureKey is the property path a map layer uses to match features to rows.
func (l Level) FeatureKey() string { return "properties." + string(l) }

// Boundary is one boundary document. Raw is served exactly as read.
type Boundary struct {
	Level Level
	Raw   []byte

	// Version is a content hash of Raw, used as its HTTP entity tag.
	Version uuid.UUID

	names  map[string]struct{}
	bounds *geom.Bounds
}

// LoadBoundary reads and validates the FeatureCollection at path.
func LoadBoundary(path string, level Level) (*Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := ParseBoundary(data, level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// ParseBoundary validates a FeatureCollection whose features are named by the
// level's property.
func ParseBoundary(data []byte, level Level) (*Boundary, error) {
	var fc geojson.FeatureCollection
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("decode feature collection: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, ErrNoFeatures
	}

	b := &Boundary{
		Level:   level,
		Raw:     data,
		Version: uuid.NewSHA1(uuid.NameSpaceURL, data),
		names:   make(map[string]struct{}, len(fc.Features)),
		bounds:  geom.NewBounds(geom.XY),
	}
	for i, f := range fc.Features {
		name, ok := f.Properties[string(level)].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("feature %d: %w %q", i, ErrMissingNameKey, level)
		}
		b.names[name] = struct{}{}
		if f.Geometry != nil {
			b.bounds.Extend(f.Geometry)
		}
	}
	return b, nil
}

// Has reports whether a feature carries name.
func (b *Boundary) Has(name string) bool {
	_, ok := b.names[name]
	return ok
}

// Center returns the midpoint of the features' bounding box.
func (b *Boundary) Center() (lat, lon float64, ok bool) {
	if b.bounds == nil || b.bounds.IsEmpty() {
		return 0, 0, false
	}
	lon = (b.bounds.Min(0) + b.bounds.Max(0)) / 2
	lat = (b.bounds.Min(1) + b.bounds.Max(1)) / 2
	return lat, lon, true
}

// Unmatched returns the distinct names absent from the boundary, sorted.
func (b *Boundary) Unmatched(names []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, n := range names {
		if n == "" || b.Has(n) {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Set holds one boundary per level.
type Set map[Level]*Boundary

// LoadSet loads both boundary documents.
func LoadSet(districtPath, subcountyPath string) (Set, error) {
	d, err := LoadBoundary(districtPath, District)
	if err != nil {
		return nil, err
	}
	s, err := LoadBoundary(subcountyPath, Subcounty)
	if err != nil {
		return nil, err
	}
	return Set{District: d, Subcounty: s}, nil
}
