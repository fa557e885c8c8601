package present

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Layout holds the presentation settings an operator may override with a YAML file.
type Layout struct {
	Title string      `yaml:"title" json:"title"`
	Map   MapLayout   `yaml:"map" json:"map"`
	Table TableLayout `yaml:"table" json:"table"`
}

type MapLayout struct {
	Style      string  `yaml:"style" json:"style"`
	CenterLat  float64 `yaml:"center_lat" json:"center_lat"`
	CenterLon  float64 `yaml:"center_lon" json:"center_lon"`
	Zoom       float64 `yaml:"zoom" json:"zoom"`
	Opacity    float64 `yaml:"opacity" json:"opacity"`
	ColorScale string  `yaml:"color_scale" json:"color_scale"`

	// AutoCenter centers the map on the selected level's boundary extent
	// instead of CenterLat/CenterLon.
	AutoCenter bool `yaml:"auto_center" json:"auto_center"`
}

type TableLayout struct {
	PageSize int `yaml:"page_size" json:"page_size"`
}

// DefaultLayout is the layout used when no file is configured.
func DefaultLayout() Layout {
	return Layout{
		Title: "GWED-G Monitoring Tool",
		Map: MapLayout{
			Style:      "carto-positron",
			CenterLat:  2.9,
			CenterLon:  32.1,
			Zoom:       7.2,
			Opacity:    0.7,
			ColorScale: "YlOrRd",
		},
		Table: TableLayout{PageSize: 10},
	}
}

// LoadLayout reads a YAML layout file over the defaults. An empty path returns the defaults.
func LoadLayout(path string) (Layout, error) {
	l := DefaultLayout()
	if path == "" {
		return l, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, err
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	if l.Table.PageSize <= 0 {
		return Layout{}, fmt.Errorf("%s: table.page_size must be positive", path)
	}
	if l.Map.Opacity < 0 || l.Map.Opacity > 1 {
		return Layout{}, fmt.Errorf("%s: map.opacity must be within [0, 1]", path)
	}
	return l, nil
}
