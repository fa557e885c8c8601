package attendance

import (
	"errors"
	"fmt"
)

// AgeGroup is a derived age cohort. The zero value means no cohort.
type AgeGroup string

const (
	AgeUnder20 AgeGroup = "Under 20"
	Age20s     AgeGroup = "20s"
	Age30s     AgeGroup = "30s"
	Age40s     AgeGroup = "40s"
	Age50s     AgeGroup = "50s"
	AgeOver60  AgeGroup = "Over 60"
)

// AgeGroups lists the cohorts in display order.
var AgeGroups = []AgeGroup{AgeUnder20, Age20s, Age30s, Age40s, Age50s, AgeOver60}

// fixedEdges are the lower edges of every cohort; the last cohort closes at the age ceiling.
var fixedEdges = []float64{0, 20, 30, 40, 50, 60}

// ErrAgeCeiling is returned when the observed maximum age does not leave room for the last cohort.
var ErrAgeCeiling = errors.New("age ceiling must be greater than 60")

// Binner assigns ages to cohorts using half-open bins [lo, hi).
type Binner struct {
	edges []float64
}

// NewBinner builds the cohort bins closed by ceiling. A nil ceiling means no
// ages were recorded; every lookup then yields no cohort.
func NewBinner(ceiling *float64) (Binner, error) {
	if ceiling == nil {
		return Binner{}, nil
	}
	if *ceiling <= fixedEdges[len(fixedEdges)-1] {
		return Binner{}, fmt.Errorf("%w: got %v", ErrAgeCeiling, *ceiling)
	}
	edges := make([]float64, 0, len(fixedEdges)+1)
	edges = append(edges, fixedEdges...)
	edges = append(edges, *ceiling)
	return Binner{edges: edges}, nil
}

// Group returns the cohort for age. Missing ages, negative ages and ages at or
// above the ceiling have no cohort.
func (b Binner) Group(age *float64) AgeGroup {
	if age == nil || len(b.edges) == 0 {
		return ""
	}
	a := *age
	for i := 0; i < len(b.edges)-1; i++ {
		if a >= b.edges[i] && a < b.edges[i+1] {
			return AgeGroups[i]
		}
	}
	return ""
}

// Rank returns the display position of g, or len(AgeGroups) for an unknown cohort.
func (g AgeGroup) Rank() int {
	for i, known := range AgeGroups {
		if g == known {
			return i
		}
	}
	return len(AgeGroups)
}
