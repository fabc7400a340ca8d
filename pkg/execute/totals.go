package execute

import (
	"context"
	"fmt"
	"regexp"

	"github.com/olapd/olapd/pkg/catalog"
)

// MeasuresHierarchy is the unique name of the measures hierarchy.
const MeasuresHierarchy = "[Measures]"

const (
	measuresLevel = "[Measures].[MeasuresLevel]"
	defaultFormat = "Standard"
)

var measureRef = regexp.MustCompile(`(?i)\[Measures\]\.\[([^\]]+)\]`)

// Totaler aggregates measures over a cube.
type Totaler interface {
	Totals(ctx context.Context, cube *catalog.Cube, measures []string) ([]float64, error)
}

// TotalsEngine answers statements with the grand totals of the measures
// they reference.
type TotalsEngine struct {
	totals Totaler
}

// NewTotalsEngine creates an engine aggregating through t.
func NewTotalsEngine(t Totaler) *TotalsEngine {
	return &TotalsEngine{totals: t}
}

// Run places the referenced measures on Axis0, or every measure of the
// cube when the statement names none, and fills one cell per measure.
func (e *TotalsEngine) Run(ctx context.Context, qc *QueryContext) (*Result, error) {
	if qc == nil || qc.Cube == nil {
		return nil, ErrNoCube
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	measures := ReferencedMeasures(qc.Statement, qc.Cube)
	if len(measures) == 0 {
		measures = qc.Cube.Measures
	}
	values, err := e.totals.Totals(ctx, qc.Cube, measures)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate measures: %w", err)
	}
	if len(values) != len(measures) {
		return nil, fmt.Errorf("expected %d totals, got %d", len(measures), len(values))
	}

	axis := Axis{Name: "Axis0", Hierarchies: []string{MeasuresHierarchy}}
	res := &Result{}
	for i, m := range measures {
		axis.Tuples = append(axis.Tuples, Tuple{MeasureMember(m)})
		res.Cells = append(res.Cells, Cell{Ordinal: i, Value: values[i], FormatString: defaultFormat})
	}
	res.Axes = []Axis{axis}
	return res, nil
}

// ReferencedMeasures returns the measures of cube named in statement, in
// order of first appearance. Names that the cube doesn't expose are ignored.
func ReferencedMeasures(statement string, cube *catalog.Cube) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range measureRef.FindAllStringSubmatch(statement, -1) {
		name := m[1]
		if seen[name] || !cube.HasMeasure(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// MeasureMember builds the member of the measures hierarchy for name.
func MeasureMember(name string) Member {
	return Member{
		Hierarchy:  MeasuresHierarchy,
		UniqueName: MeasuresHierarchy + ".[" + name + "]",
		Caption:    name,
		LevelName:  measuresLevel,
	}
}
