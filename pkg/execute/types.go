package execute

import (
	"context"
	"errors"

	"github.com/olapd/olapd/pkg/catalog"
)

// ErrNoCube is returned when a query context has no cube to run against.
var ErrNoCube = errors.New("no cube selected")

// QueryContext is the per-request state of one Execute call.
type QueryContext struct {
	Catalog   *catalog.Catalog
	Cube      *catalog.Cube
	Statement string

	// ConvertToFormulas selects the reduced cell layout used by
	// spreadsheet formula queries: only the value of each cell is sent.
	ConvertToFormulas bool
}

// Engine executes a statement.
type Engine interface {
	Run(ctx context.Context, qc *QueryContext) (*Result, error)
}

// Result is the output of an engine run.
type Result struct {
	Axes  []Axis
	Cells []Cell
}

// Axis is one query axis (Axis0, Axis1, ...).
type Axis struct {
	Name        string
	Hierarchies []string
	Tuples      []Tuple
}

// Tuple is one position on an axis: a member per hierarchy.
type Tuple []Member

// Member is a single dimension member.
type Member struct {
	Hierarchy   string
	UniqueName  string
	Caption     string
	LevelName   string
	LevelNumber int
}

// Cell is a value of the result grid.
type Cell struct {
	Ordinal      int
	Value        float64
	FormatString string
}
