package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrCatalogNotFound is returned when a catalog name does not exist in the source.
var ErrCatalogNotFound = errors.New("catalog not found")

// Source provides catalog metadata and aggregated measure values.
type Source interface {
	// Names lists the catalogs available in the source, sorted.
	Names(ctx context.Context) ([]string, error)
	// Load reads the metadata of one catalog.
	Load(ctx context.Context, name string) (*Catalog, error)
	// Totals sums the given measures over the whole facts table of a cube.
	// Values are returned in the order of measures.
	Totals(ctx context.Context, cube *Cube, measures []string) ([]float64, error)
	// Close releases resources held by the source.
	Close() error
}

// Catalog is a named group of cubes.
type Catalog struct {
	Name    string
	Caption string
	Cubes   []*Cube
	// Updated is the modification time of the underlying data.
	Updated time.Time
}

// Cube returns the cube with the given name, or nil.
func (c *Catalog) Cube(name string) *Cube {
	for _, cube := range c.Cubes {
		if cube.Name == name {
			return cube
		}
	}
	return nil
}

// DefaultCube returns the cube named like the catalog, else the first
// cube, or nil if the catalog has none.
func (c *Catalog) DefaultCube() *Cube {
	if cube := c.Cube(c.Name); cube != nil {
		return cube
	}
	if len(c.Cubes) == 0 {
		return nil
	}
	return c.Cubes[0]
}

// Cube is a facts table with its measures and dimensions.
type Cube struct {
	Name       string
	Caption    string
	Catalog    string
	Measures   []string
	Dimensions []Dimension

	// Location identifies the facts table inside the source: a file path
	// for CSV sources, a schema name for database sources.
	Location string
}

// HasMeasure reports whether the cube exposes the named measure.
func (c *Cube) HasMeasure(name string) bool {
	for _, m := range c.Measures {
		if m == name {
			return true
		}
	}
	return false
}

// Dimension is a table joined to the facts table.
type Dimension struct {
	Name    string
	Caption string
	// Levels are the dimension columns, in table order.
	Levels []string
}

// FactsTable is the base name of the table holding the measures of a cube.
const FactsTable = "facts"
