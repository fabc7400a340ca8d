package xmla

import (
	"context"
	"fmt"
	"regexp"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/execute"
)

// Catalogs lists and activates catalogs. *catalog.Registry implements it.
type Catalogs interface {
	Names(ctx context.Context) ([]string, error)
	Activate(ctx context.Context, name string) (*catalog.Catalog, error)
}

// Switcher binds Execute calls to their catalog.
type Switcher struct {
	catalogs Catalogs
}

// NewSwitcher creates a switcher over catalogs.
func NewSwitcher(catalogs Catalogs) *Switcher {
	return &Switcher{catalogs: catalogs}
}

var fromCube = regexp.MustCompile(`(?is)\bFROM\s+\[([^\]]+)\]`)

// Switch activates the named catalog and returns a fresh query context
// bound to it. An empty name selects the first catalog. The cube is the
// one named in the FROM clause of statement when the catalog has it, else
// the catalog's first cube.
func (s *Switcher) Switch(ctx context.Context, name, statement string) (*execute.QueryContext, error) {
	if name == "" {
		names, err := s.catalogs.Names(ctx)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no catalogs available", catalog.ErrCatalogNotFound)
		}
		name = names[0]
	}

	cat, err := s.catalogs.Activate(ctx, name)
	if err != nil {
		return nil, err
	}

	cube := cat.DefaultCube()
	if m := fromCube.FindStringSubmatch(statement); m != nil {
		if c := cat.Cube(m[1]); c != nil {
			cube = c
		}
	}
	if cube == nil {
		return nil, fmt.Errorf("%w: catalog %s has no cube", catalog.ErrCatalogNotFound, name)
	}

	return &execute.QueryContext{
		Catalog:   cat,
		Cube:      cube,
		Statement: statement,
	}, nil
}
