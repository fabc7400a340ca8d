package discover

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/logging"
	"github.com/olapd/olapd/pkg/xmla"
)

// Catalogs gives access to catalog metadata. *catalog.Registry implements it.
type Catalogs interface {
	Activate(ctx context.Context, name string) (*catalog.Catalog, error)
	Catalogs(ctx context.Context) ([]*catalog.Catalog, error)
}

// DataSource describes the server in DISCOVER_DATASOURCES.
type DataSource struct {
	Name        string
	Description string
	URL         string
	Info        string
	Provider    string
}

// DefaultDataSource returns the datasource advertised when none is configured.
func DefaultDataSource() DataSource {
	return DataSource{
		Name:        "olapd",
		Description: "olapd XMLA provider",
		URL:         "http://localhost:8000/xmla",
		Info:        "olapd",
		Provider:    "olapd",
	}
}

// Tools implements xmla.DiscoveryTools.
type Tools struct {
	catalogs   Catalogs
	datasource DataSource
	now        func() time.Time
	log        *slog.Logger
}

var _ xmla.DiscoveryTools = (*Tools)(nil)

// Option configures Tools.
type Option func(*Tools)

// WithDataSource sets the datasource description.
func WithDataSource(ds DataSource) Option {
	return func(t *Tools) {
		t.datasource = ds
	}
}

// WithClock sets the clock used for catalogs without a modification time.
func WithClock(now func() time.Time) Option {
	return func(t *Tools) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tools) {
		if log != nil {
			t.log = log
		}
	}
}

// NewTools creates discovery tools over catalogs.
func NewTools(catalogs Catalogs, opts ...Option) *Tools {
	t := &Tools{
		catalogs:   catalogs,
		datasource: DefaultDataSource(),
		now:        time.Now,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// scope returns the catalogs a request is about: the one named by the
// CATALOG_NAME restriction, else by the Catalog property, else all of them.
// An unknown name yields no catalogs.
func (t *Tools) scope(ctx context.Context, req *xmla.DiscoverRequest) ([]*catalog.Catalog, error) {
	name := req.Restriction("CATALOG_NAME")
	if name == "" {
		name = req.Catalog()
	}
	if name == "" {
		return t.catalogs.Catalogs(ctx)
	}

	cat, err := t.catalogs.Activate(ctx, name)
	if errors.Is(err, catalog.ErrCatalogNotFound) {
		t.log.Debug("discover on unknown catalog", "catalog", name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []*catalog.Catalog{cat}, nil
}

// cubes calls fn for every cube in scope.
func (t *Tools) cubes(ctx context.Context, req *xmla.DiscoverRequest, fn func(cat *catalog.Catalog, cube *catalog.Cube)) error {
	cats, err := t.scope(ctx, req)
	if err != nil {
		return err
	}
	for _, cat := range cats {
		for _, cube := range cat.Cubes {
			fn(cat, cube)
		}
	}
	return nil
}

func (t *Tools) updated(cat *catalog.Catalog) string {
	ts := cat.Updated
	if ts.IsZero() {
		ts = t.now()
	}
	return ts.UTC().Format(xmla.TimestampLayout)
}

func caption(c, name string) string {
	if c != "" {
		return c
	}
	return name
}

func bracket(name string) string {
	return "[" + name + "]"
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func boolStr(b bool) string {
	return strconv.FormatBool(b)
}

func dimensionName(d catalog.Dimension) string {
	return bracket(d.Name)
}

func hierarchyName(d catalog.Dimension) string {
	return bracket(d.Name) + "." + bracket(d.Name)
}

func allMember(d catalog.Dimension) string {
	return hierarchyName(d) + ".[All]"
}

func levelName(d catalog.Dimension, level string) string {
	return hierarchyName(d) + "." + bracket(level)
}
