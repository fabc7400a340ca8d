package xmla

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/execute"
)

// events records the order in which collaborators are called.
type events struct {
	mu   sync.Mutex
	list []string
}

func (e *events) add(format string, args ...any) {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.list = append(e.list, fmt.Sprintf(format, args...))
	e.mu.Unlock()
}

func (e *events) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.list...)
}

type fakeCatalogs struct {
	names []string
	log   *events

	// hang makes Activate wait for the context, or give up after hang.
	hang time.Duration
}

func (f *fakeCatalogs) Names(context.Context) ([]string, error) {
	return f.names, nil
}

func (f *fakeCatalogs) Activate(ctx context.Context, name string) (*catalog.Catalog, error) {
	f.log.add("activate %s", name)
	if f.hang > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("activate %s: %w", name, ctx.Err())
		case <-time.After(f.hang):
			return nil, fmt.Errorf("%w: %s", catalog.ErrCatalogNotFound, name)
		}
	}
	for _, n := range f.names {
		if n == name {
			return &catalog.Catalog{
				Name:  name,
				Cubes: []*catalog.Cube{{Name: name, Catalog: name, Measures: []string{"amount"}}},
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", catalog.ErrCatalogNotFound, name)
}

// fakeEngine returns one cell whose value is the length of the statement.
type fakeEngine struct {
	log *events
	run func(ctx context.Context, qc *execute.QueryContext) (*execute.Result, error)

	mu   sync.Mutex
	seen []execute.QueryContext
}

func (f *fakeEngine) Run(ctx context.Context, qc *execute.QueryContext) (*execute.Result, error) {
	f.log.add("run %s %s", qc.Catalog.Name, qc.Statement)
	f.mu.Lock()
	f.seen = append(f.seen, *qc)
	f.mu.Unlock()
	if f.run != nil {
		return f.run(ctx, qc)
	}
	return &execute.Result{
		Axes: []execute.Axis{{
			Name:        "Axis0",
			Hierarchies: []string{execute.MeasuresHierarchy},
			Tuples:      []execute.Tuple{{execute.MeasureMember("amount")}},
		}},
		Cells: []execute.Cell{{Ordinal: 0, Value: float64(len(qc.Statement)), FormatString: "Standard"}},
	}, nil
}

func (f *fakeEngine) calls() []execute.QueryContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execute.QueryContext(nil), f.seen...)
}

// fakeDiscovery answers every request type with <return><root name="..."/></return>.
type fakeDiscovery struct {
	mu    sync.Mutex
	calls []string
	reqs  []*DiscoverRequest
}

func (f *fakeDiscovery) answer(name string, req *DiscoverRequest) (*etree.Element, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	ret := etree.NewElement("return")
	ret.CreateElement("root").CreateAttr("name", name)
	return ret, nil
}

func (f *fakeDiscovery) DiscoverDatasources(context.Context) (*etree.Element, error) {
	return f.answer(RequestDiscoverDatasources, nil)
}

func (f *fakeDiscovery) DiscoverProperties(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDiscoverProperties, r)
}

func (f *fakeDiscovery) DiscoverSchemaRowsets(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDiscoverSchemaRowsets, r)
}

func (f *fakeDiscovery) DiscoverEnumerators(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDiscoverEnumerators, r)
}

func (f *fakeDiscovery) DiscoverKeywords(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDiscoverKeywords, r)
}

func (f *fakeDiscovery) DiscoverLiterals(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDiscoverLiterals, r)
}

func (f *fakeDiscovery) DBSchemaCatalogs(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDBSchemaCatalogs, r)
}

func (f *fakeDiscovery) DBSchemaTables(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestDBSchemaTables, r)
}

func (f *fakeDiscovery) MDSchemaCubes(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaCubes, r)
}

func (f *fakeDiscovery) MDSchemaDimensions(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaDimensions, r)
}

func (f *fakeDiscovery) MDSchemaHierarchies(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaHierarchies, r)
}

func (f *fakeDiscovery) MDSchemaLevels(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaLevels, r)
}

func (f *fakeDiscovery) MDSchemaMeasures(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaMeasures, r)
}

func (f *fakeDiscovery) MDSchemaMeasureGroups(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaMeasureGroups, r)
}

func (f *fakeDiscovery) MDSchemaMeasureGroupDimensions(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaMeasureGroupDimension, r)
}

func (f *fakeDiscovery) MDSchemaSets(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaSets, r)
}

func (f *fakeDiscovery) MDSchemaKPIs(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaKPIs, r)
}

func (f *fakeDiscovery) MDSchemaProperties(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaProperties, r)
}

func (f *fakeDiscovery) MDSchemaMembers(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaMembers, r)
}

func (f *fakeDiscovery) MDSchemaFunctions(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaFunctions, r)
}

func (f *fakeDiscovery) MDSchemaActions(_ context.Context, r *DiscoverRequest) (*etree.Element, error) {
	return f.answer(RequestMDSchemaActions, r)
}

// smallSchemaTools renders with execute.Tools but keeps the inline schema
// short.
type smallSchemaTools struct {
	*execute.Tools
}

func (smallSchemaTools) Schema() *etree.Element {
	el := etree.NewElement("xs:schema")
	el.CreateAttr("xmlns:xs", XSDNamespace)
	return el
}

// element parses an XML fragment.
func element(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return doc.Root()
}

// serialize renders el on its own, without indentation.
func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return s
}

func childTags(el *etree.Element) []string {
	var tags []string
	for _, c := range el.ChildElements() {
		tags = append(tags, c.Tag)
	}
	return tags
}
