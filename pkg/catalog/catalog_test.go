package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCSVSource_Names(t *testing.T) {
	src := NewCSVSource("testdata")

	names, err := src.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "foodmart", "sales"}, names)
}

func TestCSVSource_NamesMissingDir(t *testing.T) {
	src := NewCSVSource(t.TempDir())

	names, err := src.Names(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCSVSource_Load(t *testing.T) {
	src := NewCSVSource("testdata")

	cat, err := src.Load(context.Background(), "sales")
	require.NoError(t, err)
	assert.Equal(t, "sales", cat.Name)
	assert.Equal(t, "Sales", cat.Caption)
	require.Len(t, cat.Cubes, 1)

	cube := cat.DefaultCube()
	assert.Equal(t, "sales", cube.Name)
	assert.Equal(t, []string{"amount", "count"}, cube.Measures)
	require.Len(t, cube.Dimensions, 2)
	assert.Equal(t, "Product", cube.Dimensions[0].Name)
	assert.Equal(t, []string{"product_id", "name", "category"}, cube.Dimensions[0].Levels)
	assert.Equal(t, "Store", cube.Dimensions[1].Name)
	assert.Same(t, cube, cat.Cube("sales"))
	assert.Nil(t, cat.Cube("missing"))
}

func TestCSVSource_LoadErrors(t *testing.T) {
	src := NewCSVSource("testdata")

	tests := []struct {
		name     string
		catalog  string
		notFound bool
	}{
		{"unknown catalog", "nope", true},
		{"empty name", "", true},
		{"path traversal", "../testdata", true},
		{"missing facts", "broken", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := src.Load(context.Background(), tt.catalog)
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrCatalogNotFound))
		})
	}
}

func TestCSVSource_Totals(t *testing.T) {
	src := NewCSVSource("testdata")
	ctx := context.Background()

	cat, err := src.Load(ctx, "sales")
	require.NoError(t, err)
	totals, err := src.Totals(ctx, cat.DefaultCube(), []string{"count", "amount"})
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 20}, totals)

	_, err = src.Totals(ctx, cat.DefaultCube(), []string{"unknown"})
	assert.Error(t, err)
}

func TestCSVSource_SemicolonDelimiter(t *testing.T) {
	src := NewCSVSource("testdata")
	ctx := context.Background()

	cat, err := src.Load(ctx, "foodmart")
	require.NoError(t, err)
	cube := cat.DefaultCube()
	assert.Equal(t, []string{"sales", "cost"}, cube.Measures)
	assert.Empty(t, cube.Dimensions)

	totals, err := src.Totals(ctx, cube, cube.Measures)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 3.5}, totals)
}

func TestCatalog_DefaultCube(t *testing.T) {
	first := &Cube{Name: "archive"}
	named := &Cube{Name: "sales"}

	assert.Same(t, named, (&Catalog{Name: "sales", Cubes: []*Cube{first, named}}).DefaultCube())
	assert.Same(t, first, (&Catalog{Name: "other", Cubes: []*Cube{first, named}}).DefaultCube())
	assert.Nil(t, (&Catalog{Name: "empty"}).DefaultCube())
}

func TestCaption(t *testing.T) {
	tests := map[string]string{
		"sales":       "Sales",
		"store_sales": "Store Sales",
		"time-by-day": "Time By Day",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Caption(in), in)
	}
}

type countingSource struct {
	Source
	loads atomic.Int32
}

func (s *countingSource) Load(ctx context.Context, name string) (*Catalog, error) {
	s.loads.Add(1)
	return s.Source.Load(ctx, name)
}

func TestRegistry_ActivateIsCached(t *testing.T) {
	src := &countingSource{Source: NewCSVSource("testdata")}
	reg := NewRegistry(src)
	ctx := context.Background()

	first, err := reg.Activate(ctx, "sales")
	require.NoError(t, err)
	second, err := reg.Activate(ctx, "sales")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.loads.Load())

	reg.Forget("sales")
	_, err = reg.Activate(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.loads.Load())
}

func TestRegistry_ActivateUnknown(t *testing.T) {
	reg := NewRegistry(NewCSVSource("testdata"))

	_, err := reg.Activate(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestRegistry_ConcurrentActivate(t *testing.T) {
	src := &countingSource{Source: NewCSVSource("testdata")}
	reg := NewRegistry(src)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		seen = map[*Catalog]struct{}{}
	)
	for i := 0; i < 32; i++ {
		name := "sales"
		if i%2 == 1 {
			name = "foodmart"
		}
		g.Go(func() error {
			cat, err := reg.Activate(context.Background(), name)
			if err != nil {
				return err
			}
			mu.Lock()
			seen[cat] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, seen, 2)
	assert.Equal(t, int32(2), src.loads.Load())
}

// gatedSource blocks loads of one catalog until release is closed.
type gatedSource struct {
	Source
	gated   string
	started chan struct{}
	release chan struct{}
}

func (s *gatedSource) Load(ctx context.Context, name string) (*Catalog, error) {
	if name != s.gated {
		return s.Source.Load(ctx, name)
	}
	close(s.started)
	select {
	case <-s.release:
		return &Catalog{Name: name}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestRegistry_SlowLoadDoesNotBlockOthers(t *testing.T) {
	src := &gatedSource{
		Source:  NewCSVSource("testdata"),
		gated:   "slow",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	reg := NewRegistry(src)
	ctx := context.Background()

	_, err := reg.Activate(ctx, "sales")
	require.NoError(t, err)

	slow := make(chan error, 1)
	go func() {
		_, err := reg.Activate(ctx, "slow")
		slow <- err
	}()
	<-src.started

	others := make(chan error, 1)
	go func() {
		if _, err := reg.Activate(ctx, "sales"); err != nil {
			others <- err
			return
		}
		_, err := reg.Activate(ctx, "foodmart")
		others <- err
	}()

	select {
	case err := <-others:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("activation blocked behind an unrelated catalog load")
	}

	close(src.release)
	require.NoError(t, <-slow)
	cat, err := reg.Activate(ctx, "slow")
	require.NoError(t, err)
	assert.Equal(t, "slow", cat.Name)
}

func TestRegistry_CatalogsSkipsBrokenCatalog(t *testing.T) {
	reg := NewRegistry(NewCSVSource("testdata"))

	cats, err := reg.Catalogs(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "foodmart", cats[0].Name)
	assert.Equal(t, "sales", cats[1].Name)
}
