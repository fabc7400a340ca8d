package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// CubesDir is the directory under the data directory that holds one
// sub-directory per catalog.
const CubesDir = "cubes"

// CSVSource reads catalogs from <dataDir>/cubes/<catalog>/*.csv.
//
// The file named facts.csv holds the measures; every other CSV file in the
// catalog directory (searched recursively) becomes a dimension.
type CSVSource struct {
	root string
}

// NewCSVSource creates a source rooted at dataDir.
func NewCSVSource(dataDir string) *CSVSource {
	return &CSVSource{root: filepath.Join(dataDir, CubesDir)}
}

// Root returns the directory scanned for catalogs.
func (s *CSVSource) Root() string {
	return s.root
}

// Names lists catalog directories in sorted order.
func (s *CSVSource) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cubes directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads the headers of every CSV file of a catalog.
func (s *CSVSource) Load(_ context.Context, name string) (*Catalog, error) {
	dir, err := s.catalogDir(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}

	files, err := doublestar.Glob(os.DirFS(dir), "**/*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to list csv files for %s: %w", name, err)
	}
	sort.Strings(files)

	cube := &Cube{Name: name, Caption: Caption(name), Catalog: name}
	for _, rel := range files {
		table := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		full := filepath.Join(dir, filepath.FromSlash(rel))

		if strings.EqualFold(table, FactsTable) {
			measures, err := numericColumns(full)
			if err != nil {
				return nil, fmt.Errorf("failed to read facts of %s: %w", name, err)
			}
			cube.Measures = measures
			cube.Location = full
			continue
		}

		header, _, err := readHead(full)
		if err != nil {
			return nil, fmt.Errorf("failed to read dimension %s of %s: %w", table, name, err)
		}
		cube.Dimensions = append(cube.Dimensions, Dimension{
			Name:    table,
			Caption: Caption(table),
			Levels:  header,
		})
	}
	if cube.Location == "" {
		return nil, fmt.Errorf("catalog %s has no %s.csv", name, FactsTable)
	}

	return &Catalog{
		Name:    name,
		Caption: cube.Caption,
		Cubes:   []*Cube{cube},
		Updated: info.ModTime(),
	}, nil
}

// Totals scans the facts file and sums the requested columns.
func (s *CSVSource) Totals(ctx context.Context, cube *Cube, measures []string) ([]float64, error) {
	f, err := os.Open(cube.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to open facts of %s: %w", cube.Name, err)
	}
	defer func() { _ = f.Close() }()

	r, err := newReader(f)
	if err != nil {
		return nil, err
	}
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read facts header of %s: %w", cube.Name, err)
	}

	index := make([]int, len(measures))
	for i, m := range measures {
		index[i] = columnIndex(header, m)
		if index[i] < 0 {
			return nil, fmt.Errorf("measure %q not found in %s", m, cube.Name)
		}
	}

	totals := make([]float64, len(measures))
	for row := 0; ; row++ {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read facts of %s: %w", cube.Name, err)
		}
		for i, col := range index {
			if col >= len(record) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				continue
			}
			totals[i] += v
		}
	}
	return totals, nil
}

// Close is a no-op for CSV sources.
func (s *CSVSource) Close() error {
	return nil
}

func (s *CSVSource) catalogDir(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrCatalogNotFound, name)
	}
	return filepath.Join(s.root, name), nil
}

// numericColumns returns the columns of a facts file whose first data row
// parses as a number. Key columns (id or *_id) are skipped.
func numericColumns(file string) ([]string, error) {
	header, first, err := readHead(file)
	if err != nil {
		return nil, err
	}
	var measures []string
	for i, col := range header {
		if isKeyColumn(col) || i >= len(first) {
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(first[i]), 64); err == nil {
			measures = append(measures, col)
		}
	}
	return measures, nil
}

// readHead returns the header and the first data row (nil if the file has
// no data) of a CSV file.
func readHead(file string) ([]string, []string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := newReader(f)
	if err != nil {
		return nil, nil, err
	}
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("missing header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	first, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	return header, first, nil
}

// newReader sniffs the delimiter from the first line. Files exported by
// spreadsheet tools in some locales use ';'.
func newReader(f *os.File) (*csv.Reader, error) {
	buf := make([]byte, 4096)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if strings.Count(line, ";") > strings.Count(line, ",") {
		r.Comma = ';'
	}
	return r, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == name {
			return i
		}
	}
	return -1
}

func isKeyColumn(col string) bool {
	lower := strings.ToLower(col)
	return lower == "id" || strings.HasSuffix(lower, "_id")
}
