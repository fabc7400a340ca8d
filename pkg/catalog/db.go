package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
)

// DBSource reads catalogs from a PostgreSQL database. Every schema that
// contains a table named facts is a catalog holding one cube; the other
// tables of the schema are its dimensions.
type DBSource struct {
	db *sql.DB
}

// DBOptions tunes the connection pool and the connect retry policy.
type DBOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts uint
	ConnectDelay    time.Duration
}

// DefaultDBOptions returns the pool settings used by OpenDBSource.
func DefaultDBOptions() DBOptions {
	return DBOptions{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectAttempts: 3,
		ConnectDelay:    time.Second,
	}
}

// OpenDBSource connects to dsn through the pgx driver and waits for the
// database to answer, retrying with exponential backoff.
func OpenDBSource(ctx context.Context, dsn string, opts DBOptions) (*DBSource, error) {
	if dsn == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	attempts := opts.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	err = retry.Do(func() error {
		return db.PingContext(ctx)
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(opts.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &DBSource{db: db}, nil
}

// NewDBSource wraps an already opened database handle.
func NewDBSource(db *sql.DB) *DBSource {
	return &DBSource{db: db}
}

const namesQuery = `
SELECT table_schema
FROM information_schema.tables
WHERE table_name = $1
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema`

// Names lists schemas that have a facts table.
func (s *DBSource) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, namesQuery, FactsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan catalog name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

const columnsQuery = `
SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`

// Load reads the column layout of every table in the catalog schema.
func (s *DBSource) Load(ctx context.Context, name string) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, columnsQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	cube := &Cube{Name: name, Caption: Caption(name), Catalog: name, Location: name}
	var (
		hasFacts bool
		current  *Dimension
	)
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", name, err)
		}
		if table == FactsTable {
			hasFacts = true
			if isNumericType(dataType) && !isKeyColumn(column) {
				cube.Measures = append(cube.Measures, column)
			}
			continue
		}
		if current == nil || current.Name != table {
			cube.Dimensions = append(cube.Dimensions, Dimension{Name: table, Caption: Caption(table)})
			current = &cube.Dimensions[len(cube.Dimensions)-1]
		}
		current.Levels = append(current.Levels, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}
	if !hasFacts {
		return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, name)
	}

	return &Catalog{
		Name:    name,
		Caption: cube.Caption,
		Cubes:   []*Cube{cube},
		Updated: time.Now(),
	}, nil
}

// Totals runs a single SUM aggregate over the facts table.
func (s *DBSource) Totals(ctx context.Context, cube *Cube, measures []string) ([]float64, error) {
	if len(measures) == 0 {
		return nil, nil
	}
	sums := make([]string, len(measures))
	for i, m := range measures {
		sums[i] = fmt.Sprintf("COALESCE(SUM(%s)::numeric, 0)::float8", pq.QuoteIdentifier(m))
	}
	query := fmt.Sprintf("SELECT %s FROM %s.%s",
		strings.Join(sums, ", "),
		pq.QuoteIdentifier(cube.Location),
		pq.QuoteIdentifier(FactsTable),
	)

	totals := make([]float64, len(measures))
	dest := make([]any, len(measures))
	for i := range totals {
		dest[i] = &totals[i]
	}
	if err := s.db.QueryRowContext(ctx, query).Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", cube.Name, err)
	}
	return totals, nil
}

// Close closes the connection pool.
func (s *DBSource) Close() error {
	return s.db.Close()
}

func isNumericType(dataType string) bool {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "numeric", "decimal", "real", "double precision", "money":
		return true
	}
	return false
}
