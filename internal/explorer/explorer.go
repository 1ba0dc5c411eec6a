// Package explorer provides ad-hoc read-only SQL over the loaded datasets.
package explorer

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/plantaxis/plantaxis/internal/dataset"
	apperrors "github.com/plantaxis/plantaxis/internal/errors"
	"github.com/plantaxis/plantaxis/pkg/types"
)

// Explorer mounts the loaded datasets into an in-memory SQLite database
// and serves SELECT queries against them. The database is rebuilt on
// every Mount, so a reload swaps the queryable tables atomically from
// the caller's point of view.
type Explorer struct {
	mu sync.Mutex

	db      *sql.DB
	maxRows int
	timeout time.Duration
	mounted bool
}

// New opens the in-memory database. A single connection is pinned so the
// shared-nothing memory DSN keeps its contents between queries.
func New(maxRows int, timeout time.Duration) (*Explorer, error) {
	if maxRows <= 0 {
		maxRows = 1000
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	db, err := sql.Open("sqlite3", "file:plantaxis?mode=memory")
	if err != nil {
		return nil, apperrors.NewExplorerError(apperrors.CodeQueryFailed,
			"failed to open in-memory database", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Explorer{db: db, maxRows: maxRows, timeout: timeout}, nil
}

// Close releases the underlying database.
func (e *Explorer) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.Close()
}

// Mounted reports whether a dataset bundle is currently queryable.
func (e *Explorer) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted
}

// Mount rebuilds the queryable tables from a dataset bundle. Tables for
// absent optional datasets are simply not created.
func (e *Explorer) Mount(ctx context.Context, b *dataset.Bundle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.db.ExecContext(ctx, "PRAGMA query_only = OFF"); err != nil {
		return mountErr(err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return mountErr(err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DROP TABLE IF EXISTS plants",
		"DROP TABLE IF EXISTS companies",
		"DROP TABLE IF EXISTS environment",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return mountErr(err)
		}
	}

	if err := mountPlants(ctx, tx, b.Plants); err != nil {
		return err
	}
	if b.HasCompanies() {
		if err := mountCompanies(ctx, tx, b.Companies); err != nil {
			return err
		}
	}
	if b.HasEnv() {
		if err := mountEnvironment(ctx, tx, b.Env); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return mountErr(err)
	}
	if _, err := e.db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return mountErr(err)
	}
	e.mounted = true
	return nil
}

// Result holds the rows of one explorer query. Values are SQLite-typed:
// strings, float64s, int64s, or nil.
type Result struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Truncated bool     `json:"truncated"`
}

// Query runs one SELECT statement and returns at most the configured row
// cap. Anything that is not a plain SELECT (or WITH ... SELECT) is
// rejected before touching the database.
func (e *Explorer) Query(ctx context.Context, query string) (*Result, error) {
	if err := validate(query); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mounted {
		return nil, apperrors.NewExplorerError(apperrors.CodeQueryRejected,
			"no dataset mounted", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewExplorerError(apperrors.CodeQueryFailed,
			"query failed", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apperrors.NewExplorerError(apperrors.CodeQueryFailed,
			"query failed", err)
	}

	res := &Result{Columns: cols}
	scan := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}

	for rows.Next() {
		if len(res.Rows) >= e.maxRows {
			res.Truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.NewExplorerError(apperrors.CodeQueryFailed,
				"row scan failed", err)
		}
		row := make([]any, len(cols))
		for i, v := range scan {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = v
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewExplorerError(apperrors.CodeQueryFailed,
			"query failed", err)
	}
	return res, nil
}

// validate rejects non-SELECT statements. query_only is the backstop;
// this gives a clean error before SQLite sees the statement.
func validate(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return apperrors.NewExplorerError(apperrors.CodeQueryRejected,
			"empty query", nil)
	}
	upper := strings.ToUpper(q)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return apperrors.NewExplorerError(apperrors.CodeQueryRejected,
			"only SELECT queries are allowed", nil)
	}
	// One statement only: a trailing semicolon is fine, an embedded one
	// is not.
	if i := strings.Index(q, ";"); i >= 0 && strings.TrimSpace(q[i+1:]) != "" {
		return apperrors.NewExplorerError(apperrors.CodeQueryRejected,
			"multiple statements are not allowed", nil)
	}
	return nil
}

func mountPlants(ctx context.Context, tx *sql.Tx, t *types.PlantTable) error {
	const create = `CREATE TABLE plants (
		plant_name TEXT,
		owner TEXT,
		country TEXT,
		capacity_ttpa REAL,
		latitude REAL,
		longitude REAL,
		plant_age_years REAL
	)`
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return mountErr(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO plants VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return mountErr(err)
	}
	defer stmt.Close()

	for i := range t.Rows {
		r := &t.Rows[i]
		_, err := stmt.ExecContext(ctx,
			nullText(r.Name), nullText(r.Owner), nullText(r.Country),
			nullFloat(r.Capacity), nullFloat(r.Latitude),
			nullFloat(r.Longitude), nullFloat(r.AgeYears))
		if err != nil {
			return mountErr(err)
		}
	}
	return nil
}

func mountCompanies(ctx context.Context, tx *sql.Tx, t *types.CompanyTable) error {
	const create = `CREATE TABLE companies (
		owner TEXT,
		total_capacity REAL,
		number_of_plants INTEGER,
		number_of_countries INTEGER
	)`
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return mountErr(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO companies VALUES (?, ?, ?, ?)")
	if err != nil {
		return mountErr(err)
	}
	defer stmt.Close()

	for i := range t.Rows {
		r := &t.Rows[i]
		_, err := stmt.ExecContext(ctx,
			nullText(r.Owner), r.TotalCapacity, r.PlantCount, r.CountryCount)
		if err != nil {
			return mountErr(err)
		}
	}
	return nil
}

func mountEnvironment(ctx context.Context, tx *sql.Tx, t *types.EnvTable) error {
	const create = `CREATE TABLE environment (
		plant_name TEXT,
		owner TEXT,
		country TEXT,
		capacity_ttpa REAL,
		value REAL,
		latitude_left REAL,
		longitude_left REAL,
		region TEXT
	)`
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return mountErr(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO environment VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return mountErr(err)
	}
	defer stmt.Close()

	for i := range t.Rows {
		r := &t.Rows[i]
		var region any
		if r.Region != nil {
			region = *r.Region
		}
		_, err := stmt.ExecContext(ctx,
			nullText(r.Name), nullText(r.Owner), nullText(r.Country),
			nullFloat(r.Capacity), nullFloat(r.Value),
			nullFloat(r.LatitudeLeft), nullFloat(r.LongitudeLeft), region)
		if err != nil {
			return mountErr(err)
		}
	}
	return nil
}

func mountErr(err error) error {
	return apperrors.NewExplorerError(apperrors.CodeQueryFailed,
		"failed to mount dataset", err)
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
