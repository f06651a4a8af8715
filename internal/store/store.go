// Package store reads and builds SQLite dataset bundles.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoTable is returned when a bundle has no table with the requested name.
var ErrNoTable = errors.New("table not found")

// Store wraps SQLite access to a bundle of dataset tables.
type Store struct {
	db       *sql.DB
	readOnly bool
}

// Open opens an existing bundle read-only.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "failed to stat bundle")
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open bundle")
	}
	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on ping failure.
			_ = cerr
		}
		return nil, errors.Wrap(err, "failed to open bundle")
	}
	return &Store{db: db, readOnly: true}, nil
}

// Create opens or creates a bundle for writing.
func Create(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create bundle directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bundle")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tables lists the bundle's tables by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *Store) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up table %s", name)
	}
	return n > 0, nil
}

// ReadTable returns the column names and every row of a table as text.
// NULL cells read as empty strings.
func (s *Store) ReadTable(ctx context.Context, name string) ([]string, [][]string, error) {
	ok, err := s.hasTable(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.Wrapf(ErrNoTable, "%s", name)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, quoteIdent(name)))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to query %s", name)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	header, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}

	var records [][]string
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to scan %s row %d", name, len(records)+1)
		}
		record := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return header, records, nil
}

// WriteTable replaces a table with the given text columns and rows.
func (s *Store) WriteTable(ctx context.Context, name string, header []string, records [][]string) (err error) {
	if s.readOnly {
		return errors.New("bundle is opened read-only")
	}
	if len(header) == 0 {
		return errors.Newf("table %s has no columns", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	cols := make([]string, len(header))
	placeholders := make([]string, len(header))
	for i, h := range header {
		cols[i] = quoteIdent(h) + " TEXT"
		placeholders[i] = "?"
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(name))); err != nil {
		return errors.Wrapf(err, "failed to drop %s", name)
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (%s)`, quoteIdent(name), strings.Join(cols, ", "))); err != nil {
		return errors.Wrapf(err, "failed to create %s", name)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s VALUES (%s)`,
		quoteIdent(name), strings.Join(placeholders, ", ")))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	args := make([]any, len(header))
	for n, record := range records {
		for i := range args {
			args[i] = nil
			if i < len(record) && record[i] != "" {
				args[i] = record[i]
			}
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "failed to insert %s row %d", name, n+1)
		}
	}

	err = tx.Commit()
	return err
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
