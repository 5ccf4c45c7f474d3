package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register driver

	"github.com/bgunnarsson/insuresql/internal/db"
)

type SqliteDB struct {
	db *sql.DB
}

func Open(path string) (*SqliteDB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}

	// Keep it simple: open by plain path, then enable pragmas explicitly.
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// A single connection also keeps ":memory:" databases alive.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(0)

	// Enable foreign keys.
	if _, err := sqldb.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = sqldb.Close()
		return nil, err
	}

	return &SqliteDB{db: sqldb}, nil
}

func (s *SqliteDB) Close() error {
	return s.db.Close()
}

func (s *SqliteDB) SQL() *sql.DB { return s.db }

func (s *SqliteDB) Dialect() db.Dialect { return db.SQLite }

func (s *SqliteDB) ListTables(ctx context.Context) ([]string, error) {
	// Use sqlite_master (works everywhere), include tables + views,
	// hide internal sqlite_% objects and goose bookkeeping.
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		  AND name <> 'goose_db_version'
		ORDER BY lower(name);
	`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.ScanStrings(rows)
}

func (s *SqliteDB) DescribeTable(ctx context.Context, table string) ([]db.Column, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s);", quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, db.Column{
			Name:   name,
			Type:   ctype,
			Length: declaredLength(ctype),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return cols, nil
}

func (s *SqliteDB) Query(ctx context.Context, sqlStr string, args ...any) (*db.Rows, error) {
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res, err := db.ScanRows(rows, nil)
	if err != nil {
		return nil, err
	}
	for i := range res.Columns {
		res.Columns[i].Type = strings.ToUpper(res.Columns[i].Type)
	}
	return res, nil
}

// declaredLength parses the n out of "VARCHAR(n)".
func declaredLength(ctype string) int {
	open := strings.IndexByte(ctype, '(')
	end := strings.IndexByte(ctype, ')')
	if open == -1 || end <= open+1 {
		return 0
	}
	var n int
	if _, err := fmt.Sscanf(ctype[open+1:end], "%d", &n); err != nil {
		return 0
	}
	return n
}

// very basic identifier quoting – enough for sqlite
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
