package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx stdlib driver

	"github.com/bgunnarsson/insuresql/internal/db"
)

type PostgresDB struct {
	db *sql.DB
}

func Open(dsn string) (*PostgresDB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty postgres DSN")
	}

	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}

	return &PostgresDB{db: sqldb}, nil
}

func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}

func (p *PostgresDB) SQL() *sql.DB { return p.db }

func (p *PostgresDB) Dialect() db.Dialect { return db.Postgres }

func (p *PostgresDB) ListTables(ctx context.Context) ([]string, error) {
	const q = `
SELECT table_schema || '.' || table_name AS name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name;
`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.ScanStrings(rows)
}

// DescribeTable returns column name, data type and declared length.
// Accepts either "table" or "schema.table". Unquoted names are folded to
// lower case the way postgres stores them.
func (p *PostgresDB) DescribeTable(ctx context.Context, table string) ([]db.Column, error) {
	schema := "public"
	name := table
	if dot := strings.Index(table, "."); dot != -1 {
		schema = table[:dot]
		name = table[dot+1:]
	}

	const q = `
SELECT column_name, data_type, COALESCE(character_maximum_length, 0)
FROM information_schema.columns
WHERE table_schema = $1
  AND table_name = $2
ORDER BY ordinal_position;
`
	rows, err := p.db.QueryContext(ctx, q, schema, strings.ToLower(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var colName, dataType string
		var length int64
		if err := rows.Scan(&colName, &dataType, &length); err != nil {
			return nil, err
		}
		cols = append(cols, db.Column{
			Name:   colName,
			Type:   dataType,
			Length: int(length),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}

func (p *PostgresDB) Query(ctx context.Context, sqlQuery string, args ...any) (*db.Rows, error) {
	rows, err := p.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.ScanRows(rows, normalize)
}

func normalize(v any, _ string) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
