package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/bgunnarsson/insuresql/internal/db"
)

type MysqlDB struct {
	db *sql.DB
}

func Open(dsn string) (*MysqlDB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty mysql DSN")
	}

	sqldb, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// One connection for the whole session, no pool.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, err
	}

	return &MysqlDB{db: sqldb}, nil
}

// --- db.DB implementation ---

func (m *MysqlDB) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

func (m *MysqlDB) SQL() *sql.DB { return m.db }

func (m *MysqlDB) Dialect() db.Dialect { return db.MySQL }

func (m *MysqlDB) ListTables(ctx context.Context) ([]string, error) {
	const q = `
SELECT table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema = DATABASE()
ORDER BY table_name;
`
	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.ScanStrings(rows)
}

func (m *MysqlDB) DescribeTable(ctx context.Context, table string) ([]db.Column, error) {
	const q = `
SELECT column_name, data_type, COALESCE(character_maximum_length, 0)
FROM information_schema.columns
WHERE table_schema = DATABASE()
  AND table_name = ?
ORDER BY ordinal_position;
`
	rows, err := m.db.QueryContext(ctx, q, table)
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

func (m *MysqlDB) Query(ctx context.Context, sqlQuery string, args ...any) (*db.Rows, error) {
	rows, err := m.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return db.ScanRows(rows, normalize)
}

func normalize(v any, _ string) any {
	// MySQL returns TEXT/VARCHAR/DATE as []byte without parseTime
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
