package db

import (
	"context"
	"database/sql"
)

type Column struct {
	Name string
	Type string
	// Length is the declared display length (e.g. VARCHAR(40)), 0 when unknown.
	Length int
}

type Row []any

type Rows struct {
	Columns []Column
	Data    []Row
}

// Querier is the open connection handle the insurance queries run on.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type DB interface {
	Close() error
	// SQL exposes the single open handle; it satisfies Querier.
	SQL() *sql.DB
	Dialect() Dialect
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]Column, error)
	Query(ctx context.Context, query string, args ...any) (*Rows, error)
}
