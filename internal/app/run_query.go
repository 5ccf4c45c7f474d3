package app

import (
	"context"
	"strconv"

	"github.com/bgunnarsson/insuresql/internal/db"
	"github.com/bgunnarsson/insuresql/internal/print"
	"github.com/bgunnarsson/insuresql/internal/schema"
)

// RunQuery executes an arbitrary statement and prints the bordered table.
// A nil widths slice sizes the columns from the result.
func (s *Session) RunQuery(ctx context.Context, query string, widths []int) error {
	if query == "" {
		// default behaviour: list tables
		return s.Tables(ctx)
	}

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return err
	}

	return print.RenderTable(s.Out, rows, print.Options{Widths: widths, MaxWidth: s.MaxWidth})
}

func (s *Session) Tables(ctx context.Context) error {
	tables, err := s.db.ListTables(ctx)
	if err != nil {
		return err
	}

	rows := &db.Rows{Columns: []db.Column{{Name: "table"}}, Data: []db.Row{}}
	for _, t := range tables {
		rows.Data = append(rows.Data, db.Row{t})
	}
	return print.RenderTable(s.Out, rows, print.Options{MaxWidth: s.MaxWidth})
}

func (s *Session) Describe(ctx context.Context, table string) error {
	cols, err := s.db.DescribeTable(ctx, table)
	if err != nil {
		return err
	}

	rows := &db.Rows{
		Columns: []db.Column{{Name: "column"}, {Name: "type"}, {Name: "length"}},
		Data:    make([]db.Row, 0, len(cols)),
	}
	for _, c := range cols {
		var length any
		if c.Length > 0 {
			length = strconv.Itoa(c.Length)
		}
		rows.Data = append(rows.Data, db.Row{c.Name, c.Type, length})
	}
	return print.RenderTable(s.Out, rows, print.Options{MaxWidth: s.MaxWidth})
}

// Migrate applies the embedded insurance schema and seed data.
func (s *Session) Migrate(ctx context.Context) (int64, error) {
	if err := schema.Migrate(ctx, s.db.SQL(), s.db.Dialect()); err != nil {
		return 0, err
	}
	return schema.Version(ctx, s.db.SQL(), s.db.Dialect())
}
