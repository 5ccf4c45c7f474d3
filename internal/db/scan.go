package db

import (
	"database/sql"
	"strings"
)

// ValueFunc normalises a scanned driver value for display.
// dbType is the lower-cased database type name of the column.
type ValueFunc func(v any, dbType string) any

// ScanRows drains rows into a Rows value. It does not close rows.
func ScanRows(rows *sql.Rows, normalize ValueFunc) (*Rows, error) {
	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	header := make([]Column, len(colNames))
	dbTypes := make([]string, len(colNames))
	for i, name := range colNames {
		col := Column{Name: name}
		if i < len(colTypes) && colTypes[i] != nil {
			dbTypes[i] = strings.ToLower(colTypes[i].DatabaseTypeName())
			col.Type = dbTypes[i]
			if n, ok := colTypes[i].Length(); ok && n > 0 && n < 1<<16 {
				col.Length = int(n)
			}
		}
		header[i] = col
	}

	data := []Row{}
	for rows.Next() {
		values := make([]any, len(colNames))
		ptrs := make([]any, len(colNames))
		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		if normalize != nil {
			for i, v := range values {
				values[i] = normalize(v, dbTypes[i])
			}
		}

		data = append(data, Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Rows{
		Columns: header,
		Data:    data,
	}, nil
}

// ScanStrings drains a single-column result into a string slice.
func ScanStrings(rows *sql.Rows) ([]string, error) {
	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
