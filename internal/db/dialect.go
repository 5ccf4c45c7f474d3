package db

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect describes how a driver differs from the canonical MySQL statements:
// placeholder style and the day-difference expression.
type Dialect struct {
	Name string
	// Goose is the dialect name understood by pressly/goose.
	Goose       string
	Placeholder sq.PlaceholderFormat
	daysBetween func(end, start string) string
}

var (
	MySQL = Dialect{
		Name:        "mysql",
		Goose:       "mysql",
		Placeholder: sq.Question,
		daysBetween: func(end, start string) string {
			return fmt.Sprintf("DATEDIFF(%s, %s)", end, start)
		},
	}
	Postgres = Dialect{
		Name:        "postgres",
		Goose:       "postgres",
		Placeholder: sq.Dollar,
		daysBetween: func(end, start string) string {
			return fmt.Sprintf("(%s - %s)", end, start)
		},
	}
	MSSQL = Dialect{
		Name:        "mssql",
		Goose:       "mssql",
		Placeholder: sq.AtP,
		daysBetween: func(end, start string) string {
			return fmt.Sprintf("DATEDIFF(day, %s, %s)", start, end)
		},
	}
	SQLite = Dialect{
		Name:        "sqlite",
		Goose:       "sqlite3",
		Placeholder: sq.Question,
		daysBetween: func(end, start string) string {
			return fmt.Sprintf("CAST(julianday(%s) - julianday(%s) AS INTEGER)", end, start)
		},
	}
)

// DaysBetween returns an integer expression for the number of days from start to end.
func (d Dialect) DaysBetween(end, start string) string {
	if d.daysBetween == nil {
		return MySQL.daysBetween(end, start)
	}
	return d.daysBetween(end, start)
}

// Rebind rewrites '?' placeholders into the dialect's style.
func (d Dialect) Rebind(query string) (string, error) {
	if d.Placeholder == nil {
		return query, nil
	}
	return d.Placeholder.ReplacePlaceholders(query)
}
