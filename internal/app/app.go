package app

import (
	"fmt"
	"io"

	"github.com/bgunnarsson/insuresql/internal/db"
	"github.com/bgunnarsson/insuresql/internal/db/mssql"
	"github.com/bgunnarsson/insuresql/internal/db/mysql"
	"github.com/bgunnarsson/insuresql/internal/db/postgres"
	"github.com/bgunnarsson/insuresql/internal/db/sqlite"
	"github.com/bgunnarsson/insuresql/internal/insurance"
)

type Driver string

const (
	DriverSqlite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMssql    Driver = "mssql"
	DriverMysql    Driver = "mysql"
)

// central factory
func openDB(driver Driver, dsn string) (db.DB, error) {
	switch driver {
	case "", DriverSqlite:
		return sqlite.Open(dsn)
	case DriverPostgres:
		return postgres.Open(dsn)
	case DriverMssql:
		return mssql.Open(dsn)
	case DriverMysql:
		return mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Session is one open connection plus the insurance queries bound to it.
// Every command writes its result to Out.
type Session struct {
	Out      io.Writer
	MaxWidth int

	db   db.DB
	repo *insurance.Repository
}

func Open(driver Driver, dsn string, out io.Writer) (*Session, error) {
	sdb, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverLabel(driver), err)
	}
	return newSession(sdb, out)
}

func newSession(sdb db.DB, out io.Writer) (*Session, error) {
	repo, err := insurance.NewRepository(sdb.SQL(), sdb.Dialect())
	if err != nil {
		_ = sdb.Close()
		return nil, err
	}
	return &Session{Out: out, db: sdb, repo: repo}, nil
}

func (s *Session) Close() error {
	return s.db.Close()
}

func driverLabel(driver Driver) string {
	if driver == "" {
		return string(DriverSqlite)
	}
	return string(driver)
}
