package insurance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bgunnarsson/insuresql/internal/db"
	"github.com/bgunnarsson/insuresql/internal/logger"
)

const (
	listProductsSQL   = "SELECT KurzBez FROM Produkt"
	findCustomerSQL   = "SELECT * FROM Kunden WHERE ID = ?"
	createContractSQL = "INSERT INTO Vertrag (ID, ProduktID, KundenID, Versicherungsbeginn) VALUES (?, ?, ?, ?)"
	contractDaysSQL   = "SELECT %s AS days FROM Vertrag WHERE ID = ?"

	daysPerMonth = 30
)

// Repository executes the insurance statements on a caller-owned connection.
// It never closes the connection. A Repository is not safe for concurrent
// use; callers sharing one connection across goroutines must serialise calls.
type Repository struct {
	conn    db.Querier
	dialect db.Dialect
}

func NewRepository(conn db.Querier, dialect db.Dialect) (*Repository, error) {
	if conn == nil {
		return nil, ErrConnectionNotSet
	}
	if sqldb, ok := conn.(*sql.DB); ok && sqldb == nil {
		return nil, ErrConnectionNotSet
	}
	return &Repository{conn: conn, dialect: dialect}, nil
}

func (r *Repository) rebind(ctx context.Context, op, query string) (string, error) {
	q, err := r.dialect.Rebind(query)
	if err != nil {
		return "", dataAccess(op, err)
	}
	logger.FromContext(ctx).Debug(op, "dialect", r.dialect.Name, "sql", q)
	return q, nil
}

// ListProductShortNames returns KurzBez of every product in result order.
func (r *Repository) ListProductShortNames(ctx context.Context) ([]string, error) {
	const op = "list product short names"
	q, err := r.rebind(ctx, op, listProductsSQL)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	defer rows.Close()

	names, err := db.ScanStrings(rows)
	if err != nil {
		return nil, dataAccess(op, err)
	}
	return names, nil
}

// FindCustomerByID reports false when no customer has the given id.
func (r *Repository) FindCustomerByID(ctx context.Context, id int64) (Customer, bool, error) {
	const op = "find customer"
	q, err := r.rebind(ctx, op, findCustomerSQL)
	if err != nil {
		return Customer{}, false, err
	}

	rows, err := r.conn.QueryContext(ctx, q, id)
	if err != nil {
		return Customer{}, false, dataAccess(op, err)
	}
	defer rows.Close()

	res, err := db.ScanRows(rows, nil)
	if err != nil {
		return Customer{}, false, dataAccess(op, err)
	}
	if len(res.Data) == 0 {
		return Customer{}, false, nil
	}

	c, err := customerFromRow(id, res.Columns, res.Data[0])
	if err != nil {
		return Customer{}, false, dataAccess(op, err)
	}
	return c, true, nil
}

func customerFromRow(id int64, cols []db.Column, row db.Row) (Customer, error) {
	c := Customer{ID: id}
	var nameSeen, birthSeen bool
	for i, col := range cols {
		switch strings.ToLower(col.Name) {
		case "name":
			switch v := row[i].(type) {
			case string:
				c.Name = v
			case []byte:
				c.Name = string(v)
			case nil:
			default:
				c.Name = fmt.Sprint(v)
			}
			nameSeen = true
		case "geburtsdatum":
			d, err := toDate(row[i])
			if err != nil {
				return Customer{}, fmt.Errorf("column %s: %w", col.Name, err)
			}
			c.Birthdate = d
			birthSeen = true
		}
	}
	if !nameSeen || !birthSeen {
		return Customer{}, errors.New("result lacks Name or Geburtsdatum column")
	}
	return c, nil
}

// CreateContract inserts a contract. Duplicate ids or unknown product and
// customer ids are reported by the driver and surface as ErrDataAccess.
func (r *Repository) CreateContract(ctx context.Context, c Contract) error {
	const op = "create contract"
	q, err := r.rebind(ctx, op, createContractSQL)
	if err != nil {
		return err
	}

	res, err := r.conn.ExecContext(ctx, q, c.ID, c.ProductID, c.CustomerID, c.InsuranceStart.String())
	if err != nil {
		return dataAccess(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n != 1 {
		return dataAccess(op, fmt.Errorf("%d rows affected, want 1", n))
	}
	return nil
}

// CalcMonthlyRate returns days/30 rounded half-up to two decimals, where days
// is the span between Versicherungsbeginn and Versicherungsende. It reports
// false when the contract does not exist.
func (r *Repository) CalcMonthlyRate(ctx context.Context, contractID int64) (decimal.Decimal, bool, error) {
	const op = "calc monthly rate"
	query := fmt.Sprintf(contractDaysSQL, r.dialect.DaysBetween("Versicherungsende", "Versicherungsbeginn"))
	q, err := r.rebind(ctx, op, query)
	if err != nil {
		return decimal.Decimal{}, false, err
	}

	var days sql.NullInt64
	err = r.conn.QueryRowContext(ctx, q, contractID).Scan(&days)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, dataAccess(op, err)
	}
	if !days.Valid {
		return decimal.Decimal{}, true, fmt.Errorf("contract %d: %w", contractID, ErrNoEndDate)
	}
	return MonthlyRate(days.Int64), true, nil
}

// MonthlyRate is days/30 rounded half away from zero to two places.
func MonthlyRate(days int64) decimal.Decimal {
	return decimal.NewFromInt(days).DivRound(decimal.NewFromInt(daysPerMonth), 2)
}
