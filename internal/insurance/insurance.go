// Package insurance runs the fixed queries over the insurance schema:
// product short names, customer lookup, contract creation and the
// monthly rate derived from a contract's duration.
package insurance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

var (
	// ErrConnectionNotSet is returned when a Repository is built without a connection.
	ErrConnectionNotSet = errors.New("connection not set")

	// ErrDataAccess wraps every failure reported by the driver.
	ErrDataAccess = errors.New("data access failed")

	// ErrNoEndDate means the contract has no Versicherungsende, so no rate can be derived.
	ErrNoEndDate = errors.New("contract has no end date")
)

type Customer struct {
	ID        int64
	Name      string
	Birthdate civil.Date
}

func (c Customer) String() string {
	return fmt.Sprintf("Kunde{id=%d, name=%s, geburtsdatum=%s}", c.ID, c.Name, c.Birthdate)
}

type Contract struct {
	ID             int64
	ProductID      int64
	CustomerID     int64
	InsuranceStart civil.Date
}

func dataAccess(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, op, err)
}

// toDate accepts the shapes drivers hand back for DATE columns.
func toDate(v any) (civil.Date, error) {
	switch x := v.(type) {
	case time.Time:
		return civil.DateOf(x), nil
	case []byte:
		return parseDate(string(x))
	case string:
		return parseDate(x)
	case nil:
		return civil.Date{}, errors.New("date is NULL")
	default:
		return civil.Date{}, fmt.Errorf("unsupported date value %T", v)
	}
}

func parseDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return civil.ParseDate(s)
}
