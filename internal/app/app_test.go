package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/insuresql/internal/insurance"
	"github.com/bgunnarsson/insuresql/internal/print"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s, err := Open(DriverSqlite, filepath.Join(t.TempDir(), "insurance.db"), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Migrate(t.Context())
	require.NoError(t, err)
	return s, &out
}

func TestOpen(t *testing.T) {
	t.Run("Should reject unknown drivers", func(t *testing.T) {
		_, err := Open(Driver("oracle"), "dsn", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported driver")
	})

	t.Run("Should reject empty DSNs for network drivers", func(t *testing.T) {
		for _, d := range []Driver{DriverMysql, DriverPostgres, DriverMssql} {
			_, err := Open(d, "", &bytes.Buffer{})
			assert.Error(t, err, d)
		}
	})
}

func TestSession_Insurance(t *testing.T) {
	t.Run("Should print one product per line", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.Products(t.Context()))
		assert.Equal(t, "KFZ\nHAUS\nLEBEN\n", out.String())
	})

	t.Run("Should print a customer", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.Customer(t.Context(), 2))
		assert.Equal(t, "Kunde{id=2, name=Jonas Weber, geburtsdatum=1992-11-02}\n", out.String())
	})

	t.Run("Should say when a customer does not exist", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.Customer(t.Context(), 77))
		assert.Equal(t, "customer 77 not found\n", out.String())
	})

	t.Run("Should create a contract and then fail on the duplicate", func(t *testing.T) {
		s, out := newTestSession(t)
		c := insurance.Contract{ID: 9, ProductID: 1, CustomerID: 2, InsuranceStart: civil.Date{Year: 2025, Month: 2, Day: 1}}

		require.NoError(t, s.CreateContract(t.Context(), c))
		assert.Equal(t, "contract 9 created\n", out.String())

		err := s.CreateContract(t.Context(), c)
		assert.ErrorIs(t, err, insurance.ErrDataAccess)
	})

	t.Run("Should print the monthly rate with two decimals", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.Rate(t.Context(), 1))
		require.NoError(t, s.Rate(t.Context(), 50))
		assert.Equal(t, "3.10\ncontract 50 not found\n", out.String())
	})
}

func TestSession_RunQuery(t *testing.T) {
	t.Run("Should render the result with fixed widths", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.RunQuery(t.Context(), "SELECT ID, KurzBez FROM Produkt WHERE ID = 1", []int{4, 5}))
		want := strings.Join([]string{
			"1 row selected.",
			"------------",
			"| ID |KurzB|",
			"------------",
			"| 1  | KFZ |",
			"------------",
			"",
		}, "\n")
		assert.Equal(t, want, out.String())
	})

	t.Run("Should render NULL cells", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.RunQuery(t.Context(), "SELECT Versicherungsende FROM Vertrag WHERE ID = 2", []int{6}))
		assert.Contains(t, out.String(), "\n| NULL |\n")
	})

	t.Run("Should report the empty result", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.RunQuery(t.Context(), "SELECT * FROM Kunden WHERE ID = -1", nil))
		assert.Equal(t, "No rows selected.\n", out.String())
	})

	t.Run("Should reject mismatching widths", func(t *testing.T) {
		s, _ := newTestSession(t)

		err := s.RunQuery(t.Context(), "SELECT ID, Name FROM Kunden", []int{3})
		assert.ErrorIs(t, err, print.ErrWidthMismatch)
	})

	t.Run("Should list tables for an empty query", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.RunQuery(t.Context(), "", nil))
		assert.True(t, strings.HasPrefix(out.String(), "3 rows selected.\n"))
		assert.Contains(t, out.String(), "Vertrag")
	})
}

func TestSession_Describe(t *testing.T) {
	t.Run("Should print the table's columns", func(t *testing.T) {
		s, out := newTestSession(t)

		require.NoError(t, s.Describe(t.Context(), "Produkt"))
		assert.True(t, strings.HasPrefix(out.String(), "3 rows selected.\n"))
		assert.Contains(t, out.String(), "KurzBez")
		assert.Contains(t, out.String(), "VARCHAR(10)")
	})
}
