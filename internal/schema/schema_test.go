package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/insuresql/internal/db/sqlite"
)

func TestMigrate(t *testing.T) {
	t.Run("Should create the insurance tables", func(t *testing.T) {
		sdb, err := sqlite.Open(":memory:")
		require.NoError(t, err)
		defer sdb.Close()

		require.NoError(t, Migrate(t.Context(), sdb.SQL(), sdb.Dialect()))

		tables, err := sdb.ListTables(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []string{"Kunden", "Produkt", "Vertrag"}, tables)
	})

	t.Run("Should seed products, customers and contracts", func(t *testing.T) {
		sdb, err := sqlite.Open(":memory:")
		require.NoError(t, err)
		defer sdb.Close()

		require.NoError(t, Migrate(t.Context(), sdb.SQL(), sdb.Dialect()))

		for table, want := range map[string]int{"Produkt": 3, "Kunden": 2, "Vertrag": 2} {
			var n int
			require.NoError(t, sdb.SQL().QueryRowContext(t.Context(), "SELECT COUNT(*) FROM "+table).Scan(&n))
			assert.Equal(t, want, n, table)
		}
	})

	t.Run("Should be a no-op when applied twice", func(t *testing.T) {
		sdb, err := sqlite.Open(":memory:")
		require.NoError(t, err)
		defer sdb.Close()

		require.NoError(t, Migrate(t.Context(), sdb.SQL(), sdb.Dialect()))
		require.NoError(t, Migrate(t.Context(), sdb.SQL(), sdb.Dialect()))

		v, err := Version(t.Context(), sdb.SQL(), sdb.Dialect())
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)
	})
}
