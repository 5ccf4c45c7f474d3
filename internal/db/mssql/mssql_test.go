package mssql

import (
	"testing"

	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/stretchr/testify/assert"
)

func TestDriverName(t *testing.T) {
	t.Run("Should use the Azure AD driver for fedauth DSNs", func(t *testing.T) {
		assert.Equal(t, azuread.DriverName, driverName("sqlserver://host?database=vers&fedauth=ActiveDirectoryAzCli"))
	})

	t.Run("Should use sqlserver otherwise", func(t *testing.T) {
		assert.Equal(t, "sqlserver", driverName("sqlserver://sa:pw@localhost:1433?database=vers"))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("Should format uniqueidentifier bytes in SQL Server order", func(t *testing.T) {
		b := []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
		assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", normalize(b, "uniqueidentifier"))
	})

	t.Run("Should keep decimals as text", func(t *testing.T) {
		assert.Equal(t, "3.10", normalize([]byte("3.10"), "decimal"))
	})

	t.Run("Should hex encode other binary values", func(t *testing.T) {
		assert.Equal(t, "0x0102", normalize([]byte{1, 2}, "varbinary"))
	})

	t.Run("Should pass non-binary values through", func(t *testing.T) {
		assert.Equal(t, int64(5), normalize(int64(5), "int"))
		assert.Nil(t, normalize(nil, "date"))
	})
}
