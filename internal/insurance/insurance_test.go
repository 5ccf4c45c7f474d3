package insurance

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgunnarsson/insuresql/internal/db"
)

func TestStatements(t *testing.T) {
	t.Run("Should issue the canonical MySQL statements", func(t *testing.T) {
		assert.Equal(t, "SELECT KurzBez FROM Produkt", listProductsSQL)
		assert.Equal(t, "SELECT * FROM Kunden WHERE ID = ?", findCustomerSQL)
		assert.Equal(t,
			"INSERT INTO Vertrag (ID, ProduktID, KundenID, Versicherungsbeginn) VALUES (?, ?, ?, ?)",
			createContractSQL,
		)
		assert.Equal(t,
			"SELECT DATEDIFF(Versicherungsende, Versicherungsbeginn) AS days FROM Vertrag WHERE ID = ?",
			fmt.Sprintf(contractDaysSQL, db.MySQL.DaysBetween("Versicherungsende", "Versicherungsbeginn")),
		)
	})
}

func TestToDate(t *testing.T) {
	want := civil.Date{Year: 1985, Month: time.March, Day: 14}

	t.Run("Should accept driver date shapes", func(t *testing.T) {
		for _, v := range []any{
			time.Date(1985, time.March, 14, 0, 0, 0, 0, time.UTC),
			"1985-03-14",
			[]byte("1985-03-14"),
			"1985-03-14 00:00:00",
			"1985-03-14T00:00:00Z",
		} {
			got, err := toDate(v)
			require.NoError(t, err, v)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Should reject NULL and unknown types", func(t *testing.T) {
		_, err := toDate(nil)
		assert.Error(t, err)
		_, err = toDate(42)
		assert.Error(t, err)
		_, err = toDate("14.03.1985")
		assert.Error(t, err)
	})
}

func TestCustomer_String(t *testing.T) {
	t.Run("Should render all fields", func(t *testing.T) {
		c := Customer{ID: 1, Name: "Anna Schmidt", Birthdate: civil.Date{Year: 1985, Month: time.March, Day: 14}}
		assert.Equal(t, "Kunde{id=1, name=Anna Schmidt, geburtsdatum=1985-03-14}", c.String())
	})
}
