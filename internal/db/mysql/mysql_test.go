package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Should turn text bytes into strings", func(t *testing.T) {
		assert.Equal(t, "KFZ", normalize([]byte("KFZ"), "varchar"))
		assert.Equal(t, "2024-01-01", normalize([]byte("2024-01-01"), "date"))
	})

	t.Run("Should keep NULL and numbers", func(t *testing.T) {
		assert.Nil(t, normalize(nil, "date"))
		assert.Equal(t, int64(93), normalize(int64(93), "bigint"))
	})
}

func TestOpen(t *testing.T) {
	t.Run("Should reject an empty DSN", func(t *testing.T) {
		_, err := Open("")
		assert.EqualError(t, err, "empty mysql DSN")
	})
}
