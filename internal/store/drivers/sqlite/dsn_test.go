package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	t.Parallel()

	t.Run("bare path gains the pragma", func(t *testing.T) {
		require.Equal(t,
			"file:invertar.db?_pragma=foreign_keys(1)",
			normalizeDSN("file:invertar.db"),
		)
	})

	t.Run("in-memory gains the pragma", func(t *testing.T) {
		require.Equal(t, ":memory:?_pragma=foreign_keys(1)", normalizeDSN(":memory:"))
	})

	t.Run("existing options are appended to", func(t *testing.T) {
		require.Equal(t,
			"file:invertar.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
			normalizeDSN("file:invertar.db?_pragma=busy_timeout(5000)"),
		)
	})

	t.Run("explicit foreign_keys is left alone", func(t *testing.T) {
		dsn := "file:invertar.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
		require.Equal(t, dsn, normalizeDSN(dsn))
	})
}
