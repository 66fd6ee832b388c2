package tracker

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorage(t *testing.T, s Storage) {
	_, ok, err := s.GetItem("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem("key", "first"))
	require.NoError(t, s.SetItem("key", "second"))

	value, ok, err := s.GetItem("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestMemoryStorage(t *testing.T) {
	testStorage(t, NewMemoryStorage())
}

func TestSQLiteStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	testStorage(t, s)
	require.NoError(t, s.Close())

	t.Run("survives reopening", func(t *testing.T) {
		s, err := NewSQLiteStorage(path)
		require.NoError(t, err)
		defer s.Close()

		value, ok, err := s.GetItem("key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", value)
	})
}
