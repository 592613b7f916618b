package store_test

import (
	"path/filepath"
	"testing"

	"github.com/nDmitry/rssposter/internal/entity"
	"github.com/nDmitry/rssposter/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T, path string) *store.SQLStore {
	t.Helper()

	s, err := store.OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSQLStore_RoundTrip(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "posted.db"))

	assert.Equal(t, entity.NewPostedSet(), s.Load(t.Context()))

	posted := entity.NewPostedSet("a", "b")
	require.NoError(t, s.Save(t.Context(), posted))
	assert.Equal(t, posted, s.Load(t.Context()))

	require.NoError(t, s.Save(t.Context(), entity.NewPostedSet("c")))
	assert.Equal(t, entity.NewPostedSet("c"), s.Load(t.Context()))
}

func TestSQLStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "posted.db")

	first, err := store.OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, first.Save(t.Context(), entity.NewPostedSet("a")))
	require.NoError(t, first.Close())

	second := openTestSQLite(t, path)
	assert.Equal(t, entity.NewPostedSet("a"), second.Load(t.Context()))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := store.OpenSQLite(t.Context(), " ")
	assert.Error(t, err)
}
