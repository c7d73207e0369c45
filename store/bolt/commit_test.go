package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *CommitStore {
	t.Helper()
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())
	return s
}

func TestCommitAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.db")

	s := openTestStore(t, path)
	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("cursor"), []byte{2}))
	require.NoError(t, cache.Set([]byte("total"), []byte{7}))
	require.NoError(t, cache.Write())

	// Visible in the working state before the commit.
	got, err := s.Get([]byte("cursor"))
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, got)

	first, err := s.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Version)
	assert.Len(t, first.Hash, 32)
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()

	loaded, err := s.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, first, loaded)

	got, err = s.Get([]byte("total"))
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, got)

	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("total")))
	require.NoError(t, cache.Write())
	second, err := s.Commit()
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	has, err := s.Has([]byte("total"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSameWritesSameHash(t *testing.T) {
	dir := t.TempDir()
	a := openTestStore(t, filepath.Join(dir, "a.db"))
	defer a.Close()
	b := openTestStore(t, filepath.Join(dir, "b.db"))
	defer b.Close()

	for _, s := range []*CommitStore{a, b} {
		cache := s.CacheWrap()
		require.NoError(t, cache.Set([]byte("k1"), []byte("v1")))
		require.NoError(t, cache.Set([]byte("k2"), []byte("v2")))
		require.NoError(t, cache.Write())
	}
	ida, err := a.Commit()
	require.NoError(t, err)
	idb, err := b.Commit()
	require.NoError(t, err)
	assert.Equal(t, ida, idb)
}

func TestDiscardedCacheIsNotCommitted(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))
	defer s.Close()

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("a"), []byte("b")))
	cache.Discard()

	_, err := s.Commit()
	require.NoError(t, err)

	has, err := s.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}
