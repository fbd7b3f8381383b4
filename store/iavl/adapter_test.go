package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger/store"
	"github.com/stretchr/testify/require"
)

func TestIavlStore(t *testing.T) {
	s := store.NewTestSuite(func() store.CacheableKVStore {
		return MockCommitStore().CacheWrap()
	})
	t.Run("get set", s.GetSet)
	t.Run("cache write discard", s.CacheWriteDiscard)
	t.Run("iteration", s.Iteration)
	t.Run("nested cache", s.NestedCache)
	t.Run("batch", s.Batch)
}

func TestCommitAndReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "ledger-iavl")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	db, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, db.LoadLatestVersion())

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("alice"), []byte("10")))
	require.NoError(t, cache.Write())

	// Working state is not visible until committed.
	got, err := db.Get([]byte("alice"))
	require.NoError(t, err)
	require.Nil(t, got)

	id, err := db.Commit()
	require.NoError(t, err)
	require.EqualValues(t, 1, id.Version)
	require.NotEmpty(t, id.Hash)

	got, err = db.Get([]byte("alice"))
	require.NoError(t, err)
	require.Equal(t, []byte("10"), got)
	db.Close()

	reopened, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())
	latest, err := reopened.LatestVersion()
	require.NoError(t, err)
	require.Equal(t, id, latest)

	got, err = reopened.Get([]byte("alice"))
	require.NoError(t, err)
	require.Equal(t, []byte("10"), got)
}

func TestDiscardedCacheNeverReachesTree(t *testing.T) {
	db := MockCommitStore()
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("bob"), []byte("5")))
	cache.Discard()
	require.NoError(t, cache.Write())

	id, err := db.Commit()
	require.NoError(t, err)
	got, err := db.Get([]byte("bob"))
	require.NoError(t, err)
	require.Nil(t, got)
	require.EqualValues(t, 1, id.Version)
}
