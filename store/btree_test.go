package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBTreeStore(t *testing.T) {
	s := NewTestSuite(MemStore)
	t.Run("get set", s.GetSet)
	t.Run("cache write discard", s.CacheWriteDiscard)
	t.Run("iteration", s.Iteration)
	t.Run("nested cache", s.NestedCache)
	t.Run("batch", s.Batch)
}

func TestBTreeNilKey(t *testing.T) {
	db := MemStore()
	require.Error(t, db.Set(nil, []byte("value")))
	require.Error(t, db.Delete(nil))
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]Model{
		Pair([]byte("one"), []byte("1")),
		Pair([]byte("two"), []byte("2")),
	})
	require.True(t, it.Valid())
	require.Equal(t, []byte("one"), it.Key())
	require.NoError(t, it.Next())
	require.Equal(t, []byte("2"), it.Value())
	require.NoError(t, it.Next())
	require.False(t, it.Valid())
	require.Panics(t, func() { it.Key() })
}

func TestBTreeDirty(t *testing.T) {
	parent := NewBTreeCacheWrap(EmptyKVStore{}, EmptyKVStore{}, nil)
	require.False(t, parent.Dirty())

	child := parent.CacheWrap()
	require.NoError(t, child.Set([]byte("key"), []byte("value")))
	require.False(t, parent.Dirty())

	child.Discard()
	require.False(t, parent.Dirty())

	child = parent.CacheWrap()
	require.NoError(t, child.Delete([]byte("key")))
	require.NoError(t, child.Write())
	require.True(t, parent.Dirty())

	parent.Discard()
	require.False(t, parent.Dirty())
}
