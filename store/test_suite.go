package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuite runs the same behavioural checks against any cacheable store
// constructor. Backends call it from their own tests.
type TestSuite struct {
	makeBase func() CacheableKVStore
}

// NewTestSuite builds a suite around a constructor of empty stores.
func NewTestSuite(constructor func() CacheableKVStore) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks basic reads and writes.
func (s *TestSuite) GetSet(t *testing.T) {
	base := s.makeBase()
	k, v := []byte("french"), []byte("fry")

	got, err := base.Get(k)
	require.NoError(t, err)
	require.Nil(t, got)
	has, err := base.Has(k)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, base.Set(k, v))
	got, err = base.Get(k)
	require.NoError(t, err)
	require.Equal(t, v, got)

	require.NoError(t, base.Delete(k))
	has, err = base.Has(k)
	require.NoError(t, err)
	require.False(t, has)
}

// CacheWriteDiscard checks that a cache wrap is only visible in the parent
// after Write.
func (s *TestSuite) CacheWriteDiscard(t *testing.T) {
	base := s.makeBase()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))
	require.NoError(t, base.Set([]byte("b"), []byte("2")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("c"), []byte("3")))
	require.NoError(t, cache.Delete([]byte("a")))

	got, err := cache.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, got)
	got, err = base.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)
	has, err := base.Has([]byte("c"))
	require.NoError(t, err)
	require.False(t, has)

	cache.Discard()
	got, err = cache.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	require.NoError(t, cache.Set([]byte("c"), []byte("3")))
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())

	has, err = base.Has([]byte("a"))
	require.NoError(t, err)
	require.False(t, has)
	got, err = base.Get([]byte("c"))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), got)
}

// Iteration checks ordering and shadowing of the merge iterators.
func (s *TestSuite) Iteration(t *testing.T) {
	base := s.makeBase()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}
	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("c"), []byte("cache-c")))
	require.NoError(t, cache.Delete([]byte("e")))
	require.NoError(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all ascending": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"all descending": {
			reverse: true,
			want: []Model{
				Pair([]byte("h"), []byte("cache-h")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"bounded ascending": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
			},
		},
		"bounded descending": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			want: []Model{
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
			},
		},
		"empty range": {
			start: []byte("d"),
			end:   []byte("f"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			defer it.Close()

			var got []Model
			for it.Valid() {
				got = append(got, Pair(it.Key(), it.Value()))
				require.NoError(t, it.Next())
			}
			require.Equal(t, tc.want, got)
		})
	}
}

// NestedCache checks that a child cache writes into its parent cache only.
func (s *TestSuite) NestedCache(t *testing.T) {
	base := s.makeBase()
	outer := base.CacheWrap()
	inner := outer.CacheWrap()

	require.NoError(t, inner.Set([]byte("k"), []byte("v")))
	require.NoError(t, inner.Write())

	got, err := outer.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
	has, err := base.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, has)

	outer.Discard()
	has, err = outer.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, has)
}

// Batch checks that batched writes are applied only on Write.
func (s *TestSuite) Batch(t *testing.T) {
	base := s.makeBase()
	b := base.NewBatch()
	require.NoError(t, b.Set([]byte("x"), []byte("1")))
	require.NoError(t, b.Set([]byte("y"), []byte("2")))
	require.NoError(t, b.Delete([]byte("x")))

	has, err := base.Has([]byte("y"))
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, b.Write())
	has, err = base.Has([]byte("x"))
	require.NoError(t, err)
	require.False(t, has)
	got, err := base.Get([]byte("y"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)
}
