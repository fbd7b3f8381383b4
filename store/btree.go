package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/ledger/errors"
)

// DefaultFreeListSize is the size we hold for free nodes in a btree.
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns an in-memory store without persistence. Useful for tests.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, EmptyKVStore{}, nil)
}

// BTreeCacheWrap places a btree cache over a store. Reads check the btree
// first, writes go to the btree and to a batch that is applied to the
// parent on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch *NonAtomicBatch
}

var _ KVCacheWrap = (*BTreeCacheWrap)(nil)

// NewBTreeCacheWrap builds a cache that reads through to kv and writes to
// out once Write is called. free may be nil, set it to share a free list
// between nested caches.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, out SetDeleter, free *btree.FreeList) *BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return &BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: NewNonAtomicBatch(out),
	}
}

// CacheWrap layers another cache on top of this one.
func (b *BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b, b.free)
}

// NewBatch returns a batch that writes to this cache.
func (b *BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all cached changes to the parent and empties the cache.
func (b *BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Dirty reports whether the cache holds changes not yet written.
func (b *BTreeCacheWrap) Dirty() bool {
	return b.bt.Len() > 0
}

// Discard drops all cached changes.
func (b *BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	b.batch.Reset()
}

// Set writes to the btree and to the batch.
func (b *BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(setItem{bkey{key}, value})
	return b.batch.Set(key, value)
}

// Delete marks the key deleted in the btree and in the batch.
func (b *BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrHuman, "nil key")
	}
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// Get reads from the btree if present, else from the parent.
func (b *BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Get(key)
	case setItem:
		return item.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
}

// Has reads from the btree if present, else from the parent.
func (b *BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil:
		return b.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
}

// Iterator combines cached and parent results in ascending order.
func (b *BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(ascendBtree(b.bt, start, end), parent, false)
}

// ReverseIterator combines cached and parent results in descending order.
func (b *BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(descendBtree(b.bt, start, end), parent, true)
}

// keyer is implemented by every item kept in the btree.
type keyer interface {
	Key() []byte
}

type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if the item does not implement keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
