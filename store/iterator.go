package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendBtree collects all items of bt within [start, end) in ascending
// order.
func ascendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		k := i.(keyer)
		if end != nil && bytes.Compare(k.Key(), end) >= 0 {
			return false
		}
		items = append(items, k)
		return true
	}
	if start == nil {
		bt.Ascend(collect)
	} else {
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	}
	return items
}

// descendBtree collects all items of bt within [start, end) in descending
// order.
func descendBtree(bt *btree.BTree, start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		k := i.(keyer)
		if end != nil && bytes.Compare(k.Key(), end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(k.Key(), start) < 0 {
			return false
		}
		items = append(items, k)
		return true
	}
	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(bkey{end}, collect)
	}
	return items
}

// source marks where the current item comes from.
type source int32

const (
	none source = iota
	us
	parent
	both
)

// mergeIterator joins cached items with the parent iterator, letting cached
// writes and deletes shadow the parent.
type mergeIterator struct {
	ours    []keyer
	pos     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(ours []keyer, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		ours:    ours,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (i *mergeIterator) Valid() bool {
	return i.source() != none
}

func (i *mergeIterator) Next() error {
	switch i.source() {
	case us:
		i.pos++
	case both:
		i.pos++
		if err := i.parent.Next(); err != nil {
			return err
		}
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("advanced past the end")
	}
	return i.skipDeleted()
}

func (i *mergeIterator) Key() []byte {
	switch i.source() {
	case us, both:
		return i.ours[i.pos].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("advanced past the end")
	}
}

func (i *mergeIterator) Value() []byte {
	switch i.source() {
	case us, both:
		return i.ours[i.pos].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("advanced past the end")
	}
}

func (i *mergeIterator) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.ours = nil
}

// skipDeleted moves over every cached delete, together with the parent
// entry it shadows.
func (i *mergeIterator) skipDeleted() error {
	for {
		src := i.source()
		if src != us && src != both {
			return nil
		}
		if _, ok := i.ours[i.pos].(deletedItem); !ok {
			return nil
		}
		i.pos++
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

func (i *mergeIterator) source() source {
	oursValid := i.pos < len(i.ours)
	parentValid := i.parent != nil && i.parent.Valid()
	switch {
	case !oursValid && !parentValid:
		return none
	case !parentValid:
		return us
	case !oursValid:
		return parent
	}

	cmp := bytes.Compare(i.ours[i.pos].Key(), i.parent.Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}
