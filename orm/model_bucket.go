package orm

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,20}$`).MatchString

// IndexerFunc computes the secondary index values of a model. Returning no
// values leaves the model out of the index.
type IndexerFunc func(Model) ([][]byte, error)

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket interface {
	// One loads the model stored under key into dest. It returns
	// ErrNotFound if the entity does not exist and ErrType if dest cannot
	// hold the stored type.
	One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity exists under key, else ErrNotFound.
	Has(db ledger.ReadOnlyKVStore, key []byte) error

	// Put validates and saves m, keeping all indexes in sync.
	Put(db ledger.KVStore, key []byte, m Model) error

	// Delete removes the entity stored under key. It returns ErrNotFound
	// if there is none.
	Delete(db ledger.KVStore, key []byte) error

	// ByIndex loads all models referenced by the given index value into
	// dest, which must be a pointer to a slice of models. The primary keys
	// are returned in the same order.
	ByIndex(db ledger.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// PrefixScan iterates over all models whose primary key starts with
	// prefix. A nil prefix scans the whole bucket.
	PrefixScan(db ledger.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	ledger.QueryHandler
}

// ModelBucketOption configures a bucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index. A unique index rejects a second model
// with the same index value with ErrDuplicate.
func WithIndex(name string, indexer IndexerFunc, unique bool) ModelBucketOption {
	if !isBucketName(name) {
		panic("invalid index name: " + name)
	}
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("duplicated index: " + name)
		}
		mb.indexes[name] = index{
			prefix:  []byte("_i." + mb.name + "_" + name + ":"),
			indexer: indexer,
			unique:  unique,
		}
	}
}

// NewModelBucket returns a bucket storing proto-typed models under name.
func NewModelBucket(name string, proto Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(proto),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) One(db ledger.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.name, err)
	}
	return nil
}

func (mb *modelBucket) Has(db ledger.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db ledger.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for name, idx := range mb.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %s", name)
		}
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db ledger.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	for name, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// load returns the stored model or nil.
func (mb *modelBucket) load(db ledger.ReadOnlyKVStore, key []byte) (Model, error) {
	m := mb.newModel()
	switch err := mb.One(db, key, m); {
	case err == nil:
		return m, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

func (mb *modelBucket) ByIndex(db ledger.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", indexName)
	}
	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	elem := slice.Elem().Type().Elem()
	if elem != mb.model && reflect.PtrTo(elem) != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot load %s into %T", mb.model, dest)
	}

	keys, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}
	res := reflect.MakeSlice(slice.Elem().Type(), 0, len(keys))
	for _, k := range keys {
		m := reflect.New(mb.model.Elem())
		if err := mb.One(db, k, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "indexed key %X", k)
		}
		if elem == mb.model {
			res = reflect.Append(res, m)
		} else {
			res = reflect.Append(res, m.Elem())
		}
	}
	slice.Elem().Set(res)
	return keys, nil
}

func (mb *modelBucket) PrefixScan(db ledger.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	start := mb.dbKey(prefix)
	end := prefixEnd(start)
	var (
		it  ledger.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{it: it, prefixLen: len(mb.prefix)}, nil
}

type modelIterator struct {
	it        ledger.Iterator
	prefixLen int
}

func (m *modelIterator) Load(dest Model) ([]byte, error) {
	if !m.it.Valid() {
		return nil, ErrIteratorDone
	}
	key := append([]byte{}, m.it.Key()[m.prefixLen:]...)
	if err := dest.Unmarshal(m.it.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %X: %s", key, err)
	}
	if err := m.it.Next(); err != nil {
		return nil, err
	}
	return key, nil
}

func (m *modelIterator) Release() {
	m.it.Close()
}

// index keeps entries of the form prefix | len(value) | value | primary key.
type index struct {
	prefix  []byte
	indexer IndexerFunc
	unique  bool
}

func (i index) valuePrefix(value []byte) []byte {
	var n [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(n[:], uint64(len(value)))
	res := make([]byte, 0, len(i.prefix)+l+len(value))
	res = append(res, i.prefix...)
	res = append(res, n[:l]...)
	return append(res, value...)
}

func (i index) update(db ledger.KVStore, key []byte, prev, next Model) error {
	var prevValues, nextValues [][]byte
	var err error
	if prev != nil {
		if prevValues, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextValues, err = i.indexer(next); err != nil {
			return err
		}
	}
	for _, v := range prevValues {
		if containsBytes(nextValues, v) {
			continue
		}
		if err := db.Delete(append(i.valuePrefix(v), key...)); err != nil {
			return err
		}
	}
	for _, v := range nextValues {
		if containsBytes(prevValues, v) {
			continue
		}
		if i.unique {
			existing, err := i.keys(db, v)
			if err != nil {
				return err
			}
			if len(existing) != 0 {
				return errors.Wrapf(errors.ErrDuplicate, "unique index value %X", v)
			}
		}
		if err := db.Set(append(i.valuePrefix(v), key...), key); err != nil {
			return err
		}
	}
	return nil
}

func (i index) keys(db ledger.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start := i.valuePrefix(value)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() {
		keys = append(keys, append([]byte{}, it.Value()...))
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func containsBytes(list [][]byte, b []byte) bool {
	for _, x := range list {
		if bytes.Equal(x, b) {
			return true
		}
	}
	return false
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// Query implements ledger.QueryHandler. The key mode returns at most one
// entity, the prefix mode scans the bucket and any other mode is the name
// of a secondary index.
func (mb *modelBucket) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.QueryResult, error) {
	switch mod {
	case ledger.KeyQueryMod:
		m := mb.newModel()
		switch err := mb.One(db, data, m); {
		case err == nil:
			return []ledger.QueryResult{{Key: data, Value: m}}, nil
		case errors.ErrNotFound.Is(err):
			return nil, nil
		default:
			return nil, err
		}
	case ledger.PrefixQueryMod:
		it, err := mb.PrefixScan(db, data, false)
		if err != nil {
			return nil, err
		}
		defer it.Release()
		var res []ledger.QueryResult
		for {
			m := mb.newModel()
			key, err := it.Load(m)
			if ErrIteratorDone.Is(err) {
				return res, nil
			}
			if err != nil {
				return nil, err
			}
			res = append(res, ledger.QueryResult{Key: key, Value: m})
		}
	default:
		ptr := reflect.New(reflect.SliceOf(mb.model))
		keys, err := mb.ByIndex(db, mod, data, ptr.Interface())
		if err != nil {
			return nil, err
		}
		models := ptr.Elem()
		res := make([]ledger.QueryResult, len(keys))
		for i, k := range keys {
			res[i] = ledger.QueryResult{Key: k, Value: models.Index(i).Interface()}
		}
		return res, nil
	}
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model.Elem()).Interface().(Model)
}
