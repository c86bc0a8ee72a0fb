package orm

import (
	"bytes"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index value for a given model. Returning
// nil means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index stores one entry per indexed entity:
//
//	_i.<bucket>_<index>:<len(value)><value><primary key> -> <primary key>
//
// The value is length prefixed, so that a prefix scan for one value never
// matches another value that shares its leading bytes.
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer) *index {
	return &index{
		name:    name,
		prefix:  []byte(indexPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

func (i *index) valuePrefix(value []byte) ([]byte, error) {
	if len(value) > 255 {
		return nil, errors.Wrapf(errors.ErrInput, "index value too long: %d", len(value))
	}
	out := make([]byte, 0, len(i.prefix)+1+len(value))
	out = append(out, i.prefix...)
	out = append(out, byte(len(value)))
	return append(out, value...), nil
}

func (i *index) entryKey(value, key []byte) ([]byte, error) {
	p, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	return append(p, key...), nil
}

// update moves the reference of the entity stored under key. prev is nil on
// insert, next is nil on delete.
func (i *index) update(db weave.KVStore, key []byte, prev, next Model) error {
	var prevVal, nextVal []byte
	var err error
	if prev != nil {
		if prevVal, err = i.indexer(prev); err != nil {
			return err
		}
	}
	if next != nil {
		if nextVal, err = i.indexer(next); err != nil {
			return err
		}
	}
	if prev != nil && next != nil && bytes.Equal(prevVal, nextVal) {
		return nil
	}
	if prevVal != nil {
		k, err := i.entryKey(prevVal, key)
		if err != nil {
			return err
		}
		if err := db.Delete(k); err != nil {
			return err
		}
	}
	if nextVal != nil {
		k, err := i.entryKey(nextVal, key)
		if err != nil {
			return err
		}
		if err := db.Set(k, key); err != nil {
			return err
		}
	}
	return nil
}

// keys returns primary keys of all entities indexed under given value, in
// the order of their primary keys.
func (i *index) keys(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	start, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	defer it.Release()

	var keys [][]byte
	for {
		_, key, err := it.Next()
		switch {
		case err == nil:
			keys = append(keys, key)
		case errors.ErrIteratorDone.Is(err):
			return keys, nil
		default:
			return nil, err
		}
	}
}

// prefixEnd returns the smallest key greater than every key with given
// prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
