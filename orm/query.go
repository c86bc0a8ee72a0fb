package orm

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
)

func (mb *modelBucket) Register(name string, r weave.QueryRouter) {
	root := "/" + name
	r.Register(root, bucketQuery{bucket: mb})
	for _, idx := range mb.indexes {
		r.Register(root+"/"+idx.name, indexQuery{bucket: mb, index: idx})
	}
}

// bucketQuery returns the models stored under a primary key. Returned keys
// do not contain the bucket prefix.
type bucketQuery struct {
	bucket *modelBucket
}

func (q bucketQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		raw, err := db.Get(q.bucket.dbKey(data))
		if err != nil {
			return nil, errors.Wrap(err, "get")
		}
		if raw == nil {
			return nil, nil
		}
		return []weave.Model{{Key: data, Value: raw}}, nil
	case weave.PrefixQueryMod:
		start := q.bucket.dbKey(data)
		it, err := db.Iterator(start, prefixEnd(start))
		if err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
		defer it.Release()

		var res []weave.Model
		for {
			key, value, err := it.Next()
			switch {
			case err == nil:
				res = append(res, weave.Model{Key: key[len(q.bucket.prefix):], Value: value})
			case errors.ErrIteratorDone.Is(err):
				return res, nil
			default:
				return nil, err
			}
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery returns all models referenced by an index value.
type indexQuery struct {
	bucket *modelBucket
	index  *index
}

func (q indexQuery) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	if mod != weave.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	keys, err := q.index.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]weave.Model, 0, len(keys))
	for _, key := range keys {
		raw, err := db.Get(q.bucket.dbKey(key))
		if err != nil {
			return nil, errors.Wrap(err, "get")
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s references missing %X", q.index.name, key)
		}
		res = append(res, weave.Model{Key: key, Value: raw})
	}
	return res, nil
}
