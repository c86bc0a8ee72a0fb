package store

import (
	"bytes"

	"github.com/iov-one/weave-escrow/errors"
)

// itemIter merges the items cached in a btree with the iterator of the
// backing store. Cached items shadow parent entries with the same key and
// deleted items hide them.
type itemIter struct {
	items   []keyer
	idx     int
	reverse bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	peeked     bool
	parentDone bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next visible key value pair or ErrIteratorDone.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		hasOwn := i.idx < len(i.items)
		hasParent := !i.parentDone
		if !hasOwn && !hasParent {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		}

		if hasParent {
			cmp := -1
			if hasOwn {
				cmp = bytes.Compare(i.parentKey, i.items[i.idx].Key())
				if i.reverse {
					cmp = -cmp
				}
			}
			if cmp < 0 {
				i.peeked = false
				return i.parentKey, i.parentVal, nil
			}
			if cmp == 0 {
				// Shadowed by the cache.
				i.peeked = false
			}
		}

		item := i.items[i.idx]
		i.idx++
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

// peekParent loads the next parent entry if none is pending.
func (i *itemIter) peekParent() error {
	if i.peeked || i.parentDone {
		return nil
	}
	k, v, err := i.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			i.parentDone = true
			return nil
		}
		return err
	}
	i.parentKey, i.parentVal, i.peeked = k, v, true
	return nil
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
