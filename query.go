package weave

import (
	"fmt"

	"github.com/iov-one/weave-escrow/errors"
)

// Query modifiers, passed after "?" in a query path.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model groups together key and value to return
type Model struct {
	Key   []byte
	Value []byte
}

// QueryHandler reads models from the state. Mod selects how data is
// interpreted, see KeyQueryMod and PrefixQueryMod.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter dispatches queries by path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any routes.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// Register adds a handler for given path. It panics if the path is already
// taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered for the path.
func (r QueryRouter) Handler(path string) (QueryHandler, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	return h, nil
}
