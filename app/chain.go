package app

import (
	"reflect"

	"github.com/iov-one/weave-escrow"
)

// Decorators is a chain of decorators that is not yet bound to a handler.
type Decorators struct {
	chain []weave.Decorator
}

/*
ChainDecorators builds a stack of decorators. The first decorator is the
outermost one and sees every transaction first.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  utils.NewSavepoint().OnCheck().OnDeliver(),
	  sigs.NewDecorator(),
	).WithHandler(router)

Nil decorators are ignored, so optional parts of the stack can be left out
without conditionals.
*/
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with given decorators appended.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	res := make([]weave.Decorator, 0, len(d.chain)+len(chain))
	res = append(res, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			res = append(res, dec)
		}
	}
	return Decorators{chain: res}
}

func isNil(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler binds the stack to the final handler.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator around the rest of the stack.
type step struct {
	d    weave.Decorator
	next weave.Handler
}

var _ weave.Handler = step{}

func (s step) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}

// ChainInitializers returns an initializer that calls all given
// initializers in order, stopping at the first failure.
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return initializers(inits)
}

type initializers []weave.Initializer

func (is initializers) FromGenesis(opts weave.Options, db weave.KVStore) error {
	for _, i := range is {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
