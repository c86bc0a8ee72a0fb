/*
Package std wires the extensions into a complete ledger: the transaction
format, the decorator stack, the router and the genesis initializers.
*/
package std

import (
	"path/filepath"
	"strings"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/app"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/store/iavl"
	"github.com/iov-one/weave-escrow/x"
	"github.com/iov-one/weave-escrow/x/cash"
	"github.com/iov-one/weave-escrow/x/escrow"
	"github.com/iov-one/weave-escrow/x/sigs"
	"github.com/iov-one/weave-escrow/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication used by all handlers.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns the decorators every transaction passes through. A failed
// transaction leaves no changes behind, including signer sequences.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
		sigs.NewDecorator(),
	)
}

// Router registers the handlers of all extensions.
func Router(auth x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, bank)
	return r
}

// Stack returns the complete handler.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// QueryRouter serves the state of all extensions.
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	cash.RegisterQuery(r)
	escrow.RegisterQuery(r)
	return r
}

// Initializers reads the genesis of all extensions.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Application returns a ledger running all extensions on top of given store.
func Application(kv weave.CommitKVStore, logger log.Logger) (*app.Ledger, error) {
	l, err := app.NewLedger(kv, TxDecoder, Stack(), Initializers(), logger)
	if err != nil {
		return nil, err
	}
	return l.WithQueries(QueryRouter()), nil
}

// CommitKVStore opens the store at given path. An empty path returns an
// in memory store. The caller must close the store.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	// "name.db" and "name" open the same database.
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
