package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger executes transactions against a committed store. Transactions are
// processed one at a time. Delivered state becomes visible to View only
// after Commit.
type Ledger struct {
	mu sync.Mutex

	store   *CommitStore
	decoder weave.TxDecoder
	handler weave.Handler
	init    weave.Initializer
	queries weave.QueryRouter
	logger  log.Logger

	chainID string
	// height of the last commit
	height int64
}

// NewLedger loads the latest committed state. The chain id is restored if
// the ledger was initialized before.
func NewLedger(
	db weave.CommitKVStore,
	decoder weave.TxDecoder,
	handler weave.Handler,
	init weave.Initializer,
	logger log.Logger,
) (*Ledger, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, errors.Wrap(err, "commit info")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Ledger{
		store:   cs,
		decoder: decoder,
		handler: handler,
		init:    init,
		logger:  logger,
		chainID: chainID,
		height:  info.Version,
	}, nil
}

// WithQueries sets the routes served by Query.
func (l *Ledger) WithQueries(r weave.QueryRouter) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queries = r
	return l
}

// ChainID returns the chain id set by InitChain.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// Height returns the version of the last commit.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// InitChain stores the chain id and initializes all extensions from the
// genesis. It can be called only once during the lifetime of a ledger.
func (l *Ledger) InitChain(g *Genesis) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", l.chainID)
	}

	cache := l.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, g.ChainID); err != nil {
		cache.Discard()
		return err
	}
	if l.init != nil {
		if err := l.init.FromGenesis(g.AppState, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return err
	}
	l.chainID = g.ChainID
	l.logger.Info("Chain initialized", "chain_id", g.ChainID)
	return nil
}

// CheckTx validates a transaction against the check state. The check
// state is reset on every commit.
func (l *Ledger) CheckTx(txBytes []byte) (*weave.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	ctx := l.context("check_tx", tx)
	return l.handler.Check(ctx, l.store.CheckStore(), tx)
}

// DeliverTx executes a transaction. Its changes are persisted with the next
// Commit.
func (l *Ledger) DeliverTx(txBytes []byte) (*weave.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	ctx := l.context("deliver_tx", tx)
	return l.handler.Deliver(ctx, l.store.DeliverStore(), tx)
}

// Commit persists all delivered transactions as a new version.
func (l *Ledger) Commit() (weave.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	l.height = id.Version
	l.logger.Debug("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// View calls fn with a read only view of the committed state.
func (l *Ledger) View(fn func(db weave.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	db := l.store.committed.CacheWrap()
	defer db.Discard()
	return fn(db)
}

// Query reads models from the committed state. Path has the form
// "/<bucket>[/<index>][?<mod>]", for example "/escrows?prefix".
func (l *Ledger) Query(path string, data []byte) ([]weave.Model, error) {
	path, mod := splitPath(path)
	h, err := l.queries.Handler(path)
	if err != nil {
		return nil, err
	}
	var res []weave.Model
	err = l.View(func(db weave.ReadOnlyKVStore) error {
		var err error
		res, err = h.Query(db, mod, data)
		return err
	})
	return res, err
}

// splitPath separates the query modifier from the path.
func splitPath(path string) (string, string) {
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		return chunks[0], chunks[1]
	}
	return path, ""
}

// loadTx decodes the transaction. A panicking decoder is reported as an
// error.
func (l *Ledger) loadTx(txBytes []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = l.decoder(txBytes)
	return tx, err
}

func (l *Ledger) context(call string, tx weave.Tx) weave.Context {
	ctx := weave.WithLogger(context.Background(), l.logger)
	if l.chainID != "" {
		ctx = weave.WithChainID(ctx, l.chainID)
	}
	ctx = weave.WithHeight(ctx, l.height+1)
	return weave.WithLogInfo(ctx, "call", call, "path", weave.GetPath(tx))
}
