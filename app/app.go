/*
Package app wires the pieces into a runnable application: a router
dispatching messages to their handlers, a decorator stack for shared
pre-processing, and a commit store with savepoint semantics so every
transaction either fully applies or leaves no trace.
*/
package app

import (
	"sync"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

// Application processes transactions against a committed state. All
// entry points share one mutex, transactions are strictly serialized
// and there is never more than one in flight.
type Application struct {
	mutex   sync.Mutex
	store   escrow.CommitKVStore
	handler escrow.Handler
	queries escrow.QueryRouter
	logger  log.Logger

	// deliverState accumulates all delivered transactions since the
	// last commit
	deliverState escrow.KVCacheWrap
}

// NewApplication assembles the application from its parts. Call
// LoadState before processing any transaction.
func NewApplication(store escrow.CommitKVStore, h escrow.Handler, qr escrow.QueryRouter, logger log.Logger) *Application {
	if logger == nil {
		logger = escrow.DefaultLogger
	}
	return &Application{
		store:   store,
		handler: h,
		queries: qr,
		logger:  logger,
	}
}

// LoadState loads the latest committed version from disk and prepares
// the working state
func (a *Application) LoadState() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if err := a.store.LoadLatestVersion(); err != nil {
		return errors.Wrap(err, "cannot load latest version")
	}
	a.deliverState = a.store.CacheWrap()
	return nil
}

// InitChain applies the genesis options through all given
// initializers. Call once on an empty store, then Commit.
func (a *Application) InitChain(opts escrow.Options, inits ...escrow.Initializer) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	for _, ini := range inits {
		if err := ini.FromGenesis(opts, a.deliverState); err != nil {
			return err
		}
	}
	return nil
}

// CheckTx runs the transaction against a scratch copy of the working
// state. No changes are ever persisted, regardless of the outcome.
func (a *Application) CheckTx(ctx escrow.Context, tx escrow.Tx) (*escrow.CheckResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ctx = escrow.WithLogger(ctx, a.logger)
	cache := a.deliverState.CacheWrap()
	defer cache.Discard()

	res, err := a.handler.Check(ctx, cache, tx)
	if err != nil {
		a.logger.Debug("check failed", "path", escrow.GetPath(tx), "err", err)
		return nil, err
	}
	return res, nil
}

// DeliverTx executes the transaction on a savepoint of the working
// state. The savepoint is written back only when the handler reports
// success, a failed transaction leaves no partial effects behind.
func (a *Application) DeliverTx(ctx escrow.Context, tx escrow.Tx) (*escrow.DeliverResult, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	ctx = escrow.WithLogger(ctx, a.logger)
	cache := a.deliverState.CacheWrap()

	res, err := a.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		a.logger.Info("deliver failed", "path", escrow.GetPath(tx), "err", err)
		return nil, err
	}
	cache.Write()
	a.logger.Info("delivered", "path", escrow.GetPath(tx))
	return res, nil
}

// Commit makes all delivered transactions durable and starts a fresh
// working state on top of the new version
func (a *Application) Commit() escrow.CommitID {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.deliverState.Write()
	a.deliverState = a.store.CacheWrap()

	id := a.store.LatestVersion()
	a.logger.Info("committed", "version", id.Version)
	return id
}

// Query answers read-only requests against the working state
func (a *Application) Query(path, mod string, data []byte) ([]escrow.Model, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	h := a.queries.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %s", path)
	}
	return h.Query(a.deliverState, mod, data)
}
