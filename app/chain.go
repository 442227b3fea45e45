package app

import (
	"github.com/tokentrust/escrow"
)

/*
Dispatch to the Handler for all Msgs is done via a Router.
Decorators wrap this dispatch with common pre-processing,
like signature verification or panic recovery.

ChainDecorators(
	utils.NewRecovery(),
	auth.NewDecorator(),
).WithHandler(router)
*/

// ChainDecorators takes a chain of decorators, and upon adding a
// final Handler, returns a Handler that will execute this whole stack
func ChainDecorators(chain ...escrow.Decorator) Decorators {
	return Decorators{chain: chain}
}

// Decorators holds a chain of decorators, not yet bound to a handler
type Decorators struct {
	chain []escrow.Decorator
}

// Chain appends more decorators to the stack
func (d Decorators) Chain(chain ...escrow.Decorator) Decorators {
	return Decorators{chain: append(d.chain, chain...)}
}

// WithHandler binds the stack to an end handler and returns the
// complete call chain
func (d Decorators) WithHandler(h escrow.Handler) escrow.Handler {
	res := h
	for i := len(d.chain) - 1; i >= 0; i-- {
		res = link{d.chain[i], res}
	}
	return res
}

// link binds one decorator to its next handler
type link struct {
	decorator escrow.Decorator
	next      escrow.Handler
}

var _ escrow.Handler = link{}

// Check passes the request into the decorator with a reference to
// the rest of the chain
func (l link) Check(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	return l.decorator.Check(ctx, store, tx, l.next)
}

// Deliver passes the request into the decorator with a reference to
// the rest of the chain
func (l link) Deliver(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	return l.decorator.Deliver(ctx, store, tx, l.next)
}
