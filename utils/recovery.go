package utils

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors instead of crashing the process
type Recovery struct{}

var _ escrow.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Checker) (_ *escrow.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Deliverer) (_ *escrow.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
