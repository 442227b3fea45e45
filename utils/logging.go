package utils

import (
	"time"

	"github.com/tokentrust/escrow"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ escrow.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (l Logging) Check(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Checker) (*escrow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logDuration(ctx, start, escrow.GetPath(tx), err)
	return res, err
}

// Deliver logs error -> info, success -> debug
func (l Logging) Deliver(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Deliverer) (*escrow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logDuration(ctx, start, escrow.GetPath(tx), err)
	return res, err
}

// logDuration writes information about the time and result
// to the logger
func logDuration(ctx escrow.Context, start time.Time, path string, err error) {
	delta := time.Since(start)
	logger := escrow.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if err != nil {
		logger.With("err", err).Info(path)
	} else {
		logger.Debug(path)
	}
}
