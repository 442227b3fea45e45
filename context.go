package escrow

import (
	"context"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just the standard context, renamed here so that every
// extension speaks about the same thing. Each extension, such as auth,
// may add its own keys to enrich the context with specific data.
//
// There should exist two functions for every XYZ of type T
// that we want to support in Context:
//
//   WithXYZ(Context, T) Context
//   GetXYZ(Context) T
type Context = context.Context

type contextKey int // local to the escrow module

const (
	contextKeyLogger contextKey = iota
)

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// WithLogger sets the logger for this context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the context,
// or the DefaultLogger
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if ok {
		return val
	}
	return DefaultLogger
}
