/*
Package auth attaches verified identities to the request context
and exposes them through the x.Authenticator interface, so that
handlers never inspect signatures themselves.
*/
package auth

import (
	"context"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/x"
)

type contextKey int

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx escrow.Context, signers []escrow.Condition) escrow.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator and provides
// authentication based on signatures that were verified
// by the decorator in this package.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx escrow.Context) []escrow.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]escrow.Condition)
	if val == nil {
		return nil
	}
	// if we have a signer, make sure copy is not modified
	res := make([]escrow.Condition, len(val))
	copy(res, val)
	return res
}

// HasAddress returns true iff the given address had signed the
// current Context.
func (a Authenticate) HasAddress(ctx escrow.Context, addr escrow.Address) bool {
	signers, _ := ctx.Value(contextKeySigners).([]escrow.Condition)
	for _, s := range signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
