package escrowtest

import (
	"context"

	"github.com/tokentrust/escrow"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This is a cheap way to mock the authentication for tests, the
// context content is ignored.
type Auth struct {
	// Signer is returned by GetConditions. Ignored if nil.
	Signer escrow.Condition
	// Signers are returned by GetConditions. They extend the
	// result of a single Signer if both are provided.
	Signers []escrow.Condition
}

func (a *Auth) GetConditions(escrow.Context) []escrow.Condition {
	var conds []escrow.Condition
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return append(conds, a.Signers...)
}

func (a *Auth) HasAddress(ctx escrow.Context, addr escrow.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is an authenticator that reads conditions from the context,
// stored under a key chosen by the test. Use it when the same
// handler must see different signers across calls.
type CtxAuth struct {
	Key interface{}
}

func (a *CtxAuth) SetConditions(ctx escrow.Context, conds ...escrow.Condition) escrow.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx escrow.Context) []escrow.Condition {
	conds, ok := ctx.Value(a.Key).([]escrow.Condition)
	if !ok {
		return nil
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx escrow.Context, addr escrow.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
