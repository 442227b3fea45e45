/*
Package x holds the authorization interface shared by all
transaction handlers, along with generic helpers to combine
and query authenticators.
*/
package x

import (
	"github.com/tokentrust/escrow"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hardcoding x/auth for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper instead
	GetConditions(escrow.Context) []escrow.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(escrow.Context, escrow.Address) bool
}

// MultiAuth chains together many authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of authenticators
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all conditions from all chained authenticators
func (m MultiAuth) GetConditions(ctx escrow.Context) []escrow.Condition {
	var res []escrow.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	// TODO: remove duplicates
	return res
}

// HasAddress returns true iff any authenticator approves
func (m MultiAuth) HasAddress(ctx escrow.Context, addr escrow.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx escrow.Context, auth Authenticator) []escrow.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]escrow.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first signed if any, otherwise nil
func MainSigner(ctx escrow.Context, auth Authenticator) escrow.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx escrow.Context, auth Authenticator, required []escrow.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasNAddresses returns true if at least n elements in requested are
// also in context.
func HasNAddresses(ctx escrow.Context, auth Authenticator, requested []escrow.Address, n int) bool {
	// Special case: is this an error???
	if n <= 0 {
		return true
	}
	for _, r := range requested {
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}
