package holdings

import (
	"sort"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/orm"
	"github.com/tokentrust/escrow/token"
)

// BucketName is where we store the accounts
const BucketName = "acct"

//---- Account methods on the codec struct

var _ orm.CloneableData = (*Account)(nil)

// Validate requires that all tokens are valid, positive, and sorted
// by mint with no duplicates
func (a *Account) Validate() error {
	var prev string
	for _, t := range a.Tokens {
		if err := t.Validate(); err != nil {
			return err
		}
		if !t.IsPositive() {
			return errors.Wrapf(errors.ErrInvalidAmount, "empty %s entry", t.Mint)
		}
		if t.Mint <= prev {
			return errors.Wrapf(errors.ErrInvalidState, "tokens not sorted: %s", t.Mint)
		}
		prev = t.Mint
	}
	return nil
}

// Copy makes a deep copy of the account
func (a *Account) Copy() orm.CloneableData {
	cpy := make([]*token.Token, len(a.Tokens))
	for i, t := range a.Tokens {
		cpy[i] = t.Clone()
	}
	return &Account{Tokens: cpy}
}

// Balance returns the amount held of a given mint.
// Missing entries count as zero.
func (a *Account) Balance(mint string) token.Token {
	i := a.find(mint)
	if i == len(a.Tokens) || a.Tokens[i].Mint != mint {
		return token.NewToken(mint, 0)
	}
	return *a.Tokens[i]
}

// IsEmpty returns true when there are no holdings at all
func (a *Account) IsEmpty() bool {
	return len(a.Tokens) == 0
}

// Add deposits the amount into the account, keeping the entries
// sorted. Fails on overflow.
func (a *Account) Add(t token.Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.IsZero() {
		return nil
	}
	i := a.find(t.Mint)
	if i < len(a.Tokens) && a.Tokens[i].Mint == t.Mint {
		sum, err := a.Tokens[i].Add(t)
		if err != nil {
			return err
		}
		a.Tokens[i] = &sum
		return nil
	}
	a.Tokens = append(a.Tokens, nil)
	copy(a.Tokens[i+1:], a.Tokens[i:])
	a.Tokens[i] = t.Clone()
	return nil
}

// Subtract withdraws the amount from the account. An entry drained
// to zero is removed. Fails with ErrInsufficientAmount if the account
// holds less than requested.
func (a *Account) Subtract(t token.Token) error {
	if err := t.Validate(); err != nil {
		return err
	}
	i := a.find(t.Mint)
	if i == len(a.Tokens) || a.Tokens[i].Mint != t.Mint {
		return errors.Wrapf(errors.ErrInsufficientAmount, "no %s holdings", t.Mint)
	}
	diff, err := a.Tokens[i].Subtract(t)
	if err != nil {
		return err
	}
	if diff.IsZero() {
		a.Tokens = append(a.Tokens[:i], a.Tokens[i+1:]...)
		return nil
	}
	a.Tokens[i] = &diff
	return nil
}

// find returns the position of the mint, or the insert position
// if the mint is not held
func (a *Account) find(mint string) int {
	return sort.Search(len(a.Tokens), func(i int) bool {
		return a.Tokens[i].Mint >= mint
	})
}

//---- object wrappers

// NewAccount wraps the given tokens in an orm.Object keyed by address
func NewAccount(addr escrow.Address, tokens ...*token.Token) orm.Object {
	return orm.NewSimpleObj(addr, &Account{Tokens: tokens})
}

// AsAccount extracts the account data from the object, nil safe
func AsAccount(obj orm.Object) *Account {
	if obj == nil {
		return nil
	}
	return obj.Value().(*Account)
}

//---- Bucket

// Bucket is a type-safe wrapper around orm.Bucket storing accounts
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes an account bucket
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewAccount(nil)),
	}
}

// RegisterQuery will register accounts as "/holdings"
func RegisterQuery(qr escrow.QueryRouter) {
	NewBucket().Register("holdings", qr)
}

// GetOrCreate returns the account at this address, creating an empty
// one in memory if none was stored yet. The caller must Save to persist.
func (b Bucket) GetOrCreate(db escrow.ReadOnlyKVStore, addr escrow.Address) (orm.Object, error) {
	obj, err := b.Get(db, addr)
	if err == nil && obj == nil {
		obj = NewAccount(addr)
	}
	return obj, err
}
