package holdings

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/token"
)

// Controller is the functionality needed by other extensions to move
// funds between accounts. This is implemented by BaseController and
// may be decorated to add more control.
type Controller interface {
	// Balance returns the full holdings of an account.
	// Returns ErrNotFound for an address with no account.
	Balance(db escrow.ReadOnlyKVStore, src escrow.Address) ([]*token.Token, error)

	// MoveTokens transfers the amount from src to dest
	MoveTokens(db escrow.KVStore, src, dest escrow.Address, amount token.Token) error

	// CloseAccount removes an empty account from the ledger.
	// Fails if funds are still held.
	CloseAccount(db escrow.KVStore, addr escrow.Address) error
}

// BaseController is the simple implementation to move tokens between
// accounts. The decision whether a movement is authorized belongs to
// the calling extension, this only guards ledger consistency.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the stored holdings of the account
func (c BaseController) Balance(db escrow.ReadOnlyKVStore, src escrow.Address) ([]*token.Token, error) {
	obj, err := c.bucket.Get(db, src)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", src)
	}
	return AsAccount(obj).Tokens, nil
}

// MoveTokens performs a transfer. It fails if the source does not
// hold enough, and never leaves a partial move behind: either both
// accounts are updated or neither.
func (c BaseController) MoveTokens(db escrow.KVStore, src, dest escrow.Address, amount token.Token) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "must move a positive amount: %s", amount)
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "no account %s", src)
	}
	if err := AsAccount(sender).Subtract(amount); err != nil {
		return err
	}

	// debit and credit of the same account cancel out, write nothing
	// or the second save would undo the first
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsAccount(recipient).Add(amount); err != nil {
		return err
	}

	// save only after both legs succeeded
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// CloseAccount deletes the account record. Only empty accounts can
// be closed, move the funds out first.
func (c BaseController) CloseAccount(db escrow.KVStore, addr escrow.Address) error {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if obj == nil {
		return errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	if !AsAccount(obj).IsEmpty() {
		return errors.Wrapf(errors.ErrInvalidState, "account %s still holds funds", addr)
	}
	return c.bucket.Delete(db, addr)
}
