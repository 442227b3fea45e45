package auth

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/crypto"
	"github.com/tokentrust/escrow/errors"
)

// StdSignature binds a public key to a signature over the
// canonical sign bytes of a transaction.
type StdSignature struct {
	Pubkey    crypto.PublicKey
	Signature crypto.Signature
}

// SignedTx is a transaction that carries signatures that can be
// verified against its canonical sign bytes.
type SignedTx interface {
	escrow.Tx

	// GetSignBytes returns the canonical byte representation
	// that every signer must have signed
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signatures attached to this tx
	GetSignatures() []StdSignature
}

// Decorator verifies the signatures before handing the transaction
// down the stack with the signer conditions in the context.
//
// Unsigned transactions are rejected unless AllowMissingSigs was
// set, in which case they pass through with no conditions set and
// handlers reject them wherever authorization is needed.
type Decorator struct {
	allowMissingSigs bool
}

var _ escrow.Decorator = Decorator{}

// NewDecorator returns a signature-verifying decorator that rejects
// transactions without at least one valid signature
func NewDecorator() Decorator {
	return Decorator{allowMissingSigs: false}
}

// AllowMissingSigs lets us pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before dispatching to the next checker
func (d Decorator) Check(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Checker) (*escrow.CheckResult, error) {
	ctx, err := d.authenticate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies signatures before dispatching to the next deliverer
func (d Decorator) Deliver(ctx escrow.Context, store escrow.KVStore, tx escrow.Tx, next escrow.Deliverer) (*escrow.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx escrow.Context, tx escrow.Tx) (escrow.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		if d.allowMissingSigs {
			return ctx, nil
		}
		return nil, errors.Wrap(errors.ErrInvalidType, "tx does not carry signatures")
	}

	signers, err := VerifyTxSignatures(stx)
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}

// VerifyTxSignatures checks every signature on the transaction
// against its sign bytes and returns the condition of each signer.
// A single invalid signature invalidates the whole transaction.
func VerifyTxSignatures(tx SignedTx) ([]escrow.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sign bytes")
	}

	sigs := tx.GetSignatures()
	signers := make([]escrow.Condition, 0, len(sigs))
	for _, sig := range sigs {
		if err := sig.Pubkey.Validate(); err != nil {
			return nil, err
		}
		if !sig.Pubkey.Verify(bz, sig.Signature) {
			return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
		}
		signers = append(signers, sig.Pubkey.Condition())
	}
	return signers, nil
}
