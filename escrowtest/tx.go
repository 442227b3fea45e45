package escrowtest

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

// Tx is a mock implementing escrow.Tx interface.
type Tx struct {
	// Msg is the message that this transaction is carrying.
	Msg escrow.Msg
	// Err if set is returned by any method call instead of the
	// usual result.
	Err error
}

var _ escrow.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (escrow.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	return errors.Wrap(errors.ErrHuman, "escrowtest tx cannot be unmarshaled")
}
