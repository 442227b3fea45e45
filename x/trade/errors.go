package trade

import (
	"github.com/tokentrust/escrow/errors"
)

var (
	// ErrAlreadyExecuted is raised when trying to execute or cancel a
	// trade that was settled before
	ErrAlreadyExecuted = errors.Register(1000, "trade already executed")

	// ErrMintMismatch is raised when the two legs of a trade are
	// denominated in the same mint
	ErrMintMismatch = errors.Register(1001, "offered and requested mints must differ")
)
