package token

import (
	"fmt"
	"regexp"

	"github.com/tokentrust/escrow/errors"
)

// IsMintID is the RegExp to ensure valid mint identifiers
var IsMintID = regexp.MustCompile(`^[A-Z0-9]{3,10}$`).MatchString

// NewToken creates a new token quantity
func NewToken(mint string, amount uint64) Token {
	return Token{
		Mint:   mint,
		Amount: amount,
	}
}

// NewTokenp returns a pointer to a new token quantity
func NewTokenp(mint string, amount uint64) *Token {
	t := NewToken(mint, amount)
	return &t
}

// ID returns the mint this quantity is denominated in.
func (t Token) ID() string {
	return t.Mint
}

// IsPositive returns true if the amount is greater than zero
func (t Token) IsPositive() bool {
	return t.Amount > 0
}

// IsZero returns true if the amount is exactly zero
func (t Token) IsZero() bool {
	return t.Amount == 0
}

// SameMint checks if both quantities are denominated in the same mint
func (t Token) SameMint(other Token) bool {
	return t.Mint == other.Mint
}

// Add combines two quantities of the same mint. All arithmetic is
// checked: an overflowing addition fails with ErrOverflow instead of
// wrapping around.
func (t Token) Add(other Token) (Token, error) {
	if !t.SameMint(other) {
		return Token{}, errors.Wrapf(errors.ErrInvalidInput, "adding %s to %s", other.Mint, t.Mint)
	}
	sum := t.Amount + other.Amount
	if sum < t.Amount {
		return Token{}, errors.Wrapf(errors.ErrOverflow, "%s amount", t.Mint)
	}
	return Token{Mint: t.Mint, Amount: sum}, nil
}

// Subtract removes a quantity of the same mint. A subtraction that
// would underflow fails with ErrInsufficientAmount instead of wrapping.
func (t Token) Subtract(other Token) (Token, error) {
	if !t.SameMint(other) {
		return Token{}, errors.Wrapf(errors.ErrInvalidInput, "subtracting %s from %s", other.Mint, t.Mint)
	}
	if t.Amount < other.Amount {
		return Token{}, errors.Wrapf(errors.ErrInsufficientAmount, "%d %s < %d %s",
			t.Amount, t.Mint, other.Amount, other.Mint)
	}
	return Token{Mint: t.Mint, Amount: t.Amount - other.Amount}, nil
}

// Equals returns true if both mint and amount match
func (t Token) Equals(other Token) bool {
	return t.Mint == other.Mint && t.Amount == other.Amount
}

// Clone provides an independent copy of a token pointer, nil safe
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	return &Token{
		Mint:   t.Mint,
		Amount: t.Amount,
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%d %s", t.Amount, t.Mint)
}

// Validate ensures the mint identifier is well formed
func (t Token) Validate() error {
	if !IsMintID(t.Mint) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid mint: %s", t.Mint)
	}
	return nil
}
