package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

// ExtensionName is used for the Conditions we generate
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key:
// sign a message and provide the matching public key.
type Signer interface {
	Sign(message []byte) (Signature, error)
	PublicKey() PublicKey
}

// Signature is a raw ed25519 signature
type Signature []byte

// PublicKey is a raw ed25519 public key
type PublicKey []byte

// Verify verifies the signature was created with this message and public key
func (p PublicKey) Verify(message []byte, sig Signature) bool {
	if len(p) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into an authorization condition
func (p PublicKey) Condition() escrow.Condition {
	return escrow.NewCondition(ExtensionName, "ed25519", p)
}

// Address is a shortcut for Condition().Address()
func (p PublicKey) Address() escrow.Address {
	return p.Condition().Address()
}

// Validate ensures the key has the expected size
func (p PublicKey) Validate() error {
	if len(p) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "public key size: %d", len(p))
	}
	return nil
}

// PrivateKey is a raw ed25519 private key
type PrivateKey []byte

var _ Signer = (PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p PrivateKey) Sign(message []byte) (Signature, error) {
	if len(p) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "private key size: %d", len(p))
	}
	return Signature(ed25519.Sign(ed25519.PrivateKey(p), message)), nil
}

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() PrivateKey {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return PrivateKey(priv)
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) PrivateKey {
	return PrivateKey(ed25519.NewKeyFromSeed(seed))
}
