package escrowtest

import (
	"encoding/binary"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/crypto"
)

// NewCondition returns a mocked condition. The generated conditions
// are deterministic: the same nonce always gives the same condition.
func NewCondition(nonce int64) escrow.Condition {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(nonce))
	return escrow.NewCondition("test", "cond", data)
}

// NewKey returns a deterministic private key for a given seed nonce.
// Use different nonces for different identities in one test.
func NewKey(nonce int64) crypto.PrivateKey {
	seed := make([]byte, 32)
	binary.BigEndian.PutUint64(seed, uint64(nonce))
	return crypto.PrivKeyEd25519FromSeed(seed)
}
