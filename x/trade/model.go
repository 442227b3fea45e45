package trade

import (
	"encoding/binary"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/orm"
)

// BucketName is where we store the trades
const BucketName = "trade"

// TradeCondition is the deterministic identity of a trade. Both
// parties can compute it from the nonce alone, before the trade
// exists. Its address is the trade id used in all messages.
func TradeCondition(nonce uint64) escrow.Condition {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, nonce)
	return escrow.NewCondition("trade", "seed", data)
}

// VaultCondition is the identity of the custody vault belonging to a
// trade. No private key can ever match it, the only way to move the
// vault funds is through the handlers in this package.
func VaultCondition(tradeID escrow.Address) escrow.Condition {
	return escrow.NewCondition("trade", "vault", tradeID)
}

var _ orm.CloneableData = (*Trade)(nil)

// Validate ensures the trade is well formed
func (t *Trade) Validate() error {
	if err := t.Authority.Validate(); err != nil {
		return errors.Field("Authority", err, "invalid authority address")
	}
	if t.Offered == nil {
		return errors.Field("Offered", errors.ErrEmpty, "missing offered token")
	}
	if err := t.Offered.Validate(); err != nil {
		return errors.Field("Offered", err, "invalid offered token")
	}
	if !t.Offered.IsPositive() {
		return errors.Field("Offered", errors.ErrInvalidAmount, "offered amount must be positive")
	}
	if t.Requested == nil {
		return errors.Field("Requested", errors.ErrEmpty, "missing requested token")
	}
	if err := t.Requested.Validate(); err != nil {
		return errors.Field("Requested", err, "invalid requested token")
	}
	if !t.Requested.IsPositive() {
		return errors.Field("Requested", errors.ErrInvalidAmount, "requested amount must be positive")
	}
	if t.Offered.SameMint(*t.Requested) {
		return errors.Field("Requested", ErrMintMismatch, "trading %s for itself", t.Offered.Mint)
	}
	return nil
}

// Copy makes a deep copy of the trade
func (t *Trade) Copy() orm.CloneableData {
	return &Trade{
		Authority: t.Authority.Clone(),
		Nonce:     t.Nonce,
		Offered:   t.Offered.Clone(),
		Requested: t.Requested.Clone(),
		Executed:  t.Executed,
	}
}

// AsTrade extracts the trade data from the object, nil safe
func AsTrade(obj orm.Object) *Trade {
	if obj == nil {
		return nil
	}
	return obj.Value().(*Trade)
}

// Bucket is a type-safe wrapper around orm.Bucket storing trades
// under their derived address
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a trade bucket
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Trade))),
	}
}

// Create stores a new trade under its derived address
func (b Bucket) Create(db escrow.KVStore, t *Trade) (orm.Object, error) {
	key := TradeCondition(t.Nonce).Address()
	if b.Has(db, key) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "trade %s", key)
	}
	obj := orm.NewSimpleObj(key, t)
	return obj, b.Bucket.Save(db, obj)
}

// Save enforces proper model, before saving
func (b Bucket) Save(db escrow.KVStore, obj orm.Object) error {
	if _, ok := obj.Value().(*Trade); !ok {
		return errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	return b.Bucket.Save(db, obj)
}
