package orm

import (
	"fmt"
	"regexp"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

const bucketNameR = `^[a-z]{3,10}$`

var isBucketName = regexp.MustCompile(bucketNameR).MatchString

// Bucket is a generic holder that stores data as well
// as references to secondary indexes and sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Object
}

var _ escrow.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data under a given name.
// The proto defines the type of data stored, Parse will return
// clones of it. Bucket name must match [a-z]{3,10}, panics otherwise.
func NewBucket(name string, proto Object) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including the bucket prefix
func (b Bucket) DBKey(key []byte) []byte {
	// always allocate, so the caller cannot modify the prefix
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element from the bucket, returns nil if no data present
func (b Bucket) Get(db escrow.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz := db.Get(dbkey)
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data (weakly typed bytes)
// and will return a typed object
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", b.name)
	}
	if keyed, ok := obj.(keyer); ok {
		keyed.SetKey(key)
	}
	return obj, nil
}

// Save will write the object to the bucket, after validating it
func (b Bucket) Save(db escrow.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrapf(err, "saving into %s", b.name)
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	db.Set(b.DBKey(model.Key()), bz)
	return nil
}

// Delete will remove the value at a key
func (b Bucket) Delete(db escrow.KVStore, key []byte) error {
	db.Delete(b.DBKey(key))
	return nil
}

// Has returns true if an object is present under the given key
func (b Bucket) Has(db escrow.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Register registers this Bucket with the QueryRouter, so that
// the bucket contents can be looked up by key or prefix.
func (b Bucket) Register(name string, qr escrow.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	qr.Register(root, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db escrow.ReadOnlyKVStore, mod string, data []byte) ([]escrow.Model, error) {
	switch mod {
	case escrow.KeyQueryMod:
		key := b.DBKey(data)
		value := db.Get(key)
		if value == nil {
			return nil, nil
		}
		res := []escrow.Model{{Key: key, Value: value}}
		return res, nil
	case escrow.PrefixQueryMod:
		prefix := b.DBKey(data)
		return queryPrefix(db, prefix), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown mod: %s", mod)
	}
}

// keyer is implemented by objects that allow the key to be set
// after parsing, like SimpleObj.
type keyer interface {
	SetKey([]byte)
}

// queryPrefix returns all models with the given key prefix
func queryPrefix(db escrow.ReadOnlyKVStore, prefix []byte) []escrow.Model {
	var res []escrow.Model
	iter := db.Iterator(prefix, prefixEnd(prefix))
	defer iter.Close()
	for ; iter.Valid(); iter.Next() {
		m := escrow.Model{
			Key:   append([]byte(nil), iter.Key()...),
			Value: append([]byte(nil), iter.Value()...),
		}
		res = append(res, m)
	}
	return res
}

// prefixEnd returns the smallest key strictly greater than all keys
// with this prefix. A nil return means iterate to the end of the db.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
