package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/tokentrust/escrow/store"
)

// cacheSize is the number of recently used nodes kept in memory
const cacheSize = 10000

// CommitStore manages an iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with leveldb disk backing.
// The records survive process restarts once committed.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, err
	}
	return CommitStore{tree: iavl.NewMutableTree(db, cacheSize)}, nil
}

// MemCommitStore creates a store with no disk backing, for tests
func MemCommitStore() CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(dbm.NewMemDB(), cacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) []byte {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() store.CommitID {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		panic(err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// CacheWrap gives us a savepoint to perform actions
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return Cache{
		parent: s,
		tree:   s.tree,
	}
}

// Cache is a working set on top of the committed tree. Writes mutate
// the working tree and only become durable on Write, which saves the
// next version. Discard rolls the working tree back to the last saved
// version.
type Cache struct {
	parent CommitStore
	tree   *iavl.MutableTree
}

var _ store.KVCacheWrap = Cache{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (c Cache) Get(key []byte) []byte {
	_, val := c.tree.Get(key)
	return val
}

// Has checks if a key exists. Panics on nil key.
func (c Cache) Has(key []byte) bool {
	return c.tree.Has(key)
}

// Set adds a new value to the working tree
func (c Cache) Set(key, value []byte) {
	c.tree.Set(key, value)
}

// Delete removes from the working tree
func (c Cache) Delete(key []byte) {
	c.tree.Remove(key)
}

// NewBatch returns a batch that can write multiple ops atomically
func (c Cache) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(c)
}

// CacheWrap wraps us once again, with btree
func (c Cache) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(c, c.NewBatch(), nil)
}

// Write saves the working tree as the next committed version.
func (c Cache) Write() {
	c.parent.Commit()
}

// Discard throws away all changes since the last committed version.
func (c Cache) Discard() {
	c.tree.Rollback()
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (c Cache) Iterator(start, end []byte) store.Iterator {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		m := store.Model{Key: key, Value: value}
		res = append(res, m)
		return false
	}
	c.tree.IterateRange(start, end, true, add)
	return store.NewSliceIterator(res)
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (c Cache) ReverseIterator(start, end []byte) store.Iterator {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		m := store.Model{Key: key, Value: value}
		res = append(res, m)
		return false
	}
	c.tree.IterateRange(start, end, false, add)
	return store.NewSliceIterator(res)
}
