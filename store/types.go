//nolint
package store

import "github.com/tokentrust/escrow"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = escrow.KVStore
type ReadOnlyKVStore = escrow.ReadOnlyKVStore
type Iterator = escrow.Iterator
type SetDeleter = escrow.SetDeleter
type Batch = escrow.Batch
type CacheableKVStore = escrow.CacheableKVStore
type KVCacheWrap = escrow.KVCacheWrap
type CommitKVStore = escrow.CommitKVStore
type CommitID = escrow.CommitID
type Model = escrow.Model
