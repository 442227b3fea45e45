package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreRoundTrip(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	cache.Set([]byte("trade"), []byte("open"))
	assert.Equal(t, []byte("open"), cache.Get([]byte("trade")))

	// nothing visible at the committed state yet
	assert.Nil(t, s.Get([]byte("trade")))

	cache.Write()
	assert.Equal(t, []byte("open"), s.Get([]byte("trade")))

	id := s.LatestVersion()
	assert.True(t, id.Version >= 1)
	assert.NotEmpty(t, id.Hash)
}

func TestCacheDiscard(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	cache.Set([]byte("keep"), []byte("1"))
	cache.Write()

	cache = s.CacheWrap()
	cache.Set([]byte("drop"), []byte("2"))
	cache.Delete([]byte("keep"))
	cache.Discard()

	assert.Equal(t, []byte("1"), s.Get([]byte("keep")))
	assert.Nil(t, s.Get([]byte("drop")))
}

func TestCacheIterator(t *testing.T) {
	s := MemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	cache.Set([]byte("a"), []byte("1"))
	cache.Set([]byte("b"), []byte("2"))
	cache.Set([]byte("c"), []byte("3"))

	var keys []string
	it := cache.Iterator([]byte("a"), []byte("c"))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}
