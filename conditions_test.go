package escrow

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionDeterminism(t *testing.T) {
	a := NewCondition("trade", "seed", []byte{0, 0, 0, 0, 0, 0, 0, 7})
	b := NewCondition("trade", "seed", []byte{0, 0, 0, 0, 0, 0, 0, 7})

	assert.True(t, a.Equals(b))
	assert.Equal(t, a.Address(), b.Address())

	// any change to the data changes the address
	c := NewCondition("trade", "seed", []byte{0, 0, 0, 0, 0, 0, 0, 8})
	assert.False(t, a.Address().Equals(c.Address()))

	// same data under a different type is a different identity
	d := NewCondition("trade", "vault", []byte{0, 0, 0, 0, 0, 0, 0, 7})
	assert.False(t, a.Address().Equals(d.Address()))
}

func TestConditionParse(t *testing.T) {
	data := []byte("some-binary-data")
	c := NewCondition("sigs", "ed25519", data)

	ext, typ, gotData, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.True(t, bytes.Equal(data, gotData))

	// data containing the separator still parses
	tricky := NewCondition("sigs", "ed25519", []byte("with/slash"))
	_, _, gotData, err = tricky.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte("with/slash"), gotData)

	// newline byte in the data must not break parsing
	nl := NewCondition("trade", "seed", []byte{0x20, 0x0a, 0x20})
	require.NoError(t, nl.Validate())

	var bad Condition = []byte("garbage")
	if err := bad.Validate(); err == nil {
		t.Fatal("garbage accepted as condition")
	}
}

func TestAddressValidate(t *testing.T) {
	addr := NewCondition("test", "cond", []byte("foo")).Address()
	require.NoError(t, addr.Validate())
	assert.Equal(t, AddressLength, len(addr))

	assert.Error(t, Address([]byte{1, 2, 3}).Validate())
	assert.Error(t, Address(nil).Validate())
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("test", "cond", []byte("foo")).Address()

	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var got Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))

	// the cond: prefix derives the address from a condition string
	var derived Address
	cond := []byte(`"cond:test/cond/666F6F"`)
	require.NoError(t, json.Unmarshal(cond, &derived))
	assert.True(t, addr.Equals(derived))

	// empty value resets the address
	var empty Address
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.Nil(t, empty)
}

func TestConditionJSON(t *testing.T) {
	c := NewCondition("sigs", "ed25519", []byte{1, 2, 3})

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"sigs/ed25519/010203"`, string(bytes.ToLower(raw)))

	var got Condition
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, c.Equals(got))
}
