package trade

import (
	"testing"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest"
	"github.com/tokentrust/escrow/escrowtest/assert"
	"github.com/tokentrust/escrow/store"
	"github.com/tokentrust/escrow/token"
)

func TestTradeConditionDeterminism(t *testing.T) {
	// the same nonce always derives the same identity
	assert.Equal(t, TradeCondition(7), TradeCondition(7))
	assert.Equal(t, TradeCondition(7).Address(), TradeCondition(7).Address())

	// different nonces never collide
	if TradeCondition(7).Address().Equals(TradeCondition(8).Address()) {
		t.Fatal("nonces 7 and 8 derive the same address")
	}

	// trade and vault addresses live in separate namespaces
	id := TradeCondition(7).Address()
	if id.Equals(VaultCondition(id).Address()) {
		t.Fatal("trade and vault derive the same address")
	}

	assert.Nil(t, TradeCondition(7).Validate())
	assert.Nil(t, VaultCondition(id).Validate())
	assert.Nil(t, VaultCondition(id).Address().Validate())
}

func TestTradeValidate(t *testing.T) {
	alice := escrowtest.NewCondition(1).Address()

	cases := map[string]struct {
		trade   Trade
		wantErr *errors.Error
	}{
		"valid trade": {
			trade: Trade{
				Authority: alice,
				Nonce:     1,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("XYZ", 100),
			},
		},
		"missing authority": {
			trade: Trade{
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("XYZ", 100),
			},
			wantErr: errors.ErrInvalidInput,
		},
		"missing offered": {
			trade: Trade{
				Authority: alice,
				Requested: token.NewTokenp("XYZ", 100),
			},
			wantErr: errors.ErrEmpty,
		},
		"zero offered": {
			trade: Trade{
				Authority: alice,
				Offered:   token.NewTokenp("ABC", 0),
				Requested: token.NewTokenp("XYZ", 100),
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"zero requested": {
			trade: Trade{
				Authority: alice,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("XYZ", 0),
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"same mint on both legs": {
			trade: Trade{
				Authority: alice,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("ABC", 100),
			},
			wantErr: ErrMintMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if !tc.wantErr.Is(tc.trade.Validate()) {
				t.Fatalf("unexpected error: %+v", tc.trade.Validate())
			}
		})
	}
}

func TestBucketCreate(t *testing.T) {
	alice := escrowtest.NewCondition(1).Address()
	db := store.MemStore()
	bucket := NewBucket()

	trade := &Trade{
		Authority: alice,
		Nonce:     42,
		Offered:   token.NewTokenp("ABC", 50),
		Requested: token.NewTokenp("XYZ", 100),
	}
	obj, err := bucket.Create(db, trade)
	assert.Nil(t, err)
	assert.Equal(t, TradeCondition(42).Address(), escrow.Address(obj.Key()))

	// the same nonce cannot be claimed twice
	_, err = bucket.Create(db, trade.Copy().(*Trade))
	assert.IsErr(t, errors.ErrDuplicate, err)

	// load it back and compare
	loaded, err := bucket.Get(db, TradeCondition(42).Address())
	assert.Nil(t, err)
	got := AsTrade(loaded)
	assert.Equal(t, trade.Nonce, got.Nonce)
	assert.Equal(t, trade.Authority, got.Authority)
	assert.Equal(t, *trade.Offered, *got.Offered)
	assert.Equal(t, *trade.Requested, *got.Requested)
	assert.Equal(t, false, got.Executed)
}
