package trade

import (
	"context"
	"testing"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest"
	"github.com/tokentrust/escrow/escrowtest/assert"
	"github.com/tokentrust/escrow/store"
	"github.com/tokentrust/escrow/token"
	"github.com/tokentrust/escrow/x/holdings"
)

var (
	aliceCond = escrowtest.NewCondition(1)
	bobCond   = escrowtest.NewCondition(2)
	eveCond   = escrowtest.NewCondition(3)

	alice = aliceCond.Address()
	bob   = bobCond.Address()
)

func testAuth() *escrowtest.CtxAuth {
	return &escrowtest.CtxAuth{Key: "auth"}
}

func signedBy(auth *escrowtest.CtxAuth, conds ...escrow.Condition) escrow.Context {
	return auth.SetConditions(context.Background(), conds...)
}

func fund(t *testing.T, db escrow.KVStore, addr escrow.Address, toks ...*token.Token) {
	t.Helper()
	obj := holdings.NewAccount(addr)
	for _, tok := range toks {
		assert.Nil(t, holdings.AsAccount(obj).Add(*tok))
	}
	assert.Nil(t, holdings.NewBucket().Save(db, obj))
}

// amountOf returns the held amount, counting a missing account as zero
func amountOf(t *testing.T, db escrow.KVStore, ctrl holdings.Controller, addr escrow.Address, mint string) uint64 {
	t.Helper()
	toks, err := ctrl.Balance(db, addr)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(t, err)
	for _, tok := range toks {
		if tok.Mint == mint {
			return tok.Amount
		}
	}
	return 0
}

// openTrade starts a trade of 50 ABC for 100 XYZ signed by alice
func openTrade(t *testing.T, db escrow.KVStore, auth *escrowtest.CtxAuth, ctrl holdings.Controller, nonce uint64) escrow.Address {
	t.Helper()
	h := StartTradeHandler{auth, NewBucket(), ctrl}
	msg := &StartTradeMsg{
		Authority: alice,
		Nonce:     nonce,
		Offered:   token.NewTokenp("ABC", 50),
		Requested: token.NewTokenp("XYZ", 100),
	}
	res, err := h.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{Msg: msg})
	assert.Nil(t, err)
	return escrow.Address(res.Data)
}

func TestStartTradeHandler(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))

	h := StartTradeHandler{auth, NewBucket(), ctrl}
	msg := &StartTradeMsg{
		Authority: alice,
		Nonce:     1,
		Offered:   token.NewTokenp("ABC", 50),
		Requested: token.NewTokenp("XYZ", 100),
	}
	tx := &escrowtest.Tx{Msg: msg}

	// check allocates gas without touching state
	cres, err := h.Check(signedBy(auth, aliceCond), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, startTradeCost, cres.GasAllocated)
	assert.Equal(t, uint64(80), amountOf(t, db, ctrl, alice, "ABC"))

	res, err := h.Deliver(signedBy(auth, aliceCond), db, tx)
	assert.Nil(t, err)

	tradeID := escrow.Address(res.Data)
	assert.Equal(t, TradeCondition(1).Address(), tradeID)

	// deposit moved into the vault
	vault := VaultCondition(tradeID).Address()
	assert.Equal(t, uint64(30), amountOf(t, db, ctrl, alice, "ABC"))
	assert.Equal(t, uint64(50), amountOf(t, db, ctrl, vault, "ABC"))

	// trade is stored and open
	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Equal(t, false, AsTrade(obj).Executed)
}

func TestStartTradeErrors(t *testing.T) {
	cases := map[string]struct {
		balance uint64
		msg     *StartTradeMsg
		signer  escrow.Condition
		wantErr *errors.Error
	}{
		"authority did not sign": {
			balance: 100,
			msg: &StartTradeMsg{
				Authority: alice,
				Nonce:     1,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("XYZ", 100),
			},
			signer:  bobCond,
			wantErr: errors.ErrUnauthorized,
		},
		"insufficient deposit": {
			balance: 49,
			msg: &StartTradeMsg{
				Authority: alice,
				Nonce:     1,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("XYZ", 100),
			},
			signer:  aliceCond,
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero offered amount": {
			balance: 100,
			msg: &StartTradeMsg{
				Authority: alice,
				Nonce:     1,
				Offered:   token.NewTokenp("ABC", 0),
				Requested: token.NewTokenp("XYZ", 100),
			},
			signer:  aliceCond,
			wantErr: errors.ErrInvalidAmount,
		},
		"same mint both legs": {
			balance: 100,
			msg: &StartTradeMsg{
				Authority: alice,
				Nonce:     1,
				Offered:   token.NewTokenp("ABC", 50),
				Requested: token.NewTokenp("ABC", 100),
			},
			signer:  aliceCond,
			wantErr: ErrMintMismatch,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			auth := testAuth()
			ctrl := holdings.NewController()
			fund(t, db, alice, token.NewTokenp("ABC", tc.balance))

			h := StartTradeHandler{auth, NewBucket(), ctrl}
			_, err := h.Deliver(signedBy(auth, tc.signer), db, &escrowtest.Tx{Msg: tc.msg})
			assert.IsErr(t, tc.wantErr, err)

			// failed start must leave the deposit untouched
			assert.Equal(t, tc.balance, amountOf(t, db, ctrl, alice, "ABC"))
		})
	}
}

func TestStartTradeDuplicateNonce(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 200))

	openTrade(t, db, auth, ctrl, 7)

	h := StartTradeHandler{auth, NewBucket(), ctrl}
	msg := &StartTradeMsg{
		Authority: alice,
		Nonce:     7,
		Offered:   token.NewTokenp("ABC", 10),
		Requested: token.NewTokenp("XYZ", 10),
	}
	_, err := h.Check(signedBy(auth, aliceCond), db, &escrowtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrDuplicate, err)
	_, err = h.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{Msg: msg})
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestExecuteTradeHandler(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))
	fund(t, db, bob, token.NewTokenp("XYZ", 150))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	vault := VaultCondition(tradeID).Address()

	h := ExecuteTradeHandler{auth, NewBucket(), ctrl}
	tx := &escrowtest.Tx{Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID}}

	res, err := h.Deliver(signedBy(auth, bobCond), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, tradeID, escrow.Address(res.Data))

	// both legs settled
	assert.Equal(t, uint64(100), amountOf(t, db, ctrl, alice, "XYZ"))
	assert.Equal(t, uint64(50), amountOf(t, db, ctrl, bob, "ABC"))
	assert.Equal(t, uint64(50), amountOf(t, db, ctrl, bob, "XYZ"))
	assert.Equal(t, uint64(0), amountOf(t, db, ctrl, vault, "ABC"))

	// the trade is marked executed
	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Equal(t, true, AsTrade(obj).Executed)

	// a second execution must fail
	_, err = h.Deliver(signedBy(auth, bobCond), db, tx)
	assert.IsErr(t, ErrAlreadyExecuted, err)
}

func TestExecuteOwnTrade(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80), token.NewTokenp("XYZ", 100))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	vault := VaultCondition(tradeID).Address()

	// the authority settles its own trade: the requested leg pays
	// herself and the vault returns the deposit, nothing is minted
	h := ExecuteTradeHandler{auth, NewBucket(), ctrl}
	_, err := h.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: alice, TradeID: tradeID},
	})
	assert.Nil(t, err)

	assert.Equal(t, uint64(80), amountOf(t, db, ctrl, alice, "ABC"))
	assert.Equal(t, uint64(100), amountOf(t, db, ctrl, alice, "XYZ"))
	assert.Equal(t, uint64(0), amountOf(t, db, ctrl, vault, "ABC"))

	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Equal(t, true, AsTrade(obj).Executed)
}

func TestExecuteTradeErrors(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))
	fund(t, db, bob, token.NewTokenp("XYZ", 99))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	h := ExecuteTradeHandler{auth, NewBucket(), ctrl}

	// unknown trade
	_, err := h.Deliver(signedBy(auth, bobCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: TradeCondition(99).Address()},
	})
	assert.IsErr(t, errors.ErrNotFound, err)

	// executer did not sign
	_, err = h.Deliver(signedBy(auth, eveCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID},
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// executer cannot pay the price (needs 100 XYZ, has 99)
	_, err = h.Deliver(signedBy(auth, bobCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID},
	})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// nothing moved on the failures
	assert.Equal(t, uint64(99), amountOf(t, db, ctrl, bob, "XYZ"))
	assert.Equal(t, uint64(0), amountOf(t, db, ctrl, alice, "XYZ"))
}

func TestCancelTradeHandler(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	vault := VaultCondition(tradeID).Address()

	h := CancelTradeHandler{auth, NewBucket(), ctrl}
	tx := &escrowtest.Tx{Msg: &CancelTradeMsg{TradeID: tradeID}}

	// only the authority can cancel
	_, err := h.Deliver(signedBy(auth, bobCond), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = h.Deliver(signedBy(auth, aliceCond), db, tx)
	assert.Nil(t, err)

	// deposit is back, vault and trade are gone
	assert.Equal(t, uint64(80), amountOf(t, db, ctrl, alice, "ABC"))
	_, err = ctrl.Balance(db, vault)
	assert.IsErr(t, errors.ErrNotFound, err)
	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Nil(t, obj)

	// cancelling again fails
	_, err = h.Deliver(signedBy(auth, aliceCond), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)

	// the nonce can be reused after cancel
	openTrade(t, db, auth, ctrl, 1)
}

func TestCancelExecutedTrade(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))
	fund(t, db, bob, token.NewTokenp("XYZ", 150))

	tradeID := openTrade(t, db, auth, ctrl, 1)

	eh := ExecuteTradeHandler{auth, NewBucket(), ctrl}
	_, err := eh.Deliver(signedBy(auth, bobCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID},
	})
	assert.Nil(t, err)

	// a settled trade cannot be cancelled anymore
	ch := CancelTradeHandler{auth, NewBucket(), ctrl}
	_, err = ch.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{
		Msg: &CancelTradeMsg{TradeID: tradeID},
	})
	assert.IsErr(t, ErrAlreadyExecuted, err)
}

func TestDeleteTradeHandler(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))
	fund(t, db, bob, token.NewTokenp("XYZ", 150))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	vault := VaultCondition(tradeID).Address()

	eh := ExecuteTradeHandler{auth, NewBucket(), ctrl}
	_, err := eh.Deliver(signedBy(auth, bobCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID},
	})
	assert.Nil(t, err)

	dh := DeleteTradeHandler{auth, NewBucket(), ctrl}
	tx := &escrowtest.Tx{Msg: &DeleteTradeMsg{TradeID: tradeID}}

	// only the authority can delete
	_, err = dh.Deliver(signedBy(auth, bobCond), db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = dh.Deliver(signedBy(auth, aliceCond), db, tx)
	assert.Nil(t, err)

	// trade and vault are gone
	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Nil(t, obj)
	_, err = ctrl.Balance(db, vault)
	assert.IsErr(t, errors.ErrNotFound, err)

	// deleting again fails
	_, err = dh.Deliver(signedBy(auth, aliceCond), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestDeleteOpenTradeRefunds(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 80))

	tradeID := openTrade(t, db, auth, ctrl, 1)
	assert.Equal(t, uint64(30), amountOf(t, db, ctrl, alice, "ABC"))

	// deleting an open trade returns the deposit instead of burning it
	dh := DeleteTradeHandler{auth, NewBucket(), ctrl}
	_, err := dh.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{
		Msg: &DeleteTradeMsg{TradeID: tradeID},
	})
	assert.Nil(t, err)

	assert.Equal(t, uint64(80), amountOf(t, db, ctrl, alice, "ABC"))
	obj, err := NewBucket().Get(db, tradeID)
	assert.Nil(t, err)
	assert.Nil(t, obj)
}

// TestTradeLifecycle runs the full happy path: alice offers 1 ABC
// for 2 XYZ, bob takes the deal, alice cleans up.
func TestTradeLifecycle(t *testing.T) {
	db := store.MemStore()
	auth := testAuth()
	ctrl := holdings.NewController()
	fund(t, db, alice, token.NewTokenp("ABC", 1))
	fund(t, db, bob, token.NewTokenp("XYZ", 2))

	sh := StartTradeHandler{auth, NewBucket(), ctrl}
	res, err := sh.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{
		Msg: &StartTradeMsg{
			Authority: alice,
			Nonce:     1,
			Offered:   token.NewTokenp("ABC", 1),
			Requested: token.NewTokenp("XYZ", 2),
		},
	})
	assert.Nil(t, err)
	tradeID := escrow.Address(res.Data)

	eh := ExecuteTradeHandler{auth, NewBucket(), ctrl}
	_, err = eh.Deliver(signedBy(auth, bobCond), db, &escrowtest.Tx{
		Msg: &ExecuteTradeMsg{Executer: bob, TradeID: tradeID},
	})
	assert.Nil(t, err)

	dh := DeleteTradeHandler{auth, NewBucket(), ctrl}
	_, err = dh.Deliver(signedBy(auth, aliceCond), db, &escrowtest.Tx{
		Msg: &DeleteTradeMsg{TradeID: tradeID},
	})
	assert.Nil(t, err)

	assert.Equal(t, uint64(0), amountOf(t, db, ctrl, alice, "ABC"))
	assert.Equal(t, uint64(2), amountOf(t, db, ctrl, alice, "XYZ"))
	assert.Equal(t, uint64(1), amountOf(t, db, ctrl, bob, "ABC"))
	assert.Equal(t, uint64(0), amountOf(t, db, ctrl, bob, "XYZ"))
}
