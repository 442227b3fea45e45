package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest"
	"github.com/tokentrust/escrow/store/iavl"
	"github.com/tokentrust/escrow/token"
	"github.com/tokentrust/escrow/utils"
	"github.com/tokentrust/escrow/x/holdings"
	"github.com/tokentrust/escrow/x/trade"
)

var (
	aliceCond = escrowtest.NewCondition(1)
	bobCond   = escrowtest.NewCondition(2)

	alice = aliceCond.Address()
	bob   = bobCond.Address()
)

func testApp(t *testing.T, auth *escrowtest.CtxAuth) *Application {
	t.Helper()

	router := NewRouter()
	trade.RegisterRoutes(router, auth, holdings.NewController())

	queries := escrow.NewQueryRouter()
	trade.RegisterQuery(queries)
	holdings.RegisterQuery(queries)

	handler := ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
	).WithHandler(router)
	a := NewApplication(iavl.MemCommitStore(), handler, queries, nil)
	require.NoError(t, a.LoadState())

	genesis := escrow.Options{
		"holdings": json.RawMessage(`[
			{"address": "` + alice.String() + `", "tokens": [{"mint": "ABC", "amount": 80}]},
			{"address": "` + bob.String() + `", "tokens": [{"mint": "XYZ", "amount": 150}]}
		]`),
	}
	require.NoError(t, a.InitChain(genesis, &holdings.Initializer{}))
	a.Commit()
	return a
}

// queryAmount reads a balance through the query interface
func queryAmount(t *testing.T, a *Application, addr escrow.Address, mint string) uint64 {
	t.Helper()
	models, err := a.Query("/holdings", escrow.KeyQueryMod, addr)
	require.NoError(t, err)
	if len(models) == 0 {
		return 0
	}
	var acct holdings.Account
	require.NoError(t, acct.Unmarshal(models[0].Value))
	return acct.Balance(mint).Amount
}

func TestAppTradeLifecycle(t *testing.T) {
	auth := &escrowtest.CtxAuth{Key: "auth"}
	a := testApp(t, auth)

	// alice opens the trade: 50 ABC for 100 XYZ
	start := &escrowtest.Tx{Msg: &trade.StartTradeMsg{
		Authority: alice,
		Nonce:     1,
		Offered:   token.NewTokenp("ABC", 50),
		Requested: token.NewTokenp("XYZ", 100),
	}}
	res, err := a.DeliverTx(auth.SetConditions(context.Background(), aliceCond), start)
	require.NoError(t, err)
	tradeID := escrow.Address(res.Data)
	a.Commit()

	// the open trade is visible through the query interface
	models, err := a.Query("/trades", escrow.KeyQueryMod, tradeID)
	require.NoError(t, err)
	require.Len(t, models, 1)

	// bob executes
	execute := &escrowtest.Tx{Msg: &trade.ExecuteTradeMsg{
		Executer: bob,
		TradeID:  tradeID,
	}}
	_, err = a.DeliverTx(auth.SetConditions(context.Background(), bobCond), execute)
	require.NoError(t, err)

	// alice cleans up
	del := &escrowtest.Tx{Msg: &trade.DeleteTradeMsg{TradeID: tradeID}}
	_, err = a.DeliverTx(auth.SetConditions(context.Background(), aliceCond), del)
	require.NoError(t, err)
	id := a.Commit()
	assert.True(t, id.Version >= 2)

	// final balances after the swap
	assert.Equal(t, uint64(30), queryAmount(t, a, alice, "ABC"))
	assert.Equal(t, uint64(100), queryAmount(t, a, alice, "XYZ"))
	assert.Equal(t, uint64(50), queryAmount(t, a, bob, "ABC"))
	assert.Equal(t, uint64(50), queryAmount(t, a, bob, "XYZ"))

	// the trade is gone
	models, err = a.Query("/trades", escrow.KeyQueryMod, tradeID)
	require.NoError(t, err)
	assert.Len(t, models, 0)
}

func TestAppFailedTxLeavesNoTrace(t *testing.T) {
	auth := &escrowtest.CtxAuth{Key: "auth"}
	a := testApp(t, auth)

	start := &escrowtest.Tx{Msg: &trade.StartTradeMsg{
		Authority: alice,
		Nonce:     1,
		Offered:   token.NewTokenp("ABC", 50),
		Requested: token.NewTokenp("XYZ", 200),
	}}
	res, err := a.DeliverTx(auth.SetConditions(context.Background(), aliceCond), start)
	require.NoError(t, err)
	tradeID := escrow.Address(res.Data)

	// bob cannot pay 200 XYZ, the execution must fail
	execute := &escrowtest.Tx{Msg: &trade.ExecuteTradeMsg{
		Executer: bob,
		TradeID:  tradeID,
	}}
	_, err = a.DeliverTx(auth.SetConditions(context.Background(), bobCond), execute)
	if !errors.ErrInsufficientAmount.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	a.Commit()

	// the failed execute left every balance as it was
	vault := trade.VaultCondition(tradeID).Address()
	assert.Equal(t, uint64(30), queryAmount(t, a, alice, "ABC"))
	assert.Equal(t, uint64(150), queryAmount(t, a, bob, "XYZ"))
	assert.Equal(t, uint64(50), queryAmount(t, a, vault, "ABC"))

	// and the trade is still open
	models, err := a.Query("/trades", escrow.KeyQueryMod, tradeID)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var tr trade.Trade
	require.NoError(t, tr.Unmarshal(models[0].Value))
	assert.False(t, tr.Executed)
}

// sabotageHandler writes a marker key and then fails on demand, to
// prove that writes of a failed delivery are rolled back
type sabotageHandler struct {
	fail bool
}

var _ escrow.Handler = sabotageHandler{}

func (h sabotageHandler) Check(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	db.Set([]byte("marker"), []byte("check"))
	return &escrow.CheckResult{}, nil
}

func (h sabotageHandler) Deliver(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	db.Set([]byte("marker"), []byte("deliver"))
	if h.fail {
		return nil, errors.Wrap(errors.ErrInvalidState, "handler failure after write")
	}
	return &escrow.DeliverResult{}, nil
}

func TestAppRollsBackPartialWrites(t *testing.T) {
	store := iavl.MemCommitStore()
	a := NewApplication(store, sabotageHandler{fail: true}, escrow.NewQueryRouter(), nil)
	require.NoError(t, a.LoadState())

	tx := &escrowtest.Tx{Msg: &trade.CancelTradeMsg{TradeID: alice}}
	_, err := a.DeliverTx(context.Background(), tx)
	if !errors.ErrInvalidState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	a.Commit()

	// the write before the failure must not survive
	assert.Nil(t, store.Get([]byte("marker")))
}

func TestAppCheckTxNeverPersists(t *testing.T) {
	store := iavl.MemCommitStore()
	a := NewApplication(store, sabotageHandler{}, escrow.NewQueryRouter(), nil)
	require.NoError(t, a.LoadState())

	tx := &escrowtest.Tx{Msg: &trade.CancelTradeMsg{TradeID: alice}}
	_, err := a.CheckTx(context.Background(), tx)
	require.NoError(t, err)
	a.Commit()

	// even a successful check is only a dry run
	assert.Nil(t, store.Get([]byte("marker")))
}

func TestAppUnknownPath(t *testing.T) {
	auth := &escrowtest.CtxAuth{Key: "auth"}
	a := testApp(t, auth)

	tx := &escrowtest.Tx{Msg: &unroutedMsg{}}
	_, err := a.DeliverTx(context.Background(), tx)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	_, err = a.Query("/nothing", escrow.KeyQueryMod, nil)
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

type unroutedMsg struct{}

var _ escrow.Msg = (*unroutedMsg)(nil)

func (unroutedMsg) Marshal() ([]byte, error) { return nil, nil }
func (*unroutedMsg) Unmarshal([]byte) error  { return nil }
func (unroutedMsg) Validate() error          { return nil }
func (unroutedMsg) Path() string             { return "no/route" }
