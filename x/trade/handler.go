package trade

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/orm"
	"github.com/tokentrust/escrow/x"
	"github.com/tokentrust/escrow/x/holdings"
)

const (
	startTradeCost   int64 = 300
	executeTradeCost int64 = 200
	cancelTradeCost  int64 = 100
	deleteTradeCost  int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package
func RegisterRoutes(r escrow.Registry, auth x.Authenticator, ctrl holdings.Controller) {
	bucket := NewBucket()
	r.Handle(pathStartTrade, StartTradeHandler{auth, bucket, ctrl})
	r.Handle(pathExecuteTrade, ExecuteTradeHandler{auth, bucket, ctrl})
	r.Handle(pathCancelTrade, CancelTradeHandler{auth, bucket, ctrl})
	r.Handle(pathDeleteTrade, DeleteTradeHandler{auth, bucket, ctrl})
}

// RegisterQuery will register trades as "/trades"
func RegisterQuery(qr escrow.QueryRouter) {
	NewBucket().Register("trades", qr)
}

// StartTradeHandler opens a trade and locks the offered tokens in
// the vault
type StartTradeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   holdings.Controller
}

var _ escrow.Handler = StartTradeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h StartTradeHandler) Check(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrow.CheckResult{GasAllocated: startTradeCost}, nil
}

// Deliver moves the offered tokens into the vault and persists the
// trade under its derived address
func (h StartTradeHandler) Deliver(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	tradeID := TradeCondition(msg.Nonce).Address()
	vault := VaultCondition(tradeID).Address()

	// fund the vault first, an underfunded authority must not be
	// able to open a trade
	if err := h.ctrl.MoveTokens(db, msg.Authority, vault, *msg.Offered); err != nil {
		return nil, err
	}

	t := &Trade{
		Authority: msg.Authority,
		Nonce:     msg.Nonce,
		Offered:   msg.Offered,
		Requested: msg.Requested,
	}
	if _, err := h.bucket.Create(db, t); err != nil {
		return nil, err
	}

	return &escrow.DeliverResult{Data: tradeID}, nil
}

// validate does all common pre-processing between Check and Deliver
func (h StartTradeHandler) validate(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*StartTradeMsg, error) {
	var msg StartTradeMsg
	if err := escrow.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority did not sign")
	}
	tradeID := TradeCondition(msg.Nonce).Address()
	if h.bucket.Has(db, tradeID) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "trade %s", tradeID)
	}
	return &msg, nil
}

// ExecuteTradeHandler settles an open trade
type ExecuteTradeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   holdings.Controller
}

var _ escrow.Handler = ExecuteTradeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ExecuteTradeHandler) Check(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrow.CheckResult{GasAllocated: executeTradeCost}, nil
}

// Deliver settles both legs of the swap and marks the trade executed.
// The store is a savepoint, so a failure in the second leg rolls the
// first one back as well.
func (h ExecuteTradeHandler) Deliver(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	msg, obj, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t := AsTrade(obj)
	vault := VaultCondition(msg.TradeID).Address()

	// the executer pays the authority the asked price
	if err := h.ctrl.MoveTokens(db, msg.Executer, t.Authority, *t.Requested); err != nil {
		return nil, err
	}
	// the vault releases the offered tokens to the executer
	if err := h.ctrl.MoveTokens(db, vault, msg.Executer, *t.Offered); err != nil {
		return nil, err
	}

	t.Executed = true
	if err := h.bucket.Save(db, obj); err != nil {
		return nil, err
	}

	return &escrow.DeliverResult{Data: msg.TradeID}, nil
}

func (h ExecuteTradeHandler) validate(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*ExecuteTradeMsg, orm.Object, error) {
	var msg ExecuteTradeMsg
	if err := escrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	obj, err := h.bucket.Get(db, msg.TradeID)
	if err != nil {
		return nil, nil, err
	}
	if obj == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "trade %s", msg.TradeID)
	}
	if AsTrade(obj).Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "trade %s", msg.TradeID)
	}
	if !h.auth.HasAddress(ctx, msg.Executer) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "executer did not sign")
	}
	return &msg, obj, nil
}

// CancelTradeHandler aborts an open trade and refunds the deposit
type CancelTradeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   holdings.Controller
}

var _ escrow.Handler = CancelTradeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h CancelTradeHandler) Check(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrow.CheckResult{GasAllocated: cancelTradeCost}, nil
}

// Deliver refunds the vault to the authority and removes both the
// vault account and the trade record
func (h CancelTradeHandler) Deliver(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	msg, obj, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t := AsTrade(obj)
	vault := VaultCondition(msg.TradeID).Address()

	if err := h.ctrl.MoveTokens(db, vault, t.Authority, *t.Offered); err != nil {
		return nil, err
	}
	if err := h.ctrl.CloseAccount(db, vault); err != nil {
		return nil, err
	}
	if err := h.bucket.Delete(db, msg.TradeID); err != nil {
		return nil, err
	}

	return &escrow.DeliverResult{Data: msg.TradeID}, nil
}

func (h CancelTradeHandler) validate(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*CancelTradeMsg, orm.Object, error) {
	var msg CancelTradeMsg
	if err := escrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	obj, err := h.bucket.Get(db, msg.TradeID)
	if err != nil {
		return nil, nil, err
	}
	if obj == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "trade %s", msg.TradeID)
	}
	t := AsTrade(obj)
	if t.Executed {
		return nil, nil, errors.Wrapf(ErrAlreadyExecuted, "trade %s", msg.TradeID)
	}
	if !h.auth.HasAddress(ctx, t.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the authority can cancel")
	}
	return &msg, obj, nil
}

// DeleteTradeHandler removes a settled trade and its vault
type DeleteTradeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   holdings.Controller
}

var _ escrow.Handler = DeleteTradeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h DeleteTradeHandler) Check(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrow.CheckResult{GasAllocated: deleteTradeCost}, nil
}

// Deliver removes the trade record and closes the vault. Funds still
// sitting in the vault are returned to the authority, deleting a
// trade can never burn tokens.
func (h DeleteTradeHandler) Deliver(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*escrow.DeliverResult, error) {
	msg, obj, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t := AsTrade(obj)
	vault := VaultCondition(msg.TradeID).Address()

	leftover, err := h.ctrl.Balance(db, vault)
	switch {
	case errors.ErrNotFound.Is(err):
		// no vault account, nothing to refund
	case err != nil:
		return nil, err
	default:
		for _, tok := range leftover {
			if err := h.ctrl.MoveTokens(db, vault, t.Authority, *tok); err != nil {
				return nil, err
			}
		}
		if err := h.ctrl.CloseAccount(db, vault); err != nil {
			return nil, err
		}
	}

	if err := h.bucket.Delete(db, msg.TradeID); err != nil {
		return nil, err
	}

	return &escrow.DeliverResult{Data: msg.TradeID}, nil
}

func (h DeleteTradeHandler) validate(ctx escrow.Context, db escrow.KVStore, tx escrow.Tx) (*DeleteTradeMsg, orm.Object, error) {
	var msg DeleteTradeMsg
	if err := escrow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	obj, err := h.bucket.Get(db, msg.TradeID)
	if err != nil {
		return nil, nil, err
	}
	if obj == nil {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "trade %s", msg.TradeID)
	}
	if !h.auth.HasAddress(ctx, AsTrade(obj).Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the authority can delete")
	}
	return &msg, obj, nil
}
