package trade

import (
	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
)

const (
	pathStartTrade   = "trade/start"
	pathExecuteTrade = "trade/execute"
	pathCancelTrade  = "trade/cancel"
	pathDeleteTrade  = "trade/delete"
)

var (
	_ escrow.Msg = (*StartTradeMsg)(nil)
	_ escrow.Msg = (*ExecuteTradeMsg)(nil)
	_ escrow.Msg = (*CancelTradeMsg)(nil)
	_ escrow.Msg = (*DeleteTradeMsg)(nil)
)

// Path implements escrow.Msg interface
func (StartTradeMsg) Path() string {
	return pathStartTrade
}

// Validate implements escrow.Msg interface
func (m StartTradeMsg) Validate() error {
	if err := m.Authority.Validate(); err != nil {
		return errors.Field("Authority", err, "invalid authority address")
	}
	if m.Offered == nil {
		return errors.Field("Offered", errors.ErrEmpty, "missing offered token")
	}
	if err := m.Offered.Validate(); err != nil {
		return errors.Field("Offered", err, "invalid offered token")
	}
	if !m.Offered.IsPositive() {
		return errors.Field("Offered", errors.ErrInvalidAmount, "offered amount must be positive")
	}
	if m.Requested == nil {
		return errors.Field("Requested", errors.ErrEmpty, "missing requested token")
	}
	if err := m.Requested.Validate(); err != nil {
		return errors.Field("Requested", err, "invalid requested token")
	}
	if !m.Requested.IsPositive() {
		return errors.Field("Requested", errors.ErrInvalidAmount, "requested amount must be positive")
	}
	if m.Offered.SameMint(*m.Requested) {
		return errors.Field("Requested", ErrMintMismatch, "trading %s for itself", m.Offered.Mint)
	}
	return nil
}

// Path implements escrow.Msg interface
func (ExecuteTradeMsg) Path() string {
	return pathExecuteTrade
}

// Validate implements escrow.Msg interface
func (m ExecuteTradeMsg) Validate() error {
	if err := m.Executer.Validate(); err != nil {
		return errors.Field("Executer", err, "invalid executer address")
	}
	if err := m.TradeID.Validate(); err != nil {
		return errors.Field("TradeID", err, "invalid trade id")
	}
	return nil
}

// Path implements escrow.Msg interface
func (CancelTradeMsg) Path() string {
	return pathCancelTrade
}

// Validate implements escrow.Msg interface
func (m CancelTradeMsg) Validate() error {
	if err := m.TradeID.Validate(); err != nil {
		return errors.Field("TradeID", err, "invalid trade id")
	}
	return nil
}

// Path implements escrow.Msg interface
func (DeleteTradeMsg) Path() string {
	return pathDeleteTrade
}

// Validate implements escrow.Msg interface
func (m DeleteTradeMsg) Validate() error {
	if err := m.TradeID.Validate(); err != nil {
		return errors.Field("TradeID", err, "invalid trade id")
	}
	return nil
}
