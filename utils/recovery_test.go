package utils

import (
	"context"
	"testing"

	"github.com/tokentrust/escrow"
	"github.com/tokentrust/escrow/errors"
	"github.com/tokentrust/escrow/escrowtest"
	"github.com/tokentrust/escrow/escrowtest/assert"
	"github.com/tokentrust/escrow/store"
)

type panicHandler struct{}

var _ escrow.Handler = panicHandler{}

func (panicHandler) Check(escrow.Context, escrow.KVStore, escrow.Tx) (*escrow.CheckResult, error) {
	panic("check boom")
}

func (panicHandler) Deliver(escrow.Context, escrow.KVStore, escrow.Tx) (*escrow.DeliverResult, error) {
	panic("deliver boom")
}

func TestRecovery(t *testing.T) {
	r := NewRecovery()
	db := store.MemStore()
	tx := &escrowtest.Tx{}

	_, err := r.Check(context.Background(), db, tx, panicHandler{})
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(context.Background(), db, tx, panicHandler{})
	assert.IsErr(t, errors.ErrPanic, err)
}
