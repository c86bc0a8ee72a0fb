package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := weave.WithLogger(context.Background(), logger)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/logging"}}
	db := store.MemStore()

	ok := weavetest.Decorate(&weavetest.Handler{
		DeliverResult: weave.DeliverResult{Log: "all good"},
	}, NewLogging())
	_, err := ok.Deliver(ctx, db, tx)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "all good")
	assert.Contains(t, buf.String(), "path=test/logging")

	buf.Reset()
	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrUnauthorized}, NewLogging())
	_, err = failing.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Contains(t, buf.String(), "unauthorized")
	assert.Contains(t, buf.String(), "E[")
}
