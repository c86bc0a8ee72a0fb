package utils

import (
	"time"

	"github.com/iov-one/weave-escrow"
)

// Logging is a decorator that writes a log entry for every processed
// transaction, including its path, duration and the result.
type Logging struct{}

var _ weave.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs failures as info and success as debug.
func (r Logging) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, weave.GetPath(tx), resLog, err, true)
	return res, err
}

// Deliver logs failures as error and success as info.
func (r Logging) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, weave.GetPath(tx), resLog, err, false)
	return res, err
}

func logDuration(ctx weave.Context, start time.Time, path, msg string, err error, check bool) {
	delta := time.Since(start)
	logger := weave.GetLogger(ctx).With("duration", delta/time.Microsecond, "path", path)

	// An entry is written even for an empty message, the key values are
	// relevant on their own.
	switch {
	case err != nil && check:
		logger.Info(msg, "err", err)
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
