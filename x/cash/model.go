package cash

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the coins of a single address.
type Wallet struct {
	Metadata *weave.Metadata
	Coins    coin.Coins
	// Authority if set is the only address allowed to move the coins out
	// of this wallet, using Withdraw.
	Authority weave.Address
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := w.Coins.Validate(); err != nil {
		return errors.Wrap(err, "coins")
	}
	if len(w.Authority) != 0 {
		if err := w.Authority.Validate(); err != nil {
			return errors.Wrap(err, "authority")
		}
	}
	return nil
}

// IsCustodial returns true if the wallet can be spent only by its authority.
func (w *Wallet) IsCustodial() bool {
	return len(w.Authority) != 0
}

func (w *Wallet) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if w.Metadata != nil {
		enc.Message(1, w.Metadata)
	}
	for _, c := range w.Coins {
		enc.Message(2, c)
	}
	enc.Bytes(3, w.Authority)
	return enc.Result()
}

func (w *Wallet) Unmarshal(raw []byte) error {
	*w = Wallet{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			w.Metadata = &weave.Metadata{}
			err = dec.Message(wire, w.Metadata)
		case 2:
			var c coin.Coin
			if err = dec.Message(wire, &c); err == nil {
				w.Coins = append(w.Coins, &c)
			}
		case 3:
			var b []byte
			b, err = dec.Bytes(wire)
			w.Authority = b
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "wallet")
		}
	}
	return nil
}

// NewBucket returns a bucket for storing wallets keyed by their address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
