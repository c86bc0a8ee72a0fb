package cash

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
)

// Controller is the token ledger used by other extensions.
type Controller interface {
	CoinMover
	// Balance returns the coins held by given address. ErrNotFound is
	// returned if there is no wallet at that address.
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error)
	// OpenAccount makes the wallet at given address spendable only by
	// the authority. An ordinary wallet found at that address becomes
	// custodial and keeps its coins. ErrDuplicate is returned if the
	// address is already custodial.
	//
	// Only call it for derived addresses that no key controls.
	OpenAccount(db weave.KVStore, addr, authority weave.Address) error
	// Deposit moves coins from an ordinary wallet into a custodial wallet
	// controlled by given authority.
	Deposit(db weave.KVStore, src, dest, authority weave.Address, amount coin.Coin) error
	// Withdraw moves coins out of a custodial wallet. The authority must
	// match the one the wallet was opened with. The destination can be
	// custodial only if it is controlled by the same authority.
	Withdraw(db weave.KVStore, src, authority, dest weave.Address, amount coin.Coin) error
	// CloseAccount deletes an empty custodial wallet.
	CloseAccount(db weave.KVStore, addr, authority weave.Address) error
	// CoinMint creates new coins at given address.
	CoinMint(db weave.KVStore, dest weave.Address, amount coin.Coin) error
}

// CoinMover is the minimal interface required to transfer coins.
type CoinMover interface {
	// MoveCoins transfers the amount from src to dest. The destination
	// wallet is created if it does not exist. Coins cannot be moved into
	// or out of a custodial wallet this way.
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error
}

// BaseController implements Controller on top of the wallet bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given wallet bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error) {
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, err
	}
	return w.Coins, nil
}

func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Coin) error {
	sender, err := c.load(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if sender.IsCustodial() {
		return errors.Wrap(errors.ErrUnauthorized, "source is a custodial account")
	}
	return c.transfer(db, src, sender, dest, nil, amount)
}

func (c BaseController) OpenAccount(db weave.KVStore, addr, authority weave.Address) error {
	if err := authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		if w.IsCustodial() {
			return errors.Wrapf(errors.ErrDuplicate, "account %s is custodial", addr)
		}
	case errors.ErrNotFound.Is(err):
		w = Wallet{Metadata: &weave.Metadata{Schema: 1}}
	default:
		return err
	}
	w.Authority = authority
	if err := c.bucket.Put(db, addr, &w); err != nil {
		return errors.Wrapf(err, "open account %s", addr)
	}
	return nil
}

func (c BaseController) Deposit(db weave.KVStore, src, dest, authority weave.Address, amount coin.Coin) error {
	if _, err := c.custodial(db, dest, authority); err != nil {
		return errors.Wrap(err, "destination")
	}
	sender, err := c.load(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if sender.IsCustodial() {
		return errors.Wrap(errors.ErrUnauthorized, "source is a custodial account")
	}
	return c.transfer(db, src, sender, dest, authority, amount)
}

func (c BaseController) Withdraw(db weave.KVStore, src, authority, dest weave.Address, amount coin.Coin) error {
	wallet, err := c.custodial(db, src, authority)
	if err != nil {
		return err
	}
	return c.transfer(db, src, wallet, dest, authority, amount)
}

func (c BaseController) CloseAccount(db weave.KVStore, addr, authority weave.Address) error {
	wallet, err := c.custodial(db, addr, authority)
	if err != nil {
		return err
	}
	if !wallet.Coins.IsEmpty() {
		return errors.Wrapf(errors.ErrState, "account %s holds %d coins", addr, len(wallet.Coins))
	}
	return c.bucket.Delete(db, addr)
}

func (c BaseController) CoinMint(db weave.KVStore, dest weave.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	return c.credit(db, dest, nil, amount)
}

// transfer subtracts the amount from the already loaded sender wallet and
// credits it to the destination.
func (c BaseController) transfer(db weave.KVStore, src weave.Address, sender *Wallet, dest, authority weave.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}
	left, err := sender.Coins.Subtract(amount)
	if err != nil {
		return errors.Wrapf(err, "cannot take %s from %s", amount, src)
	}
	sender.Coins = left
	if err := c.bucket.Put(db, src, sender); err != nil {
		return err
	}
	return c.credit(db, dest, authority, amount)
}

// credit adds the amount to the wallet at given address, creating an
// ordinary wallet if none exists. A custodial wallet is credited only when
// the caller acts with its authority.
func (c BaseController) credit(db weave.KVStore, dest, authority weave.Address, amount coin.Coin) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	var w Wallet
	switch err := c.bucket.One(db, dest, &w); {
	case err == nil:
		if w.IsCustodial() && (authority == nil || !w.Authority.Equals(authority)) {
			return errors.Wrapf(errors.ErrUnauthorized, "%s is a custodial account", dest)
		}
	case errors.ErrNotFound.Is(err):
		w = Wallet{Metadata: &weave.Metadata{Schema: 1}}
	default:
		return err
	}
	coins, err := w.Coins.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "cannot add %s to %s", amount, dest)
	}
	w.Coins = coins
	return c.bucket.Put(db, dest, &w)
}

func (c BaseController) load(db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// custodial loads a wallet that is controlled by given authority.
func (c BaseController) custodial(db weave.ReadOnlyKVStore, addr, authority weave.Address) (*Wallet, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	if !w.IsCustodial() || !w.Authority.Equals(authority) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s is not the authority of %s", authority, addr)
	}
	return w, nil
}
