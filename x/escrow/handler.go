package escrow

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/gconf"
	"github.com/iov-one/weave-escrow/orm"
	"github.com/iov-one/weave-escrow/x"
	"github.com/iov-one/weave-escrow/x/cash"
)

const (
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 100
	refundEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, bank cash.Controller) {
	bucket := NewBucket()
	r.Handle(&MakeMsg{}, MakeHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(&TakeMsg{}, TakeHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth, bucket: bucket, bank: bank})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// RegisterQuery exposes escrows under "/escrows" and the maker index under
// "/escrows/maker".
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// NewConfigHandler returns a handler updating the escrow configuration.
func NewConfigHandler(auth x.Authenticator) weave.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler("escrow", &conf, auth)
}

// MakeHandler opens a new escrow and funds its vault.
type MakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ weave.Handler = MakeHandler{}

func (h MakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver creates the escrow and its custodial accounts and moves the
// deposit into the vault. Returned data is the escrow address.
func (h MakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg, maker, key := op.msg, op.maker, op.key

	vault, err := VaultAddress(key, msg.AssetOffered)
	if err != nil {
		return nil, err
	}
	nonce, authority, err := FindAuthority(key, vault)
	if err != nil {
		return nil, err
	}

	escrow := &Escrow{
		Metadata:       &weave.Metadata{Schema: 1},
		Seed:           msg.Seed,
		Maker:          maker,
		AssetOffered:   msg.AssetOffered,
		AssetRequested: msg.AssetRequested,
		ReceiveAmount:  msg.ReceiveAmount,
		AuthorityNonce: nonce,
	}
	if err := h.bucket.Create(db, key, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	// The escrow address holds the custody deposit for as long as the
	// escrow is open. Both derived addresses may already hold coins sent
	// by anyone. Those are kept at the escrow address and go to the
	// beneficiary on close.
	if err := h.bank.OpenAccount(db, key, authority); err != nil {
		return nil, errors.Wrap(err, "custody account")
	}
	if !op.conf.CustodyDeposit.IsZero() {
		if err := h.bank.Deposit(db, maker, key, authority, op.conf.CustodyDeposit); err != nil {
			return nil, errors.Wrap(err, "custody deposit")
		}
	}

	if err := h.bank.OpenAccount(db, vault, authority); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	if err := moveAll(db, h.bank, vault, authority, key); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	deposit := coin.NewCoin(msg.DepositAmount, msg.AssetOffered)
	if err := h.bank.Deposit(db, maker, vault, authority, deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	weave.GetLogger(ctx).Debug("escrow opened", "escrow", key, "maker", maker)
	return &weave.DeliverResult{Data: key}, nil
}

// makeOperation is a validated MakeMsg.
type makeOperation struct {
	msg   *MakeMsg
	maker weave.Address
	key   weave.Address
	conf  Configuration
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*makeOperation, error) {
	var msg MakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	maker := msg.Maker
	if maker == nil {
		maker = x.MainSigner(ctx, h.auth).Address()
	}
	if maker == nil || !h.auth.HasAddress(ctx, maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}

	key, err := EscrowAddress(maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	if msg.Escrow != nil && !msg.Escrow.Equals(key) {
		return nil, errors.Wrapf(ErrDerivationMismatch, "escrow %s, derived %s", msg.Escrow, key)
	}
	switch err := h.bucket.Has(db, key); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s with seed %d", key, msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	// The custody deposit is charged on top of the deposit.
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	required := coin.NewCoin(msg.DepositAmount, msg.AssetOffered)
	switch {
	case conf.CustodyDeposit.IsZero():
	case conf.CustodyDeposit.Ticker == msg.AssetOffered:
		if required, err = required.Add(conf.CustodyDeposit); err != nil {
			return nil, errors.Wrap(err, "required funds")
		}
	default:
		if err := requireFunds(db, h.bank, maker, conf.CustodyDeposit); err != nil {
			return nil, errors.Wrap(err, "custody deposit")
		}
	}
	if err := requireFunds(db, h.bank, maker, required); err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	return &makeOperation{msg: &msg, maker: maker, key: key, conf: conf}, nil
}

// TakeHandler fulfills an escrow and closes it.
type TakeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ weave.Handler = TakeHandler{}

func (h TakeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver pays the maker, moves the vault content to the taker and closes
// the escrow.
func (h TakeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}

	// A maker taking own escrow has nobody to pay.
	if !op.actor.Equals(op.escrow.Maker) {
		payment := coin.NewCoin(op.escrow.ReceiveAmount, op.escrow.AssetRequested)
		if err := h.bank.MoveCoins(db, op.actor, op.escrow.Maker, payment); err != nil {
			return nil, errors.Wrap(err, "payment")
		}
	}

	beneficiary := op.actor
	if conf.TakeBeneficiary == BeneficiaryMaker {
		beneficiary = op.escrow.Maker
	}
	if err := closeEscrow(db, h.bucket, h.bank, op, op.actor, beneficiary); err != nil {
		return nil, err
	}

	weave.GetLogger(ctx).Debug("escrow taken", "escrow", op.key, "taker", op.actor)
	return &weave.DeliverResult{Data: op.key}, nil
}

func (h TakeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*operation, error) {
	var msg TakeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	op, err := loadOperation(db, h.bucket, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, err
	}
	if msg.AssetOffered != op.escrow.AssetOffered || msg.AssetRequested != op.escrow.AssetRequested {
		return nil, errors.Wrapf(ErrAssetMismatch, "escrow swaps %s for %s",
			op.escrow.AssetOffered, op.escrow.AssetRequested)
	}

	taker := msg.Taker
	if taker == nil {
		taker = x.MainSigner(ctx, h.auth).Address()
	}
	if taker == nil || !h.auth.HasAddress(ctx, taker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	payment := coin.NewCoin(op.escrow.ReceiveAmount, op.escrow.AssetRequested)
	if err := requireFunds(db, h.bank, taker, payment); err != nil {
		return nil, errors.Wrap(err, "taker")
	}
	op.actor = taker
	return op, nil
}

// RefundHandler returns the escrow content to the maker and closes it.
type RefundHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ weave.Handler = RefundHandler{}

func (h RefundHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: refundEscrowCost}, nil
}

func (h RefundHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	op, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	maker := op.escrow.Maker
	if err := closeEscrow(db, h.bucket, h.bank, op, maker, maker); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("escrow refunded", "escrow", op.key, "maker", maker)
	return &weave.DeliverResult{Data: op.key}, nil
}

func (h RefundHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*operation, error) {
	var msg RefundMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	op, err := loadOperation(db, h.bucket, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, op.escrow.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	op.actor = op.escrow.Maker
	return op, nil
}

// operation is an open escrow together with its derived addresses.
type operation struct {
	key       weave.Address
	escrow    Escrow
	vault     weave.Address
	authority weave.Address
	// actor is the party closing the escrow.
	actor weave.Address
}

// loadOperation loads an escrow and verifies that its address, and the
// vault address if given, match the derivation from the stored data.
func loadOperation(db weave.ReadOnlyKVStore, bucket orm.ModelBucket, key, vault weave.Address) (*operation, error) {
	var op operation
	if err := bucket.One(db, key, &op.escrow); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	derived, err := op.escrow.Address()
	if err != nil {
		return nil, err
	}
	if !derived.Equals(key) {
		return nil, errors.Wrapf(ErrDerivationMismatch, "escrow stored at %s derives %s", key, derived)
	}
	op.key = key
	if op.vault, err = VaultAddress(key, op.escrow.AssetOffered); err != nil {
		return nil, err
	}
	if vault != nil && !vault.Equals(op.vault) {
		return nil, errors.Wrapf(ErrDerivationMismatch, "vault %s, derived %s", vault, op.vault)
	}
	if op.authority, err = AuthorityAddress(key, op.escrow.AuthorityNonce); err != nil {
		return nil, err
	}
	return &op, nil
}

// closeEscrow deletes the escrow, moves the vault content to the receiver
// and the custody deposit to the beneficiary. Both custodial accounts are
// closed.
func closeEscrow(db weave.KVStore, bucket orm.ModelBucket, bank cash.Controller, op *operation, receiver, beneficiary weave.Address) error {
	// Deleting first makes a competing close of the same escrow fail.
	if err := bucket.Delete(db, op.key); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	if err := drain(db, bank, op.vault, op.authority, receiver); err != nil {
		return errors.Wrap(err, "vault")
	}
	if err := drain(db, bank, op.key, op.authority, beneficiary); err != nil {
		return errors.Wrap(err, "custody account")
	}
	return nil
}

// drain withdraws every coin of a custodial account and closes it.
func drain(db weave.KVStore, bank cash.Controller, account, authority, dest weave.Address) error {
	if err := moveAll(db, bank, account, authority, dest); err != nil {
		return err
	}
	return bank.CloseAccount(db, account, authority)
}

// moveAll withdraws every coin of a custodial account.
func moveAll(db weave.KVStore, bank cash.Controller, account, authority, dest weave.Address) error {
	coins, err := bank.Balance(db, account)
	if err != nil {
		return err
	}
	for _, c := range coins {
		if err := bank.Withdraw(db, account, authority, dest, *c); err != nil {
			return err
		}
	}
	return nil
}

// requireFunds returns ErrInsufficientAmount if the owner does not hold
// the required amount. A missing account holds nothing.
func requireFunds(db weave.ReadOnlyKVStore, bank Balancer, owner weave.Address, required coin.Coin) error {
	coins, err := bank.Balance(db, owner)
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		coins = nil
	default:
		return err
	}
	if !coins.Contains(required) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "has %s, requires %s",
			coins.Balance(required.Ticker), required)
	}
	return nil
}
