package escrow

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/orm"
)

// Escrow is an open offer to swap the content of its vault for
// ReceiveAmount of AssetRequested. An escrow is stored under its derived
// address, see EscrowAddress.
//
// The deposited amount is not stored. It is always equal to the vault
// balance, see DepositAmount.
type Escrow struct {
	Metadata       *weave.Metadata
	Seed           uint64
	Maker          weave.Address
	AssetOffered   string
	AssetRequested string
	ReceiveAmount  uint64
	AuthorityNonce uint8
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := validateAssets(e.AssetOffered, e.AssetRequested); err != nil {
		return err
	}
	if e.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive amount")
	}
	return nil
}

func validateAssets(offered, requested string) error {
	if !coin.IsCC(offered) {
		return errors.Wrapf(errors.ErrCurrency, "offered asset %q", offered)
	}
	if !coin.IsCC(requested) {
		return errors.Wrapf(errors.ErrCurrency, "requested asset %q", requested)
	}
	if offered == requested {
		return errors.Wrap(errors.ErrInput, "offered and requested assets must differ")
	}
	return nil
}

// Address returns the derived address of this escrow.
func (e *Escrow) Address() (weave.Address, error) {
	return EscrowAddress(e.Maker, e.Seed)
}

func (e *Escrow) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if e.Metadata != nil {
		enc.Message(1, e.Metadata)
	}
	enc.Uint64(2, e.Seed)
	enc.Bytes(3, e.Maker)
	enc.String(4, e.AssetOffered)
	enc.String(5, e.AssetRequested)
	enc.Uint64(6, e.ReceiveAmount)
	enc.Uint64(7, uint64(e.AuthorityNonce))
	return enc.Result()
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			e.Metadata = &weave.Metadata{}
			err = dec.Message(wire, e.Metadata)
		case 2:
			e.Seed, err = dec.Uint64(wire)
		case 3:
			e.Maker, err = dec.Bytes(wire)
		case 4:
			e.AssetOffered, err = dec.String(wire)
		case 5:
			e.AssetRequested, err = dec.String(wire)
		case 6:
			e.ReceiveAmount, err = dec.Uint64(wire)
		case 7:
			var n uint64
			n, err = dec.Uint64(wire)
			if err == nil && n > 255 {
				err = errors.Wrapf(errors.ErrInput, "authority nonce %d", n)
			}
			e.AuthorityNonce = uint8(n)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "escrow")
		}
	}
	return nil
}

// BucketName is where we store the escrows.
const BucketName = "escrow"

// NewBucket returns a bucket storing escrows by their derived address,
// indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex("maker", makerIndexer),
	)
}

func makerIndexer(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return e.Maker, nil
}

// ByMaker returns all open escrows of given maker together with their
// addresses.
func ByMaker(db weave.ReadOnlyKVStore, bucket orm.ModelBucket, maker weave.Address) ([]Escrow, []weave.Address, error) {
	var escrows []Escrow
	keys, err := bucket.ByIndex(db, "maker", maker, &escrows)
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]weave.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return escrows, addrs, nil
}

// Balancer reads account balances.
type Balancer interface {
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Coins, error)
}

// DepositAmount returns the amount locked in the vault of given escrow.
func DepositAmount(db weave.ReadOnlyKVStore, bank Balancer, key weave.Address, e *Escrow) (coin.Coin, error) {
	vault, err := VaultAddress(key, e.AssetOffered)
	if err != nil {
		return coin.Coin{}, err
	}
	coins, err := bank.Balance(db, vault)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "vault")
	}
	return coins.Balance(e.AssetOffered), nil
}
