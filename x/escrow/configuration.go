package escrow

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/gconf"
)

const (
	// BeneficiaryTaker sends the custody deposit to the taker when an
	// escrow is taken.
	BeneficiaryTaker = "taker"
	// BeneficiaryMaker sends the custody deposit back to the maker when
	// an escrow is taken.
	BeneficiaryMaker = "maker"
)

// Configuration of the escrow extension.
type Configuration struct {
	Metadata *weave.Metadata `json:"metadata"`
	// Owner is allowed to update the configuration.
	Owner weave.Address `json:"owner"`
	// CustodyDeposit is charged from the maker when an escrow is created
	// and held by the escrow until it is closed.
	CustodyDeposit coin.Coin `json:"custody_deposit"`
	// TakeBeneficiary decides who receives the custody deposit when an
	// escrow is taken. A refund always returns it to the maker.
	TakeBeneficiary string `json:"take_beneficiary"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// defaultConfiguration is used when no configuration was stored.
func defaultConfiguration() Configuration {
	return Configuration{TakeBeneficiary: BeneficiaryTaker}
}

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := c.CustodyDeposit.Validate(); err != nil {
		return errors.Wrap(err, "custody deposit")
	}
	return validateBeneficiary(c.TakeBeneficiary)
}

func validateBeneficiary(b string) error {
	switch b {
	case BeneficiaryTaker, BeneficiaryMaker:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "take beneficiary %q", b)
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if c.Metadata != nil {
		enc.Message(1, c.Metadata)
	}
	enc.Bytes(2, c.Owner)
	enc.Message(3, &c.CustodyDeposit)
	enc.String(4, c.TakeBeneficiary)
	return enc.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			c.Metadata = &weave.Metadata{}
			err = dec.Message(wire, c.Metadata)
		case 2:
			c.Owner, err = dec.Bytes(wire)
		case 3:
			err = dec.Message(wire, &c.CustodyDeposit)
		case 4:
			c.TakeBeneficiary, err = dec.String(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "configuration")
		}
	}
	return nil
}

// loadConf returns the stored configuration or the default one if none was
// stored.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, "escrow", &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return defaultConfiguration(), nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
