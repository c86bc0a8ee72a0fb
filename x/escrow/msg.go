package escrow

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/codec"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
)

// MakeMsg opens a new escrow offering DepositAmount of AssetOffered in
// exchange for ReceiveAmount of AssetRequested.
type MakeMsg struct {
	Metadata *weave.Metadata
	// Maker defaults to the main signer if not set.
	Maker          weave.Address
	Seed           uint64
	AssetOffered   string
	AssetRequested string
	DepositAmount  uint64
	ReceiveAmount  uint64
	// Escrow is optional. If set, it must be equal to the derived escrow
	// address.
	Escrow weave.Address
}

var _ weave.Msg = (*MakeMsg)(nil)

func (MakeMsg) Path() string {
	return "escrow/make"
}

func (m *MakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.DepositAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit amount")
	}
	if m.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive amount")
	}
	if err := validateAssets(m.AssetOffered, m.AssetRequested); err != nil {
		return err
	}
	if err := validateOptional(m.Maker); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := validateOptional(m.Escrow); err != nil {
		return errors.Wrap(err, "escrow")
	}
	return nil
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if m.Metadata != nil {
		enc.Message(1, m.Metadata)
	}
	enc.Bytes(2, m.Maker)
	enc.Uint64(3, m.Seed)
	enc.String(4, m.AssetOffered)
	enc.String(5, m.AssetRequested)
	enc.Uint64(6, m.DepositAmount)
	enc.Uint64(7, m.ReceiveAmount)
	enc.Bytes(8, m.Escrow)
	return enc.Result()
}

func (m *MakeMsg) Unmarshal(raw []byte) error {
	*m = MakeMsg{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = dec.Message(wire, m.Metadata)
		case 2:
			m.Maker, err = dec.Bytes(wire)
		case 3:
			m.Seed, err = dec.Uint64(wire)
		case 4:
			m.AssetOffered, err = dec.String(wire)
		case 5:
			m.AssetRequested, err = dec.String(wire)
		case 6:
			m.DepositAmount, err = dec.Uint64(wire)
		case 7:
			m.ReceiveAmount, err = dec.Uint64(wire)
		case 8:
			m.Escrow, err = dec.Bytes(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "make msg")
		}
	}
	return nil
}

// TakeMsg fulfills an escrow. Asset tickers must match the escrow.
type TakeMsg struct {
	Metadata       *weave.Metadata
	Escrow         weave.Address
	AssetOffered   string
	AssetRequested string
	// Taker defaults to the main signer if not set.
	Taker weave.Address
	// Vault is optional. If set, it must be equal to the derived vault
	// address.
	Vault weave.Address
}

var _ weave.Msg = (*TakeMsg)(nil)

func (TakeMsg) Path() string {
	return "escrow/take"
}

func (m *TakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := validateAssets(m.AssetOffered, m.AssetRequested); err != nil {
		return err
	}
	if err := validateOptional(m.Taker); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := validateOptional(m.Vault); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if m.Metadata != nil {
		enc.Message(1, m.Metadata)
	}
	enc.Bytes(2, m.Escrow)
	enc.String(3, m.AssetOffered)
	enc.String(4, m.AssetRequested)
	enc.Bytes(5, m.Taker)
	enc.Bytes(6, m.Vault)
	return enc.Result()
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	*m = TakeMsg{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = dec.Message(wire, m.Metadata)
		case 2:
			m.Escrow, err = dec.Bytes(wire)
		case 3:
			m.AssetOffered, err = dec.String(wire)
		case 4:
			m.AssetRequested, err = dec.String(wire)
		case 5:
			m.Taker, err = dec.Bytes(wire)
		case 6:
			m.Vault, err = dec.Bytes(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "take msg")
		}
	}
	return nil
}

// RefundMsg returns the content of an escrow to its maker and closes it.
type RefundMsg struct {
	Metadata *weave.Metadata
	Escrow   weave.Address
	// Vault is optional. If set, it must be equal to the derived vault
	// address.
	Vault weave.Address
}

var _ weave.Msg = (*RefundMsg)(nil)

func (RefundMsg) Path() string {
	return "escrow/refund"
}

func (m *RefundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := validateOptional(m.Vault); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if m.Metadata != nil {
		enc.Message(1, m.Metadata)
	}
	enc.Bytes(2, m.Escrow)
	enc.Bytes(3, m.Vault)
	return enc.Result()
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	*m = RefundMsg{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = dec.Message(wire, m.Metadata)
		case 2:
			m.Escrow, err = dec.Bytes(wire)
		case 3:
			m.Vault, err = dec.Bytes(wire)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "refund msg")
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the escrow configuration. Zero fields of
// the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *weave.Metadata
	Patch    *Configuration
}

var _ weave.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "escrow/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if err := validateOptional(m.Patch.Owner); err != nil {
		return errors.Wrap(err, "owner")
	}
	if m.Patch.CustodyDeposit != (coin.Coin{}) {
		if err := m.Patch.CustodyDeposit.Validate(); err != nil {
			return errors.Wrap(err, "custody deposit")
		}
	}
	if m.Patch.TakeBeneficiary != "" {
		if err := validateBeneficiary(m.Patch.TakeBeneficiary); err != nil {
			return err
		}
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	if m.Metadata != nil {
		enc.Message(1, m.Metadata)
	}
	if m.Patch != nil {
		enc.Message(2, m.Patch)
	}
	return enc.Result()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	dec := codec.NewDecoder(raw)
	for dec.More() {
		field, wire, err := dec.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &weave.Metadata{}
			err = dec.Message(wire, m.Metadata)
		case 2:
			m.Patch = &Configuration{}
			err = dec.Message(wire, m.Patch)
		default:
			err = dec.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "update configuration msg")
		}
	}
	return nil
}

func validateOptional(addr weave.Address) error {
	if len(addr) == 0 {
		return nil
	}
	return addr.Validate()
}
