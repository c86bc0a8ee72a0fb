package escrow

import (
	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/gconf"
)

// Initializer loads the escrow configuration from the genesis file.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

// FromGenesis saves the configuration found under conf.escrow. Genesis
// without escrow configuration is accepted and the default configuration
// applies.
func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, "escrow", &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return nil
}
