package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/gconf"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	owner := weavetest.NewAddress()
	genesis := `{"conf": {"escrow": {
		"metadata": {"schema": 1},
		"owner": "` + owner.String() + `",
		"custody_deposit": "4 IOV",
		"take_beneficiary": "maker"
	}}}`

	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, owner, conf.Owner)
	assert.Equal(t, coin.NewCoin(4, "IOV"), conf.CustodyDeposit)
	assert.Equal(t, BeneficiaryMaker, conf.TakeBeneficiary)
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(weave.Options{}, db))

	var conf Configuration
	err := gconf.Load(db, "escrow", &conf)
	assert.True(t, errors.ErrNotFound.Is(err))

	// Default configuration applies.
	got, err := loadConf(db)
	require.NoError(t, err)
	assert.Equal(t, BeneficiaryTaker, got.TakeBeneficiary)
	assert.True(t, got.CustodyDeposit.IsZero())
}

func TestGenesisInvalidConfiguration(t *testing.T) {
	genesis := `{"conf": {"escrow": {"metadata": {"schema": 1}, "take_beneficiary": "nobody"}}}`
	var opts weave.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.Error(t, err)
}
