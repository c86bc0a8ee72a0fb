package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/coin"
	"github.com/iov-one/weave-escrow/errors"
	"github.com/iov-one/weave-escrow/gconf"
	"github.com/iov-one/weave-escrow/orm"
	"github.com/iov-one/weave-escrow/store"
	"github.com/iov-one/weave-escrow/weavetest"
	"github.com/iov-one/weave-escrow/x/cash"
	"github.com/iov-one/weave-escrow/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routes collects registered handlers by message path.
type routes map[string]weave.Handler

func (r routes) Handle(m weave.Msg, h weave.Handler) { r[m.Path()] = h }

type fixture struct {
	db     weave.CacheableKVStore
	bank   cash.BaseController
	bucket orm.ModelBucket
	auth   *weavetest.CtxAuth
	routes routes
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		bank:   cash.NewController(cash.NewBucket()),
		bucket: NewBucket(),
		auth:   &weavetest.CtxAuth{Key: "auth"},
		routes: make(routes),
	}
	RegisterRoutes(f.routes, f.auth, f.bank)
	return f
}

func (f *fixture) mint(t testing.TB, addr weave.Address, amount uint64, ticker string) {
	t.Helper()
	require.NoError(t, f.bank.CoinMint(f.db, addr, coin.NewCoin(amount, ticker)))
}

func (f *fixture) balance(t testing.TB, addr weave.Address, ticker string) uint64 {
	t.Helper()
	coins, err := f.bank.Balance(f.db, addr)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	require.NoError(t, err)
	return coins.Balance(ticker).Amount
}

func (f *fixture) accountExists(t testing.TB, addr weave.Address) bool {
	t.Helper()
	_, err := f.bank.Balance(f.db, addr)
	if errors.ErrNotFound.Is(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

func (f *fixture) escrowExists(t testing.TB, key weave.Address) bool {
	t.Helper()
	err := f.bucket.Has(f.db, key)
	if errors.ErrNotFound.Is(err) {
		return false
	}
	require.NoError(t, err)
	return true
}

// deliver runs the message through check and deliver, the same way the
// application does. State of a failed call is discarded.
func (f *fixture) deliver(signer weave.Condition, msg weave.Msg) (*weave.DeliverResult, error) {
	ctx := context.Background()
	if signer != nil {
		ctx = f.auth.SetConditions(ctx, signer)
	}
	h := weavetest.Decorate(f.routes[msg.Path()], utils.NewSavepoint().OnCheck().OnDeliver())
	tx := &weavetest.Tx{Msg: msg}

	cache := f.db.CacheWrap()
	_, err := h.Check(ctx, cache, tx)
	cache.Discard()
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, f.db, tx)
}

func (f *fixture) setConf(t testing.TB, conf Configuration) {
	t.Helper()
	require.NoError(t, gconf.Save(f.db, "escrow", &conf))
}

func meta() *weave.Metadata {
	return &weave.Metadata{Schema: 1}
}

func makeMsg(seed, deposit, receive uint64) *MakeMsg {
	return &MakeMsg{
		Metadata:       meta(),
		Seed:           seed,
		AssetOffered:   "AAA",
		AssetRequested: "BBB",
		DepositAmount:  deposit,
		ReceiveAmount:  receive,
	}
}

func takeMsg(key weave.Address) *TakeMsg {
	return &TakeMsg{
		Metadata:       meta(),
		Escrow:         key,
		AssetOffered:   "AAA",
		AssetRequested: "BBB",
	}
}

func refundMsg(key weave.Address) *RefundMsg {
	return &RefundMsg{Metadata: meta(), Escrow: key}
}

func TestMake(t *testing.T) {
	maker := weavetest.NewCondition()
	key, err := EscrowAddress(maker.Address(), 42)
	require.NoError(t, err)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	cases := map[string]struct {
		conf    *Configuration
		prefund weave.Address
		signer  weave.Condition
		msg     *MakeMsg
		wantErr *errors.Error
	}{
		"success": {
			signer: maker,
			msg:    makeMsg(42, 100, 200),
		},
		"escrow address already holds coins": {
			prefund: key,
			signer:  maker,
			msg:     makeMsg(42, 100, 200),
		},
		"vault address already holds coins": {
			prefund: vault,
			signer:  maker,
			msg:     makeMsg(42, 100, 200),
		},
		"explicit maker and escrow address": {
			signer: maker,
			msg: func() *MakeMsg {
				m := makeMsg(42, 100, 200)
				m.Maker = maker.Address()
				m.Escrow = key
				return m
			}(),
		},
		"zero deposit": {
			signer:  maker,
			msg:     makeMsg(42, 0, 200),
			wantErr: errors.ErrInvalidAmount,
		},
		"zero receive amount": {
			signer:  maker,
			msg:     makeMsg(42, 100, 0),
			wantErr: errors.ErrInvalidAmount,
		},
		"maker must sign": {
			signer: weavetest.NewCondition(),
			msg: func() *MakeMsg {
				m := makeMsg(42, 100, 200)
				m.Maker = maker.Address()
				return m
			}(),
			wantErr: errors.ErrUnauthorized,
		},
		"no signer": {
			msg:     makeMsg(42, 100, 200),
			wantErr: errors.ErrUnauthorized,
		},
		"insufficient funds": {
			signer:  maker,
			msg:     makeMsg(42, 1001, 200),
			wantErr: errors.ErrInsufficientAmount,
		},
		"custody deposit in the offered asset must be covered": {
			conf: &Configuration{
				Metadata:        meta(),
				Owner:           weavetest.NewAddress(),
				CustodyDeposit:  coin.NewCoin(2, "AAA"),
				TakeBeneficiary: BeneficiaryTaker,
			},
			signer:  maker,
			msg:     makeMsg(42, 999, 200),
			wantErr: errors.ErrInsufficientAmount,
		},
		"custody deposit in another asset must be covered": {
			conf: &Configuration{
				Metadata:        meta(),
				Owner:           weavetest.NewAddress(),
				CustodyDeposit:  coin.NewCoin(2, "FEE"),
				TakeBeneficiary: BeneficiaryTaker,
			},
			signer:  maker,
			msg:     makeMsg(42, 100, 200),
			wantErr: errors.ErrInsufficientAmount,
		},
		"escrow address mismatch": {
			signer: maker,
			msg: func() *MakeMsg {
				m := makeMsg(42, 100, 200)
				m.Escrow = weavetest.NewAddress()
				return m
			}(),
			wantErr: ErrDerivationMismatch,
		},
		"same asset on both sides": {
			signer: maker,
			msg: func() *MakeMsg {
				m := makeMsg(42, 100, 200)
				m.AssetRequested = m.AssetOffered
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"invalid ticker": {
			signer: maker,
			msg: func() *MakeMsg {
				m := makeMsg(42, 100, 200)
				m.AssetOffered = "a"
				return m
			}(),
			wantErr: errors.ErrCurrency,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.mint(t, maker.Address(), 1000, "AAA")
			if tc.conf != nil {
				f.setConf(t, *tc.conf)
			}
			var stray uint64
			if tc.prefund != nil {
				stranger := weavetest.NewAddress()
				f.mint(t, stranger, 1, "AAA")
				require.NoError(t, f.bank.MoveCoins(f.db, stranger, tc.prefund, coin.NewCoin(1, "AAA")))
				stray = 1
			}

			res, err := f.deliver(tc.signer, tc.msg)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			if tc.wantErr != nil {
				// A failed make changes nothing.
				assert.False(t, f.escrowExists(t, key))
				assert.False(t, f.accountExists(t, vault))
				assert.False(t, f.accountExists(t, key))
				assert.EqualValues(t, 1000, f.balance(t, maker.Address(), "AAA"))
				return
			}

			assert.Equal(t, []byte(key), res.Data)
			assert.True(t, f.escrowExists(t, key))
			assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
			assert.EqualValues(t, 900, f.balance(t, maker.Address(), "AAA"))
			assert.EqualValues(t, stray, f.balance(t, key, "AAA"))

			var e Escrow
			require.NoError(t, f.bucket.One(f.db, key, &e))
			assert.Equal(t, maker.Address(), e.Maker)
			assert.EqualValues(t, 42, e.Seed)
			assert.EqualValues(t, 200, e.ReceiveAmount)
			assert.EqualValues(t, 255, e.AuthorityNonce)

			deposit, err := DepositAmount(f.db, f.bank, key, &e)
			require.NoError(t, err)
			assert.Equal(t, coin.NewCoin(100, "AAA"), deposit)
		})
	}
}

func TestMakeSeedReuse(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 1000, "AAA")

	_, err := f.deliver(maker, makeMsg(1, 100, 200))
	require.NoError(t, err)
	_, err = f.deliver(maker, makeMsg(1, 50, 20))
	assert.True(t, errors.ErrDuplicate.Is(err))
	assert.EqualValues(t, 900, f.balance(t, maker.Address(), "AAA"))

	// A different seed opens a second concurrent offer.
	_, err = f.deliver(maker, makeMsg(2, 50, 20))
	require.NoError(t, err)
	assert.EqualValues(t, 850, f.balance(t, maker.Address(), "AAA"))

	escrows, keys, err := ByMaker(f.db, f.bucket, maker.Address())
	require.NoError(t, err)
	assert.Len(t, escrows, 2)
	assert.Len(t, keys, 2)
}

func TestMakeTake(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	taker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 1000, "AAA")
	f.mint(t, taker.Address(), 500, "BBB")

	res, err := f.deliver(maker, makeMsg(7, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	_, err = f.deliver(taker, takeMsg(key))
	require.NoError(t, err)

	assert.EqualValues(t, 900, f.balance(t, maker.Address(), "AAA"))
	assert.EqualValues(t, 200, f.balance(t, maker.Address(), "BBB"))
	assert.EqualValues(t, 100, f.balance(t, taker.Address(), "AAA"))
	assert.EqualValues(t, 300, f.balance(t, taker.Address(), "BBB"))

	assert.False(t, f.escrowExists(t, key))
	assert.False(t, f.accountExists(t, vault))
	assert.False(t, f.accountExists(t, key))

	// Closed escrow cannot be resolved again.
	_, err = f.deliver(taker, takeMsg(key))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = f.deliver(maker, refundMsg(key))
	assert.True(t, errors.ErrNotFound.Is(err))

	escrows, _, err := ByMaker(f.db, f.bucket, maker.Address())
	require.NoError(t, err)
	assert.Empty(t, escrows)
}

func TestMakeRefund(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 1000, "AAA")

	res, err := f.deliver(maker, makeMsg(7, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	// Only the maker can refund.
	_, err = f.deliver(weavetest.NewCondition(), refundMsg(key))
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
	assert.EqualValues(t, 900, f.balance(t, maker.Address(), "AAA"))

	_, err = f.deliver(maker, refundMsg(key))
	require.NoError(t, err)
	assert.EqualValues(t, 1000, f.balance(t, maker.Address(), "AAA"))
	assert.False(t, f.escrowExists(t, key))
	assert.False(t, f.accountExists(t, vault))
	assert.False(t, f.accountExists(t, key))

	_, err = f.deliver(maker, refundMsg(key))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = f.deliver(weavetest.NewCondition(), takeMsg(key))
	assert.True(t, errors.ErrNotFound.Is(err))

	// The seed can be used again once the escrow is closed.
	_, err = f.deliver(maker, makeMsg(7, 100, 200))
	assert.NoError(t, err)
}

func TestTakeFailures(t *testing.T) {
	maker := weavetest.NewCondition()
	taker := weavetest.NewCondition()

	cases := map[string]struct {
		signer  weave.Condition
		msg     func(key, vault weave.Address) *TakeMsg
		wantErr *errors.Error
	}{
		"offered asset mismatch": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.AssetOffered = "CCC"
				return m
			},
			wantErr: ErrAssetMismatch,
		},
		"requested asset mismatch": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.AssetRequested = "CCC"
				return m
			},
			wantErr: ErrAssetMismatch,
		},
		"swapped assets": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.AssetOffered, m.AssetRequested = m.AssetRequested, m.AssetOffered
				return m
			},
			wantErr: ErrAssetMismatch,
		},
		"taker must sign": {
			signer: weavetest.NewCondition(),
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.Taker = taker.Address()
				return m
			},
			wantErr: errors.ErrUnauthorized,
		},
		"taker too poor": {
			signer: weavetest.NewCondition(),
			msg: func(key, vault weave.Address) *TakeMsg {
				return takeMsg(key)
			},
			wantErr: errors.ErrInsufficientAmount,
		},
		"vault mismatch": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.Vault = weavetest.NewAddress()
				return m
			},
			wantErr: ErrDerivationMismatch,
		},
		"unknown escrow": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				return takeMsg(weavetest.NewAddress())
			},
			wantErr: errors.ErrNotFound,
		},
		"explicit vault": {
			signer: taker,
			msg: func(key, vault weave.Address) *TakeMsg {
				m := takeMsg(key)
				m.Vault = vault
				m.Taker = taker.Address()
				return m
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.mint(t, maker.Address(), 1000, "AAA")
			f.mint(t, taker.Address(), 200, "BBB")

			res, err := f.deliver(maker, makeMsg(3, 100, 200))
			require.NoError(t, err)
			key := weave.Address(res.Data)
			vault, err := VaultAddress(key, "AAA")
			require.NoError(t, err)

			_, err = f.deliver(tc.signer, tc.msg(key, vault))
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			if tc.wantErr != nil {
				assert.True(t, f.escrowExists(t, key))
				assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
				assert.EqualValues(t, 200, f.balance(t, taker.Address(), "BBB"))
				assert.EqualValues(t, 0, f.balance(t, maker.Address(), "BBB"))
			} else {
				assert.False(t, f.escrowExists(t, key))
				assert.EqualValues(t, 200, f.balance(t, maker.Address(), "BBB"))
				assert.EqualValues(t, 100, f.balance(t, taker.Address(), "AAA"))
			}
		})
	}
}

func TestMakerTakesOwnEscrow(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 1000, "AAA")

	res, err := f.deliver(maker, makeMsg(5, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	// The requested amount must still be held.
	_, err = f.deliver(maker, takeMsg(key))
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assert.True(t, f.escrowExists(t, key))

	f.mint(t, maker.Address(), 200, "BBB")
	_, err = f.deliver(maker, takeMsg(key))
	require.NoError(t, err)

	assert.EqualValues(t, 1000, f.balance(t, maker.Address(), "AAA"))
	assert.EqualValues(t, 200, f.balance(t, maker.Address(), "BBB"))
	assert.False(t, f.escrowExists(t, key))
	assert.False(t, f.accountExists(t, vault))
	assert.False(t, f.accountExists(t, key))
}

func TestOpenEscrowAccountsRejectTransfers(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	stranger := weavetest.NewAddress()
	f.mint(t, maker.Address(), 1000, "AAA")
	f.mint(t, stranger, 100, "AAA")

	res, err := f.deliver(maker, makeMsg(9, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	err = f.bank.MoveCoins(f.db, stranger, vault, coin.NewCoin(50, "AAA"))
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
	err = f.bank.MoveCoins(f.db, stranger, key, coin.NewCoin(50, "AAA"))
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)
	err = f.bank.CoinMint(f.db, vault, coin.NewCoin(50, "AAA"))
	assert.True(t, errors.ErrUnauthorized.Is(err), "unexpected error: %+v", err)

	var e Escrow
	require.NoError(t, f.bucket.One(f.db, key, &e))
	deposit, err := DepositAmount(f.db, f.bank, key, &e)
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(100, "AAA"), deposit)
	assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
}

func TestPrefundedEscrowRefund(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	stranger := weavetest.NewAddress()
	f.mint(t, maker.Address(), 1000, "AAA")
	f.mint(t, stranger, 10, "AAA")

	key, err := EscrowAddress(maker.Address(), 11)
	require.NoError(t, err)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)
	require.NoError(t, f.bank.MoveCoins(f.db, stranger, key, coin.NewCoin(3, "AAA")))
	require.NoError(t, f.bank.MoveCoins(f.db, stranger, vault, coin.NewCoin(4, "AAA")))

	_, err = f.deliver(maker, makeMsg(11, 100, 200))
	require.NoError(t, err)
	assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
	assert.EqualValues(t, 7, f.balance(t, key, "AAA"))

	_, err = f.deliver(maker, refundMsg(key))
	require.NoError(t, err)
	assert.EqualValues(t, 1007, f.balance(t, maker.Address(), "AAA"))
	assert.False(t, f.accountExists(t, vault))
	assert.False(t, f.accountExists(t, key))
}

func TestCorruptedEscrowIsRejected(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 1000, "AAA")

	res, err := f.deliver(maker, makeMsg(3, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)

	// Store a copy of the escrow under an address it does not derive.
	var e Escrow
	require.NoError(t, f.bucket.One(f.db, key, &e))
	fake := weavetest.NewAddress()
	require.NoError(t, f.bucket.Put(f.db, fake, &e))

	_, err = f.deliver(maker, refundMsg(fake))
	assert.True(t, ErrDerivationMismatch.Is(err))
}

func TestCustodyDeposit(t *testing.T) {
	cases := map[string]struct {
		beneficiary  string
		wantMakerFee uint64
		wantTakerFee uint64
	}{
		"taker receives the deposit": {
			beneficiary:  BeneficiaryTaker,
			wantMakerFee: 0,
			wantTakerFee: 5,
		},
		"maker receives the deposit": {
			beneficiary:  BeneficiaryMaker,
			wantMakerFee: 5,
			wantTakerFee: 0,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			maker := weavetest.NewCondition()
			taker := weavetest.NewCondition()
			f.mint(t, maker.Address(), 1000, "AAA")
			f.mint(t, maker.Address(), 10, "FEE")
			f.mint(t, taker.Address(), 200, "BBB")
			f.setConf(t, Configuration{
				Metadata:        meta(),
				Owner:           weavetest.NewAddress(),
				CustodyDeposit:  coin.NewCoin(5, "FEE"),
				TakeBeneficiary: tc.beneficiary,
			})

			res, err := f.deliver(maker, makeMsg(1, 100, 200))
			require.NoError(t, err)
			key := weave.Address(res.Data)
			assert.EqualValues(t, 5, f.balance(t, key, "FEE"))
			assert.EqualValues(t, 5, f.balance(t, maker.Address(), "FEE"))

			_, err = f.deliver(taker, takeMsg(key))
			require.NoError(t, err)
			assert.EqualValues(t, 5+tc.wantMakerFee, f.balance(t, maker.Address(), "FEE"))
			assert.EqualValues(t, tc.wantTakerFee, f.balance(t, taker.Address(), "FEE"))
			assert.False(t, f.accountExists(t, key))

			// Refund always returns the deposit to the maker.
			res, err = f.deliver(maker, makeMsg(2, 100, 200))
			require.NoError(t, err)
			before := f.balance(t, maker.Address(), "FEE")
			_, err = f.deliver(maker, refundMsg(weave.Address(res.Data)))
			require.NoError(t, err)
			assert.EqualValues(t, before+5, f.balance(t, maker.Address(), "FEE"))
		})
	}
}

func TestSameTickerCustodyDeposit(t *testing.T) {
	f := newFixture(t)
	maker := weavetest.NewCondition()
	f.mint(t, maker.Address(), 110, "AAA")
	f.setConf(t, Configuration{
		Metadata:        meta(),
		Owner:           weavetest.NewAddress(),
		CustodyDeposit:  coin.NewCoin(10, "AAA"),
		TakeBeneficiary: BeneficiaryTaker,
	})

	res, err := f.deliver(maker, makeMsg(1, 100, 200))
	require.NoError(t, err)
	key := weave.Address(res.Data)
	vault, err := VaultAddress(key, "AAA")
	require.NoError(t, err)

	// The vault holds exactly the deposit, the custody deposit is kept
	// apart at the escrow address.
	assert.EqualValues(t, 100, f.balance(t, vault, "AAA"))
	assert.EqualValues(t, 10, f.balance(t, key, "AAA"))
	assert.EqualValues(t, 0, f.balance(t, maker.Address(), "AAA"))

	_, err = f.deliver(maker, refundMsg(key))
	require.NoError(t, err)
	assert.EqualValues(t, 110, f.balance(t, maker.Address(), "AAA"))
}

func TestUpdateConfiguration(t *testing.T) {
	f := newFixture(t)
	owner := weavetest.NewCondition()
	f.setConf(t, Configuration{
		Metadata:        meta(),
		Owner:           owner.Address(),
		CustodyDeposit:  coin.NewCoin(1, "FEE"),
		TakeBeneficiary: BeneficiaryTaker,
	})

	msg := &UpdateConfigurationMsg{
		Metadata: meta(),
		Patch:    &Configuration{TakeBeneficiary: BeneficiaryMaker},
	}
	_, err := f.deliver(weavetest.NewCondition(), msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = f.deliver(owner, msg)
	require.NoError(t, err)

	conf, err := loadConf(f.db)
	require.NoError(t, err)
	assert.Equal(t, BeneficiaryMaker, conf.TakeBeneficiary)
	assert.Equal(t, coin.NewCoin(1, "FEE"), conf.CustodyDeposit)

	invalid := &UpdateConfigurationMsg{
		Metadata: meta(),
		Patch:    &Configuration{TakeBeneficiary: "nobody"},
	}
	_, err = f.deliver(owner, invalid)
	assert.True(t, errors.ErrInput.Is(err))
}
