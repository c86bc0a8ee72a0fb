package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/weavetest/assert"
	"github.com/iov-one/weave-escrow/x/escrow"
)

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "escrowcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

func newKey(t testing.TB, dir, name string) (string, weave.Address) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", path}); err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	key, err := decodePrivateKey(path)
	if err != nil {
		t.Fatalf("cannot decode key: %s", err)
	}
	return path, key.PublicKey().Address()
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	path, addr := newKey(t, dir, "key")
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", path}); err == nil {
		t.Fatal("existing key was overwritten")
	}

	var out bytes.Buffer
	if err := cmdKeyaddr(nil, &out, []string{"-key", path, "-hrp", "tiov"}); err != nil {
		t.Fatalf("cannot print address: %s", err)
	}
	bech, err := addr.Bech32String("tiov")
	assert.Nil(t, err)
	assert.Equal(t, addr.String()+"\n"+bech+"\n", out.String())
}

func TestEscrowPipeline(t *testing.T) {
	const chainID = "cli-test-chain"

	dir, cleanup := tempDir(t)
	defer cleanup()
	db := filepath.Join(dir, "escrow.db")

	makerKey, maker := newKey(t, dir, "maker")
	takerKey, taker := newKey(t, dir, "taker")

	genesis := filepath.Join(dir, "genesis.json")
	content := fmt.Sprintf(`{
		"chain_id": %q,
		"app_state": {
			"cash": [
				{"address": %q, "coins": ["1000 AAA"]},
				{"address": %q, "coins": ["500 BBB"]}
			]
		}
	}`, chainID, maker.String(), taker.String())
	if err := ioutil.WriteFile(genesis, []byte(content), 0600); err != nil {
		t.Fatalf("cannot write genesis: %s", err)
	}
	if err := cmdInit(nil, ioutil.Discard, []string{"-db", db, "-genesis", genesis}); err != nil {
		t.Fatalf("cannot initialize: %s", err)
	}
	if err := cmdInit(nil, ioutil.Discard, []string{"-db", db, "-genesis", genesis}); err == nil {
		t.Fatal("ledger initialized twice")
	}

	// submit runs given command output through sign and submit.
	submit := func(t testing.TB, key string, seq int, cmd func() (*bytes.Buffer, error)) (string, error) {
		t.Helper()
		unsigned, err := cmd()
		if err != nil {
			t.Fatalf("cannot create transaction: %s", err)
		}
		var signed, out bytes.Buffer
		signArgs := []string{"-key", key, "-chain", chainID, "-seq", fmt.Sprint(seq)}
		if err := cmdSignTransaction(unsigned, &signed, signArgs); err != nil {
			t.Fatalf("cannot sign transaction: %s", err)
		}
		err = cmdSubmitTransaction(&signed, &out, []string{"-db", db})
		return out.String(), err
	}

	wantEscrow, err := escrow.EscrowAddress(maker, 7)
	assert.Nil(t, err)

	out, err := submit(t, makerKey, 0, func() (*bytes.Buffer, error) {
		var b bytes.Buffer
		err := cmdMakeEscrow(nil, &b, []string{
			"-seed", "7",
			"-offer", "AAA", "-deposit", "100",
			"-request", "BBB", "-receive", "200",
		})
		return &b, err
	})
	if err != nil {
		t.Fatalf("cannot make escrow: %s: %s", err, out)
	}
	assert.Equal(t, "escrow/make ok "+wantEscrow.String()+"\n", out)

	var derived bytes.Buffer
	if err := cmdDerive(nil, &derived, []string{"-maker", maker.String(), "-seed", "7"}); err != nil {
		t.Fatalf("cannot derive: %s", err)
	}
	assert.Equal(t, wantEscrow.String()+"\n", derived.String())

	var queried bytes.Buffer
	if err := cmdQuery(nil, &queried, []string{"-db", db, "-path", "/escrows/maker", "-data", maker.String()}); err != nil {
		t.Fatalf("cannot query: %s", err)
	}
	if !strings.Contains(queried.String(), wantEscrow.String()) {
		t.Fatalf("escrow not found in query result: %s", queried.String())
	}

	// Tickers not matching the escrow are rejected.
	out, err = submit(t, takerKey, 0, func() (*bytes.Buffer, error) {
		var b bytes.Buffer
		err := cmdTakeEscrow(nil, &b, []string{
			"-escrow", wantEscrow.String(),
			"-offer", "AAA", "-request", "CCC",
		})
		return &b, err
	})
	if err == nil {
		t.Fatalf("mismatching take accepted: %s", out)
	}

	out, err = submit(t, takerKey, 0, func() (*bytes.Buffer, error) {
		var b bytes.Buffer
		err := cmdTakeEscrow(nil, &b, []string{
			"-escrow", wantEscrow.String(),
			"-offer", "AAA", "-request", "BBB",
		})
		return &b, err
	})
	if err != nil {
		t.Fatalf("cannot take escrow: %s: %s", err, out)
	}

	queried.Reset()
	if err := cmdQuery(nil, &queried, []string{"-db", db, "-path", "/escrows"}); err != nil {
		t.Fatalf("cannot query: %s", err)
	}
	assert.Equal(t, "[]\n", queried.String())

	out, err = submit(t, makerKey, 1, func() (*bytes.Buffer, error) {
		var b bytes.Buffer
		err := cmdRefundEscrow(nil, &b, []string{"-escrow", wantEscrow.String()})
		return &b, err
	})
	if err == nil {
		t.Fatalf("closed escrow refunded: %s", out)
	}
}

func TestTransactionView(t *testing.T) {
	var tx, out bytes.Buffer
	err := cmdSendTokens(nil, &tx, []string{
		"-src", "b1ca7e78f74423ae01da3b51e676934d9105f282",
		"-dst", "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0",
		"-amount", "5 AAA",
	})
	if err != nil {
		t.Fatalf("cannot create transaction: %s", err)
	}
	if err := cmdTransactionView(&tx, &out, nil); err != nil {
		t.Fatalf("cannot view transaction: %s", err)
	}
	if !strings.Contains(out.String(), `"Path": "cash/send"`) {
		t.Fatalf("unexpected summary: %s", out.String())
	}
}
