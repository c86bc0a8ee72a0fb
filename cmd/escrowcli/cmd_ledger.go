package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/app"
	"github.com/iov-one/weave-escrow/std"
	"github.com/iov-one/weave-escrow/x/cash"
	"github.com/iov-one/weave-escrow/x/escrow"
)

// openLedger loads the ledger stored at given path. Returned function must
// be called to release the database.
func openLedger(dbPath, logLevel string) (*app.Ledger, func(), error) {
	logger, err := std.NewLogger(os.Stderr, logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create logger: %s", err)
	}
	kv, err := std.CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open database: %s", err)
	}
	l, err := std.Application(kv, logger)
	if err != nil {
		kv.Close()
		return nil, nil, fmt.Errorf("cannot load ledger: %s", err)
	}
	return l, kv.Close, nil
}

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize a new ledger from the genesis file. A ledger can be initialized
only once.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", env("ESCROWCLI_DB", "escrow.db"),
			"Path to the ledger database. You can use ESCROWCLI_DB environment variable to set it.")
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		logFl     = fl.String("log", "error", "Log level, one of debug, info, error or none.")
	)
	fl.Parse(args)

	genesis, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return fmt.Errorf("cannot load genesis: %s", err)
	}
	l, closeDB, err := openLedger(*dbFl, *logFl)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := l.InitChain(genesis); err != nil {
		return fmt.Errorf("cannot initialize chain: %s", err)
	}
	id, err := l.Commit()
	if err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s %d %X\n", l.ChainID(), id.Version, id.Hash)
	return err
}

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transactions from standard input and execute them.
All successful transactions are committed together. For each transaction
a single line is written containing its path and either the hex encoded
result or the error.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", env("ESCROWCLI_DB", "escrow.db"),
			"Path to the ledger database. You can use ESCROWCLI_DB environment variable to set it.")
		logFl = fl.String("log", "error", "Log level, one of debug, info, error or none.")
	)
	fl.Parse(args)

	l, closeDB, err := openLedger(*dbFl, *logFl)
	if err != nil {
		return err
	}
	defer closeDB()

	var failed int
	for {
		tx, _, err := readTx(input)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("cannot read transaction: %s", err)
		}
		msg, err := tx.GetMsg()
		if err != nil {
			return err
		}
		raw, err := tx.Marshal()
		if err != nil {
			return fmt.Errorf("cannot serialize transaction: %s", err)
		}

		if _, err := l.CheckTx(raw); err != nil {
			failed++
			fmt.Fprintf(output, "%s error %s\n", msg.Path(), err)
			continue
		}
		res, err := l.DeliverTx(raw)
		if err != nil {
			failed++
			fmt.Fprintf(output, "%s error %s\n", msg.Path(), err)
			continue
		}
		fmt.Fprintf(output, "%s ok %X\n", msg.Path(), res.Data)
	}

	if _, err := l.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	if failed != 0 {
		return fmt.Errorf("%d transactions failed", failed)
	}
	return nil
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the committed state of the ledger and print JSON encoded result.
`)
		fl.PrintDefaults()
	}
	var (
		dbFl = fl.String("db", env("ESCROWCLI_DB", "escrow.db"),
			"Path to the ledger database. You can use ESCROWCLI_DB environment variable to set it.")
		pathFl        = fl.String("path", "", "Path to be queried. Must be one of the supported.")
		dataFl        = fl.String("data", "", "Address or hex encoded key that is queried.")
		prefixQueryFl = fl.Bool("prefix", false, "If true, use prefix queries instead of the exact match with provided data.")
	)
	fl.Parse(args)

	newObj, ok := queries[*pathFl]
	if !ok {
		paths := make([]string, 0, len(queries))
		for p := range queries {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		return fmt.Errorf("available query paths:\n\t- %s", strings.Join(paths, "\n\t- "))
	}

	var data []byte
	if *dataFl != "" {
		addr, err := weave.ParseAddress(*dataFl)
		if err != nil {
			if data, err = hex.DecodeString(*dataFl); err != nil {
				return errors.New("data must be an address or hex encoded")
			}
		} else {
			data = addr
		}
	}
	queryPath := *pathFl
	if *prefixQueryFl || *dataFl == "" {
		queryPath += "?" + weave.PrefixQueryMod
	}

	l, closeDB, err := openLedger(*dbFl, "none")
	if err != nil {
		return err
	}
	defer closeDB()

	models, err := l.Query(queryPath, data)
	if err != nil {
		return fmt.Errorf("failed to run query: %s", err)
	}
	result := make([]keyval, 0, len(models))
	for i, m := range models {
		obj := newObj()
		if err := obj.Unmarshal(m.Value); err != nil {
			return fmt.Errorf("failed to unmarshal model %d: %s", i, err)
		}
		result = append(result, keyval{Key: weave.Address(m.Key).String(), Value: obj})
	}
	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type keyval struct {
	Key   string
	Value model
}

// model is an entity stored by the ledger.
type model interface {
	Unmarshal([]byte) error
}

// queries maps a query path to the model type it returns.
var queries = map[string]func() model{
	"/escrows":       func() model { return &escrow.Escrow{} },
	"/escrows/maker": func() model { return &escrow.Escrow{} },
	"/wallets":       func() model { return &cash.Wallet{} },
}
