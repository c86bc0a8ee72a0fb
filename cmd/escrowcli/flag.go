package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/coin"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *weave.Address {
	var a weave.Address
	if defaultVal != "" {
		var err error
		a, err = weave.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q weave.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagaddress)(&a), name, usage)
	return &a
}

type flagaddress weave.Address

func (a flagaddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return weave.Address(a).String()
}

func (a *flagaddress) Set(raw string) error {
	addr, err := weave.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagaddress(addr)
	return nil
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin.Coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagcoin)(&c), name, usage)
	return &c
}

type flagcoin coin.Coin

func (c flagcoin) String() string {
	if c.Ticker == "" {
		return ""
	}
	return coin.Coin(c).String()
}

func (c *flagcoin) Set(raw string) error {
	val, err := coin.ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = flagcoin(val)
	return nil
}
