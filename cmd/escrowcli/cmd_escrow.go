package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/weave-escrow"
	"github.com/iov-one/weave-escrow/x/escrow"
)

func cmdMakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for opening a new escrow. The deposit is taken from the
maker wallet when the transaction is delivered.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Optional maker address. The main signer is used if not provided.")
		seedFl    = fl.Uint64("seed", 0, "Seed that together with the maker address derives the escrow address.")
		offerFl   = fl.String("offer", "", "Ticker of the deposited asset.")
		depositFl = fl.Uint64("deposit", 0, "Amount of the offered asset.")
		requestFl = fl.String("request", "", "Ticker of the requested asset.")
		receiveFl = fl.Uint64("receive", 0, "Amount of the requested asset.")
	)
	fl.Parse(args)

	return writeMsg(output, &escrow.MakeMsg{
		Metadata:       &weave.Metadata{Schema: 1},
		Maker:          *makerFl,
		Seed:           *seedFl,
		AssetOffered:   *offerFl,
		AssetRequested: *requestFl,
		DepositAmount:  *depositFl,
		ReceiveAmount:  *receiveFl,
	})
}

func cmdTakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for taking an escrow. Tickers must match the escrow.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl  = flAddress(fl, "escrow", "", "Address of the escrow.")
		offerFl   = fl.String("offer", "", "Ticker of the asset offered by the escrow.")
		requestFl = fl.String("request", "", "Ticker of the asset requested by the escrow.")
		takerFl   = flAddress(fl, "taker", "", "Optional taker address. The main signer is used if not provided.")
	)
	fl.Parse(args)

	return writeMsg(output, &escrow.TakeMsg{
		Metadata:       &weave.Metadata{Schema: 1},
		Escrow:         *escrowFl,
		AssetOffered:   *offerFl,
		AssetRequested: *requestFl,
		Taker:          *takerFl,
	})
}

func cmdRefundEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction returning the deposit of an escrow to its maker.
`)
		fl.PrintDefaults()
	}
	var (
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	return writeMsg(output, &escrow.RefundMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Escrow:   *escrowFl,
	})
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the escrow address derived from the maker address and the seed. If an
asset is given, the vault address of that asset is printed as well.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl = flAddress(fl, "maker", "", "Maker address.")
		seedFl  = fl.Uint64("seed", 0, "Seed of the escrow.")
		assetFl = fl.String("asset", "", "Optional ticker of the vault asset.")
	)
	fl.Parse(args)

	addr, err := escrow.EscrowAddress(*makerFl, *seedFl)
	if err != nil {
		return fmt.Errorf("cannot derive escrow address: %s", err)
	}
	if _, err := fmt.Fprintln(output, addr); err != nil {
		return err
	}
	if *assetFl == "" {
		return nil
	}
	vault, err := escrow.VaultAddress(addr, *assetFl)
	if err != nil {
		return fmt.Errorf("cannot derive vault address: %s", err)
	}
	_, err = fmt.Fprintln(output, vault)
	return err
}
