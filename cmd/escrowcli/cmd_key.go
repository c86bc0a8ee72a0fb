package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ed25519"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("ESCROWCLI_PRIV_KEY", os.Getenv("HOME")+"/.escrow.priv.key"),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite an existing key. It must be deleted manually.
		return fmt.Errorf("private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("cannot generate ed25519 key: %s", err)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(priv); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key. The hex form is
always printed. The bech32 form is printed as well if a prefix is given.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", env("ESCROWCLI_PRIV_KEY", os.Getenv("HOME")+"/.escrow.priv.key"),
			"Path to the private key file. You can use ESCROWCLI_PRIV_KEY environment variable to set it.")
		hrpFl = fl.String("hrp", "", "Optional human readable part of the bech32 address, for example tiov.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if _, err := fmt.Fprintln(output, addr); err != nil {
		return err
	}
	if *hrpFl == "" {
		return nil
	}
	bech, err := addr.Bech32String(*hrpFl)
	if err != nil {
		return fmt.Errorf("cannot serialize to bech32: %s", err)
	}
	_, err = fmt.Fprintln(output, bech)
	return err
}
