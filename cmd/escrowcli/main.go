package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// commands is a register of all available commands. The name is matched
// against the first program argument.
//
// A command function reads only from input and writes only to output. Given
// args are the command line arguments without the program and command name.
// Commands are meant to be combined using a unix pipe, for example:
//
//	$ escrowcli make-escrow -seed 1 -offer AAA -deposit 100 -request BBB -receive 200 \
//	    | escrowcli sign -chain my-chain -seq 0 \
//	    | escrowcli submit -db ./escrow.db
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"derive":        cmdDerive,
	"init":          cmdInit,
	"keyaddr":       cmdKeyaddr,
	"keygen":        cmdKeygen,
	"make-escrow":   cmdMakeEscrow,
	"query":         cmdQuery,
	"refund-escrow": cmdRefundEscrow,
	"send-tokens":   cmdSendTokens,
	"sign":          cmdSignTransaction,
	"submit":        cmdSubmitTransaction,
	"take-escrow":   cmdTakeEscrow,
	"version":       cmdVersion,
	"view":          cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the escrow ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, gitHash)
	return nil
}

// gitHash is set during the compilation time.
var gitHash = "dev"
