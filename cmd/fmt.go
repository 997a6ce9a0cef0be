package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mpreda/folio"
)

// fmtCmd rewrites the ledger file in canonical form.
type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string     { return "fmt" }
func (*fmtCmd) Synopsis() string { return "validate and format the ledger file" }
func (*fmtCmd) Usage() string {
	return `pfr fmt [-check]

  Validates the ledger, sorts transactions in replay order, normalizes
  dates and symbols, and writes the file back in canonical form.
  With -check the file is left untouched and the exit code reports
  whether it was already canonical.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only report whether the file is canonical")
}

func (c *fmtCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	before, err := os.ReadFile(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	ledger, err := folio.DecodeLedger(bytes.NewReader(before))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: ledger %q is invalid:\n%v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	var after bytes.Buffer
	if err := folio.EncodeLedger(&after, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot format ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	if bytes.Equal(before, after.Bytes()) {
		fmt.Fprintf(os.Stderr, "%s is already canonical\n", *ledgerFile)
		return subcommands.ExitSuccess
	}
	if c.check {
		fmt.Fprintf(os.Stderr, "%s is not canonical\n", *ledgerFile)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(*ledgerFile, after.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot write ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %s\n", *ledgerFile)
	return subcommands.ExitSuccess
}
