package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris/transaction-ledger/pkg/tabular"
	"github.com/google/subcommands"
)

type processCmd struct {
	*env
	flags runFlags
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "applies a CSV transaction log and prints the accounts" }
func (*processCmd) Usage() string {
	return `ledger process [-format csv|json] [-export] [-publish-rejections] <file>

  Reads the transactions in <file> (CSV with a type, client, tx, amount header),
  applies them in order to a fresh ledger and writes the final account of every
  client to stdout. Rows that cannot be applied are skipped and logged.

Usage Examples:
$ ledger process transactions.csv > accounts.csv
$ ledger transactions.csv

`
}

func (p *processCmd) SetFlags(f *flag.FlagSet) {
	p.flags.register(f)
}

func (p *processCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one input file, got %d\n", f.NArg())
		return subcommands.ExitUsageError
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open input: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	return p.flags.run(ctx, p.env, tabular.Read(file))
}
