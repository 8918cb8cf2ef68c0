package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/tabular"
	"github.com/google/subcommands"
)

type exportedCmd struct {
	*env
	format string
	client int
}

func (*exportedCmd) Name() string     { return "exported" }
func (*exportedCmd) Synopsis() string { return "prints the accounts last exported to DynamoDB" }
func (*exportedCmd) Usage() string {
	return `ledger exported [-format csv|json] [-client <id>]

  Reads back the account snapshots stored in DYNAMODB_ACCOUNTS_TABLE_NAME by
  runs started with -export.

`
}

func (x *exportedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&x.format, "format", "csv", "Output format of the account table: csv or json")
	f.IntVar(&x.client, "client", -1, "Only print the account of this client")
}

func (x *exportedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := tabular.ParseFormat(x.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if x.client > math.MaxUint16 {
		fmt.Fprintf(os.Stderr, "Error: invalid client %d\n", x.client)
		return subcommands.ExitUsageError
	}

	store, err := x.accountsStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var accounts []models.Account
	if x.client >= 0 {
		exported, err := store.GetAccount(ctx, models.ClientID(x.client))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		accounts = append(accounts, exported.Account)
	} else {
		exported, err := store.ListAccounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, account := range exported {
			accounts = append(accounts, account.Account)
		}
	}

	if err := tabular.Write(x.stdout, format, slices.Values(accounts)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
