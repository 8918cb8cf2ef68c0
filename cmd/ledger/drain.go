package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/google/subcommands"
)

type drainCmd struct {
	*env
	flags runFlags
}

func (*drainCmd) Name() string     { return "drain" }
func (*drainCmd) Synopsis() string { return "applies the rows waiting in the SQS transactions queue" }
func (*drainCmd) Usage() string {
	return `ledger drain [-format csv|json] [-export] [-publish-rejections]

  Receives every message of the FIFO queue named by SQS_TRANSACTIONS_QUEUE_URL,
  each holding one header-less CSV row, and applies them in arrival order to a
  fresh ledger. Messages are deleted once received. The account table is
  written to stdout.

`
}

func (d *drainCmd) SetFlags(f *flag.FlagSet) {
	d.flags.register(f)
}

func (d *drainCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source, err := d.transactionsSource(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	inputs, drainErr := source.Drain(ctx)
	if drainErr != nil && len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: could not drain queue: %v\n", drainErr)
		return subcommands.ExitFailure
	}
	d.logger.Info("queue drained", "queue_url", source.QueueURL, "messages", len(inputs))

	// Received messages are already gone from the queue, so they are applied
	// even when the drain stopped early.
	status := d.flags.run(ctx, d.env, slices.Values(inputs))
	if drainErr != nil {
		fmt.Fprintf(os.Stderr, "Error: queue only partially drained: %v\n", drainErr)
		return subcommands.ExitFailure
	}
	return status
}
