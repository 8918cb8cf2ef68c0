package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/chris/transaction-ledger/pkg/config"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander, e *env) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&processCmd{env: e}, "runs")
	c.Register(&drainCmd{env: e}, "runs")
	c.Register(&serveCmd{env: e}, "runs")

	c.Register(&exportedCmd{env: e}, "exports")
}

// withShorthand turns "ledger <file>" into "ledger process <file>". A command
// name always wins over a file of the same name.
func withShorthand(c *subcommands.Commander, args []string) []string {
	if len(args) == 0 || isCommand(c, args[0]) {
		return args
	}
	if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
		return append([]string{"process"}, args...)
	}
	return args
}

func isCommand(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	e := newEnv(cfg, config.NewLogger(os.Stderr, cfg.LogLevel))

	Register(subcommands.DefaultCommander, e)
	if err := flag.CommandLine.Parse(withShorthand(subcommands.DefaultCommander, os.Args[1:])); err != nil {
		os.Exit(int(subcommands.ExitUsageError))
	}

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
