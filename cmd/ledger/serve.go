package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/transaction-ledger/pkg/handlers"
	"github.com/google/subcommands"
)

type serveCmd struct {
	*env
	flags runFlags
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the HTTP API" }
func (*serveCmd) Usage() string {
	return `ledger serve [-export] [-publish-rejections]

  Listens on HTTP_PORT (default 8080). Every POST /runs request body is
  processed as an independent transaction log; the response format is chosen
  with the format query parameter.

`
}

func (s *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.flags.export, "export", false, "Export the account table of every run to the DynamoDB accounts table")
	f.BoolVar(&s.flags.publishRejections, "publish-rejections", false, "Publish rejected inputs of every run to the SQS rejections queue")
}

func (s *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	runner, err := s.flags.runner(ctx, s.env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	server := &http.Server{
		Addr:              ":" + s.cfg.HTTPPort,
		Handler:           handlers.NewRouter(handlers.NewApiHandler(runner, s.logger), s.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("failed to shut down server", "error", err)
		}
	}()

	s.logger.Info("starting server", "port", s.cfg.HTTPPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "Error: failed to start server: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
