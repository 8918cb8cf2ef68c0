package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/config"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/queue"
	dydbstore "github.com/chris/transaction-ledger/pkg/storage/dynamodb"
	"github.com/chris/transaction-ledger/pkg/tabular"
	"github.com/google/subcommands"
)

// env carries what every command needs. The AWS clients are created on first use
// so commands that stay local never look for credentials.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer

	loadAWSConfig func(ctx context.Context) (aws.Config, error)
	dynamoDB      dydbstore.DynamoDBAPI
	sqs           queue.SQSAPI
}

func newEnv(cfg *config.Config, logger *slog.Logger) *env {
	return &env{
		cfg:    cfg,
		logger: logger,
		stdout: os.Stdout,
		loadAWSConfig: func(ctx context.Context) (aws.Config, error) {
			return awsconfig.LoadDefaultConfig(ctx)
		},
	}
}

func (e *env) awsConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := e.loadAWSConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

func (e *env) accountsStore(ctx context.Context) (*dydbstore.Store, error) {
	if err := e.cfg.RequireAccountsTable(); err != nil {
		return nil, err
	}
	if e.dynamoDB == nil {
		cfg, err := e.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		e.dynamoDB = dynamodb.NewFromConfig(cfg)
	}
	return dydbstore.New(e.dynamoDB, e.cfg.AccountsTableName), nil
}

func (e *env) sqsClient(ctx context.Context) (queue.SQSAPI, error) {
	if e.sqs == nil {
		cfg, err := e.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		e.sqs = sqs.NewFromConfig(cfg)
	}
	return e.sqs, nil
}

func (e *env) transactionsSource(ctx context.Context) (*queue.SQSSource, error) {
	if err := e.cfg.RequireTransactionsQueue(); err != nil {
		return nil, err
	}
	client, err := e.sqsClient(ctx)
	if err != nil {
		return nil, err
	}
	return queue.NewSQSSource(client, e.cfg.TransactionsQueueURL, e.logger), nil
}

func (e *env) rejectionsPublisher(ctx context.Context) (*queue.SQSPublisher, error) {
	if err := e.cfg.RequireRejectionsQueue(); err != nil {
		return nil, err
	}
	client, err := e.sqsClient(ctx)
	if err != nil {
		return nil, err
	}
	return queue.NewSQSPublisher(client, e.cfg.RejectionsQueueURL), nil
}

// runFlags are the output options shared by the commands that run the ledger.
type runFlags struct {
	format            string
	export            bool
	publishRejections bool
}

func (r *runFlags) register(f *flag.FlagSet) {
	f.StringVar(&r.format, "format", "csv", "Output format of the account table: csv or json")
	f.BoolVar(&r.export, "export", false, "Export the account table to the DynamoDB accounts table")
	f.BoolVar(&r.publishRejections, "publish-rejections", false, "Publish rejected inputs to the SQS rejections queue")
}

// runner builds a batch.Runner wired to the sinks selected by the flags.
func (r *runFlags) runner(ctx context.Context, e *env) (*batch.Runner, error) {
	var sinks []batch.Sink
	if r.export {
		store, err := e.accountsStore(ctx)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
	}

	var publisher batch.RejectionPublisher
	if r.publishRejections {
		p, err := e.rejectionsPublisher(ctx)
		if err != nil {
			return nil, err
		}
		publisher = p
	}
	return batch.NewRunner(e.logger, publisher, sinks...), nil
}

// run processes the inputs and writes the account table to stdout. The table is
// written even when an export or publication failed.
func (r *runFlags) run(ctx context.Context, e *env, inputs iter.Seq[models.Input]) subcommands.ExitStatus {
	format, err := tabular.ParseFormat(r.format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	runner, err := r.runner(ctx, e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	result, runErr := runner.Run(ctx, inputs)
	if err := tabular.Write(e.stdout, format, slices.Values(result.Accounts)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
