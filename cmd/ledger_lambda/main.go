package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/config"
	dydbstore "github.com/chris/transaction-ledger/pkg/storage/dynamodb"
)

var handler *Handler

func init() {
	// Load environment variables from .env file (useful for local testing).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load configuration, %v", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	// The export is optional; without a table the lambda only computes accounts.
	var sinks []batch.Sink
	if cfg.AccountsTableName != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			log.Fatalf("unable to load SDK config, %v", err)
		}
		sinks = append(sinks, dydbstore.New(dynamodb.NewFromConfig(awsCfg), cfg.AccountsTableName))
	}

	handler = NewHandler(batch.NewRunner(logger, nil, sinks...), logger)
}

func main() {
	lambda.Start(handler.HandleRequest)
}
