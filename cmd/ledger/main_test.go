package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/transaction-ledger/pkg/config"
	queuemocks "github.com/chris/transaction-ledger/pkg/queue/mocks"
	dynamomocks "github.com/chris/transaction-ledger/pkg/storage/dynamodb/mocks"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const transactionLog = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
`

const accountTable = `client,available,held,total,locked
1,1.5,0,1.5,false
2,2.0,0,2.0,false
`

func newTestEnv(t *testing.T, vars map[string]string) (*env, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.FromEnv(func(key string) string { return vars[key] })
	require.NoError(t, err)

	var out bytes.Buffer
	e := newEnv(cfg, slog.New(slog.DiscardHandler))
	e.stdout = &out
	e.loadAWSConfig = func(context.Context) (aws.Config, error) {
		return aws.Config{}, errors.New("no AWS access in tests")
	}
	return e, &out
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func TestProcess(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e, out := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, accountTable, out.String())
	})

	t.Run("JSON Format", func(t *testing.T) {
		e, out := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, "-format", "json", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.JSONEq(t, `[
			{"client":1,"available":"1.5","held":"0","total":"1.5","locked":false},
			{"client":2,"available":"2.0","held":"0","total":"2.0","locked":false}
		]`, out.String())
	})

	t.Run("Empty Log", func(t *testing.T) {
		e, out := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, writeLog(t, ""))

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "client,available,held,total,locked\n", out.String())
	})

	t.Run("Missing File", func(t *testing.T) {
		e, out := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, filepath.Join(t.TempDir(), "missing.csv"))

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Empty(t, out.String())
	})

	t.Run("Missing Argument", func(t *testing.T) {
		e, _ := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e})

		assert.Equal(t, subcommands.ExitUsageError, status)
	})

	t.Run("Invalid Format", func(t *testing.T) {
		e, _ := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, "-format", "xml", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitUsageError, status)
	})

	t.Run("Export", func(t *testing.T) {
		e, out := newTestEnv(t, map[string]string{"DYNAMODB_ACCOUNTS_TABLE_NAME": "accounts"})
		mockClient := new(dynamomocks.DynamoDBAPI)
		mockClient.On("BatchWriteItem", mock.Anything, mock.MatchedBy(func(input *dynamodb.BatchWriteItemInput) bool {
			return len(input.RequestItems["accounts"]) == 2
		})).Return(&dynamodb.BatchWriteItemOutput{}, nil).Once()
		e.dynamoDB = mockClient

		status := execute(t, &processCmd{env: e}, "-export", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, accountTable, out.String())
		mockClient.AssertExpectations(t)
	})

	t.Run("Export Failure Still Prints Accounts", func(t *testing.T) {
		e, out := newTestEnv(t, map[string]string{"DYNAMODB_ACCOUNTS_TABLE_NAME": "accounts"})
		mockClient := new(dynamomocks.DynamoDBAPI)
		mockClient.On("BatchWriteItem", mock.Anything, mock.Anything).Return(nil, errors.New("table not found"))
		e.dynamoDB = mockClient

		status := execute(t, &processCmd{env: e}, "-export", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Equal(t, accountTable, out.String())
	})

	t.Run("Export Not Configured", func(t *testing.T) {
		e, out := newTestEnv(t, nil)

		status := execute(t, &processCmd{env: e}, "-export", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Empty(t, out.String())
	})

	t.Run("Publish Rejections", func(t *testing.T) {
		e, _ := newTestEnv(t, map[string]string{"SQS_REJECTIONS_QUEUE_URL": "https://sqs.local/rejections"})
		mockClient := new(queuemocks.SQSAPI)
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(&sqs.SendMessageOutput{}, nil).Once()
		e.sqs = mockClient

		status := execute(t, &processCmd{env: e}, "-publish-rejections", writeLog(t, transactionLog))

		assert.Equal(t, subcommands.ExitSuccess, status)
		mockClient.AssertExpectations(t)
	})
}

func TestDrain(t *testing.T) {
	vars := map[string]string{"SQS_TRANSACTIONS_QUEUE_URL": "https://sqs.local/transactions.fifo"}

	t.Run("Success", func(t *testing.T) {
		e, out := newTestEnv(t, vars)
		mockClient := new(queuemocks.SQSAPI)
		mockClient.On("ReceiveMessage", mock.Anything, mock.Anything).Return(&sqs.ReceiveMessageOutput{
			Messages: []sqstypes.Message{
				{Body: aws.String("deposit, 1, 1, 3"), ReceiptHandle: aws.String("h1")},
				{Body: aws.String("withdrawal, 1, 2, 1"), ReceiptHandle: aws.String("h2")},
			},
		}, nil).Once()
		mockClient.On("ReceiveMessage", mock.Anything, mock.Anything).Return(&sqs.ReceiveMessageOutput{}, nil).Once()
		mockClient.On("DeleteMessageBatch", mock.Anything, mock.Anything).Return(&sqs.DeleteMessageBatchOutput{}, nil).Once()
		e.sqs = mockClient

		status := execute(t, &drainCmd{env: e})

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "client,available,held,total,locked\n1,2,0,2,false\n", out.String())
		mockClient.AssertExpectations(t)
	})

	t.Run("Queue Not Configured", func(t *testing.T) {
		e, _ := newTestEnv(t, nil)

		status := execute(t, &drainCmd{env: e})

		assert.Equal(t, subcommands.ExitFailure, status)
	})

	t.Run("Receive Error", func(t *testing.T) {
		e, out := newTestEnv(t, vars)
		mockClient := new(queuemocks.SQSAPI)
		mockClient.On("ReceiveMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue unavailable"))
		e.sqs = mockClient

		status := execute(t, &drainCmd{env: e})

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Empty(t, out.String())
	})

	t.Run("AWS Config Error", func(t *testing.T) {
		e, _ := newTestEnv(t, vars)

		status := execute(t, &drainCmd{env: e})

		assert.Equal(t, subcommands.ExitFailure, status)
	})
}

func TestExported(t *testing.T) {
	vars := map[string]string{"DYNAMODB_ACCOUNTS_TABLE_NAME": "accounts"}
	item, err := attributevalue.MarshalMap(map[string]any{
		"client_id": 4,
		"available": "7.25",
		"held":      "0",
		"total":     "7.25",
		"locked":    true,
		"run_id":    "run-1",
	})
	require.NoError(t, err)

	t.Run("List", func(t *testing.T) {
		e, out := newTestEnv(t, vars)
		mockClient := new(dynamomocks.DynamoDBAPI)
		mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{item},
		}, nil).Once()
		e.dynamoDB = mockClient

		status := execute(t, &exportedCmd{env: e})

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "client,available,held,total,locked\n4,7.25,0,7.25,true\n", out.String())
	})

	t.Run("Single Client", func(t *testing.T) {
		e, out := newTestEnv(t, vars)
		mockClient := new(dynamomocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: item}, nil).Once()
		e.dynamoDB = mockClient

		status := execute(t, &exportedCmd{env: e}, "-client", "4")

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Equal(t, "client,available,held,total,locked\n4,7.25,0,7.25,true\n", out.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		e, out := newTestEnv(t, vars)
		mockClient := new(dynamomocks.DynamoDBAPI)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
		e.dynamoDB = mockClient

		status := execute(t, &exportedCmd{env: e}, "-client", "5")

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Empty(t, out.String())
	})
}

func newTestCommander(t *testing.T) *subcommands.Commander {
	t.Helper()
	e, _ := newTestEnv(t, nil)
	c := subcommands.NewCommander(flag.NewFlagSet("ledger", flag.ContinueOnError), "ledger")
	Register(c, e)
	return c
}

func TestWithShorthand(t *testing.T) {
	c := newTestCommander(t)

	t.Run("File", func(t *testing.T) {
		path := writeLog(t, transactionLog)
		assert.Equal(t, []string{"process", path}, withShorthand(c, []string{path}))
	})

	t.Run("Command", func(t *testing.T) {
		assert.Equal(t, []string{"serve"}, withShorthand(c, []string{"serve"}))
	})

	t.Run("File Named Like A Command", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"serve", "drain"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(transactionLog), 0o644))
		}
		t.Chdir(dir)

		assert.Equal(t, []string{"serve"}, withShorthand(c, []string{"serve"}))
		assert.Equal(t, []string{"drain", "-format", "json"}, withShorthand(c, []string{"drain", "-format", "json"}))
	})

	t.Run("Directory", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, []string{dir}, withShorthand(c, []string{dir}))
	})

	t.Run("No Arguments", func(t *testing.T) {
		assert.Empty(t, withShorthand(c, nil))
	})
}
