// Package dynamodb exports ledger account tables to AWS DynamoDB.
package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/transaction-ledger/pkg/batch"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store writes account snapshots to a DynamoDB table keyed by client_id.
type Store struct {
	Client            DynamoDBAPI
	AccountsTableName string
	// TTL is how long an exported snapshot is kept. Zero keeps it forever.
	TTL        time.Duration
	RetryDelay time.Duration
}

// New creates a new Store.
func New(client DynamoDBAPI, accountsTable string) *Store {
	return &Store{
		Client:            client,
		AccountsTableName: accountsTable,
		RetryDelay:        100 * time.Millisecond,
	}
}

// Make sure we conform to the interface
var _ batch.Sink = (*Store)(nil)
