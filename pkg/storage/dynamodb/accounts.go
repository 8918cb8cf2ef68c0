package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxBatchSize is the DynamoDB limit of put requests per BatchWriteItem call.
const maxBatchSize = 25

const maxUnprocessedRetries = 3

// accountItem is the stored form of an account. Amounts are kept as strings so
// no precision is lost.
type accountItem struct {
	ClientID   models.ClientID `dynamodbav:"client_id"`
	Available  string          `dynamodbav:"available"`
	Held       string          `dynamodbav:"held"`
	Total      string          `dynamodbav:"total"`
	Locked     bool            `dynamodbav:"locked"`
	RunID      string          `dynamodbav:"run_id"`
	ExportedAt time.Time       `dynamodbav:"exported_at"`
	TTL        int64           `dynamodbav:"ttl,omitempty"`
}

// ExportedAccount is an account snapshot read back from the table.
type ExportedAccount struct {
	models.Account
	RunID      string
	ExportedAt time.Time
}

func (item accountItem) toExported() (ExportedAccount, error) {
	available, err := decimal.NewFromString(item.Available)
	if err != nil {
		return ExportedAccount{}, fmt.Errorf("invalid available amount for client %d: %w", item.ClientID, err)
	}
	held, err := decimal.NewFromString(item.Held)
	if err != nil {
		return ExportedAccount{}, fmt.Errorf("invalid held amount for client %d: %w", item.ClientID, err)
	}
	return ExportedAccount{
		Account: models.Account{
			Client:    item.ClientID,
			Available: available,
			Held:      held,
			Locked:    item.Locked,
		},
		RunID:      item.RunID,
		ExportedAt: item.ExportedAt,
	}, nil
}

// ExportAccounts writes the accounts of a run, overwriting previous snapshots of the same clients.
func (s *Store) ExportAccounts(ctx context.Context, runID uuid.UUID, accounts []models.Account) error {
	now := time.Now().UTC()
	var ttl int64
	if s.TTL > 0 {
		ttl = now.Add(s.TTL).Unix()
	}

	requests := make([]types.WriteRequest, 0, len(accounts))
	for _, account := range accounts {
		item := accountItem{
			ClientID:   account.Client,
			Available:  models.FormatAmount(account.Available),
			Held:       models.FormatAmount(account.Held),
			Total:      models.FormatAmount(account.Total()),
			Locked:     account.Locked,
			RunID:      runID.String(),
			ExportedAt: now,
			TTL:        ttl,
		}
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("failed to marshal account %d: %w", account.Client, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	for start := 0; start < len(requests); start += maxBatchSize {
		end := min(start+maxBatchSize, len(requests))
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.AccountsTableName: requests}
	for attempt := 0; ; attempt++ {
		result, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to write accounts to DynamoDB: %w", err)
		}
		if result == nil || len(result.UnprocessedItems[s.AccountsTableName]) == 0 {
			return nil
		}
		if attempt == maxUnprocessedRetries {
			return fmt.Errorf("failed to write %d accounts to DynamoDB after %d retries", len(result.UnprocessedItems[s.AccountsTableName]), attempt)
		}
		pending = result.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.RetryDelay * time.Duration(attempt+1)):
		}
	}
}

// GetAccount retrieves the last exported snapshot of a client's account.
func (s *Store) GetAccount(ctx context.Context, client models.ClientID) (*ExportedAccount, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"client_id": &types.AttributeValueMemberN{Value: strconv.FormatUint(uint64(client), 10)},
		},
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("account for client %d: %w", client, storage.ErrAccountNotFound)
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	account, err := item.toExported()
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts retrieves every exported account snapshot.
func (s *Store) ListAccounts(ctx context.Context) ([]ExportedAccount, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.AccountsTableName),
	}

	var accounts []ExportedAccount
	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table: %w", err)
		}

		var items []accountItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		for _, item := range items {
			account, err := item.toExported()
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, account)
		}

		if len(result.LastEvaluatedKey) == 0 {
			return accounts, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
