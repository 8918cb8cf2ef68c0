// Package queue reads transaction rows from and publishes rejections to AWS SQS.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/transaction-ledger/pkg/batch"
	"github.com/chris/transaction-ledger/pkg/ledger"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/tabular"
	"github.com/google/uuid"
)

// maxMessages is the SQS limit of messages per ReceiveMessage call.
const maxMessages = 10

// SQSAPI is the subset of the SQS client used by this package.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessageBatch(ctx context.Context, params *sqs.DeleteMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageBatchOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSource drains a queue whose message bodies are single transaction rows.
// The queue must be FIFO for the ledger to see the rows in order.
type SQSSource struct {
	Client          SQSAPI
	QueueURL        string
	WaitTimeSeconds int32
	Logger          *slog.Logger
}

// NewSQSSource creates a new SQSSource.
func NewSQSSource(client SQSAPI, queueURL string, logger *slog.Logger) *SQSSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQSSource{
		Client:          client,
		QueueURL:        queueURL,
		WaitTimeSeconds: 1,
		Logger:          logger,
	}
}

// Drain receives messages until the queue reports none left. Each message is
// deleted as soon as it has been read, so a row is delivered to the ledger at
// most once. Line numbers count messages from 1 in arrival order.
func (s *SQSSource) Drain(ctx context.Context) ([]models.Input, error) {
	var inputs []models.Input
	for {
		result, err := s.Client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.QueueURL),
			MaxNumberOfMessages: maxMessages,
			WaitTimeSeconds:     s.WaitTimeSeconds,
		})
		if err != nil {
			return inputs, fmt.Errorf("failed to receive messages from SQS: %w", err)
		}
		if result == nil || len(result.Messages) == 0 {
			return inputs, nil
		}

		entries := make([]types.DeleteMessageBatchRequestEntry, 0, len(result.Messages))
		for i, msg := range result.Messages {
			tx, err := tabular.ParseRow(aws.ToString(msg.Body))
			inputs = append(inputs, models.Input{Line: len(inputs) + 1, Transaction: tx, Err: err})
			entries = append(entries, types.DeleteMessageBatchRequestEntry{
				Id:            aws.String(strconv.Itoa(i)),
				ReceiptHandle: msg.ReceiptHandle,
			})
		}

		if err := s.delete(ctx, entries); err != nil {
			return inputs, err
		}
	}
}

func (s *SQSSource) delete(ctx context.Context, entries []types.DeleteMessageBatchRequestEntry) error {
	result, err := s.Client.DeleteMessageBatch(ctx, &sqs.DeleteMessageBatchInput{
		QueueUrl: aws.String(s.QueueURL),
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("failed to delete messages from SQS: %w", err)
	}
	if result != nil {
		for _, failed := range result.Failed {
			// The row has already been read; a redelivery would be a duplicate.
			s.Logger.Warn("failed to delete message",
				"queue_url", s.QueueURL,
				"id", aws.ToString(failed.Id),
				"code", aws.ToString(failed.Code),
				"message", aws.ToString(failed.Message),
			)
		}
	}
	return nil
}

// rejectionMessage is the body of a message published for a rejected input.
type rejectionMessage struct {
	RunID     uuid.UUID        `json:"run_id"`
	Rejection ledger.Rejection `json:"rejection"`
}

// SQSPublisher implements the batch.RejectionPublisher interface using AWS SQS.
type SQSPublisher struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ batch.RejectionPublisher = (*SQSPublisher)(nil)

// PublishRejections sends one message per rejection, in order.
func (p *SQSPublisher) PublishRejections(ctx context.Context, runID uuid.UUID, rejections []ledger.Rejection) error {
	for _, rejection := range rejections {
		body, err := json.Marshal(rejectionMessage{RunID: runID, Rejection: rejection})
		if err != nil {
			return fmt.Errorf("failed to marshal rejection for SQS: %w", err)
		}

		_, err = p.Client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:    aws.String(p.QueueURL),
			MessageBody: aws.String(string(body)),
		})
		if err != nil {
			return fmt.Errorf("failed to send message to SQS: %w", err)
		}
	}
	return nil
}
