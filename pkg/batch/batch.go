// Package batch runs a transaction log through a fresh ledger engine and hands
// the outcome to the configured sinks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/chris/transaction-ledger/pkg/ledger"
	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/google/uuid"
)

// Sink receives the final account table of a run.
type Sink interface {
	ExportAccounts(ctx context.Context, runID uuid.UUID, accounts []models.Account) error
}

// RejectionPublisher receives the inputs a run had to discard.
type RejectionPublisher interface {
	PublishRejections(ctx context.Context, runID uuid.UUID, rejections []ledger.Rejection) error
}

// Runner holds the dependencies shared by every run.
type Runner struct {
	Logger    *slog.Logger
	Sinks     []Sink
	Publisher RejectionPublisher
}

// NewRunner creates a new Runner.
func NewRunner(logger *slog.Logger, publisher RejectionPublisher, sinks ...Sink) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Logger:    logger,
		Sinks:     sinks,
		Publisher: publisher,
	}
}

// Result is the outcome of one run.
type Result struct {
	Report   *ledger.Report
	Accounts []models.Account
}

// Run processes the inputs to exhaustion with a new engine, then exports the
// accounts and publishes the rejections. The result is returned even when a
// sink fails, together with the joined sink errors.
func (r *Runner) Run(ctx context.Context, inputs iter.Seq[models.Input]) (*Result, error) {
	engine := ledger.New(r.Logger)
	report := engine.Process(inputs)
	result := &Result{
		Report:   report,
		Accounts: slices.Collect(engine.Accounts()),
	}

	var errs []error
	for _, sink := range r.Sinks {
		if err := sink.ExportAccounts(ctx, report.RunID, result.Accounts); err != nil {
			errs = append(errs, fmt.Errorf("failed to export accounts: %w", err))
		}
	}
	if r.Publisher != nil && report.Rejected() > 0 {
		if err := r.Publisher.PublishRejections(ctx, report.RunID, report.Rejections); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish rejections: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		r.Logger.Error("run finished with sink errors", "run_id", report.RunID.String(), "error", err)
		return result, err
	}
	return result, nil
}
