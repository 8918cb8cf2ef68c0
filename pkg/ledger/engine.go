// Package ledger routes a stream of transactions to the account and transaction
// stores, one at a time and in order, and reports the inputs it had to reject.
package ledger

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/storage"
	"github.com/chris/transaction-ledger/pkg/storage/memory"
	"github.com/google/uuid"
)

// Engine processes transactions against the stores it owns.
// It is not safe for concurrent use.
type Engine struct {
	RunID        uuid.UUID
	accounts     storage.AccountStore
	transactions storage.TransactionStore
	logger       *slog.Logger
}

// NewEngine creates an Engine backed by the given stores.
func NewEngine(accounts storage.AccountStore, transactions storage.TransactionStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	runID := uuid.New()
	return &Engine{
		RunID:        runID,
		accounts:     accounts,
		transactions: transactions,
		logger:       logger.With("run_id", runID.String()),
	}
}

// New creates an Engine backed by fresh in-memory stores.
func New(logger *slog.Logger) *Engine {
	return NewEngine(memory.NewAccountStore(), memory.NewTransactionStore(), logger)
}

// Process applies every input in order. An input that fails to parse or is
// refused by a store is skipped and reported; it never stops the run.
func (e *Engine) Process(inputs iter.Seq[models.Input]) *Report {
	report := &Report{RunID: e.RunID}
	for input := range inputs {
		report.Processed++

		err := input.Err
		if err == nil {
			err = e.Apply(input.Transaction)
		}
		if err != nil {
			rejection := newRejection(input, err)
			report.Rejections = append(report.Rejections, rejection)
			e.logger.Warn("transaction rejected",
				"line", rejection.Line,
				"type", rejection.Type,
				"client", rejection.Client,
				"tx", rejection.Tx,
				"error", err,
			)
			continue
		}
		report.Applied++
	}

	e.logger.Info("ledger run finished",
		"processed", report.Processed,
		"applied", report.Applied,
		"rejected", report.Rejected(),
	)
	return report
}

// Apply applies a single transaction. Each handler makes at most one call to the
// transaction store followed by at most one call to the account store, and only
// makes the second when the first succeeded.
func (e *Engine) Apply(tx models.Transaction) error {
	switch tx := tx.(type) {
	case models.Deposit:
		return e.deposit(tx)
	case models.Withdrawal:
		return e.withdraw(tx)
	case models.Dispute:
		return e.dispute(tx)
	case models.Resolve:
		return e.undispute(tx.TxRef, storage.Resolve)
	case models.Chargeback:
		return e.undispute(tx.TxRef, storage.Chargeback)
	case nil:
		return fmt.Errorf("missing transaction")
	default:
		return fmt.Errorf("unsupported transaction %T", tx)
	}
}

// Accounts yields the final state of every account touched so far.
func (e *Engine) Accounts() iter.Seq[models.Account] {
	return e.accounts.Accounts()
}

// Account returns the current state of a single account.
func (e *Engine) Account(client models.ClientID) (models.Account, bool) {
	return e.accounts.Account(client)
}

func (e *Engine) deposit(tx models.Deposit) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("deposit of %s: %w", tx.Amount, storage.ErrNegativeAmount)
	}
	// The record stays even if the account refuses the credit (e.g. locked).
	if err := e.transactions.AddTransaction(tx); err != nil {
		return err
	}
	return e.accounts.AddToBalance(tx.Client, tx.Amount)
}

func (e *Engine) withdraw(tx models.Withdrawal) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("withdrawal of %s: %w", tx.Amount, storage.ErrNegativeAmount)
	}
	return e.accounts.AddToBalance(tx.Client, tx.Amount.Neg())
}

func (e *Engine) dispute(tx models.Dispute) error {
	disputed, err := e.transactions.DisputeTransaction(tx.TxRef)
	if err != nil {
		return err
	}
	switch d := disputed.(type) {
	case models.Deposit:
		return e.accounts.HoldAmount(d.Client, d.Amount)
	}
	return nil
}

func (e *Engine) undispute(ref models.TxRef, outcome storage.UndisputeOutcome) error {
	settled, err := e.transactions.UndisputeTransaction(ref, outcome)
	if err != nil {
		return err
	}
	switch d := settled.(type) {
	case models.Deposit:
		if outcome == storage.Chargeback {
			return e.accounts.ChargeBackAmount(d.Client, d.Amount)
		}
		return e.accounts.ReleaseHeldAmount(d.Client, d.Amount)
	}
	return nil
}
