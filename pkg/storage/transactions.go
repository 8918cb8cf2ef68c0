package storage

import (
	"github.com/chris/transaction-ledger/pkg/models"
)

// UndisputeOutcome selects how a disputed transaction is settled.
type UndisputeOutcome int

const (
	// Resolve returns the transaction to its undisputed state. It can be disputed again.
	Resolve UndisputeOutcome = iota
	// Chargeback reverses the transaction for good. It cannot be disputed again.
	Chargeback
)

func (o UndisputeOutcome) String() string {
	switch o {
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// TransactionStore defines the interface for recording disputable transactions and
// driving their dispute lifecycle.
type TransactionStore interface {
	// AddTransaction records a transaction. Its ID must not have been recorded before.
	AddTransaction(tx models.Disputable) error

	// DisputeTransaction marks a recorded, undisputed transaction as disputed and returns it.
	DisputeTransaction(ref models.TxRef) (models.Disputable, error)

	// UndisputeTransaction settles a disputed transaction with the given outcome and returns it.
	UndisputeTransaction(ref models.TxRef, outcome UndisputeOutcome) (models.Disputable, error)

	// State returns the dispute state of a recorded transaction.
	State(tx models.TransactionID) (models.DisputeState, bool)
}
