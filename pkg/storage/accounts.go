package storage

import (
	"iter"

	"github.com/chris/transaction-ledger/pkg/models"
)

// AccountWriter defines the balance mutations applied by the ledger engine.
type AccountWriter interface {
	// AddToBalance credits (positive amount) or debits (negative amount) the available funds.
	// An account is opened on the first non-negative change for an unknown client.
	AddToBalance(client models.ClientID, amount models.Amount) error

	// HoldAmount moves up to amount from the available to the held funds.
	HoldAmount(client models.ClientID, amount models.Amount) error

	// ReleaseHeldAmount moves up to amount from the held back to the available funds.
	ReleaseHeldAmount(client models.ClientID, amount models.Amount) error

	// ChargeBackAmount removes up to amount from the held funds and locks the account.
	ChargeBackAmount(client models.ClientID, amount models.Amount) error
}

// AccountLister defines the interface for reading account snapshots.
type AccountLister interface {
	// Accounts yields a snapshot of every known account in no particular order.
	Accounts() iter.Seq[models.Account]

	// Account returns the snapshot of a single account.
	Account(client models.ClientID) (models.Account, bool)
}

// AccountStore combines the writer and lister interfaces.
type AccountStore interface {
	AccountWriter
	AccountLister
}
