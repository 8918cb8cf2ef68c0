// Package memory provides RAM-backed implementations of the storage interfaces.
// The stores are owned by a single ledger run and are not safe for concurrent use.
package memory

import (
	"fmt"
	"iter"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/storage"
	"github.com/shopspring/decimal"
)

type accountData struct {
	available models.Amount
	held      models.Amount
	locked    bool
}

// AccountStore keeps the balances of every client in a map.
type AccountStore struct {
	accounts map[models.ClientID]*accountData
}

// NewAccountStore creates an empty AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[models.ClientID]*accountData)}
}

// Make sure we conform to the interface
var _ storage.AccountStore = (*AccountStore)(nil)

// AddToBalance applies a deposit (positive amount) or a withdrawal (negative amount).
func (s *AccountStore) AddToBalance(client models.ClientID, amount models.Amount) error {
	data, ok := s.accounts[client]
	if !ok {
		if amount.IsNegative() {
			return fmt.Errorf("client %d: %w", client, storage.ErrNegativeOpeningBalance)
		}
		s.accounts[client] = &accountData{available: amount, held: decimal.Zero}
		return nil
	}

	if data.locked {
		return fmt.Errorf("cannot change balance of client %d: %w", client, storage.ErrAccountLocked)
	}
	next := data.available.Add(amount)
	if next.IsNegative() {
		return fmt.Errorf("client %d cannot cover %s: %w", client, amount.Neg(), storage.ErrInsufficientFunds)
	}
	data.available = next
	return nil
}

// HoldAmount moves min(available, amount) from the available to the held funds.
func (s *AccountStore) HoldAmount(client models.ClientID, amount models.Amount) error {
	data, err := s.lookup(client, amount, "hold")
	if err != nil {
		return err
	}
	held := decimal.Min(data.available, amount)
	data.available = data.available.Sub(held)
	data.held = data.held.Add(held)
	return nil
}

// ReleaseHeldAmount moves min(held, amount) from the held back to the available funds.
func (s *AccountStore) ReleaseHeldAmount(client models.ClientID, amount models.Amount) error {
	data, err := s.lookup(client, amount, "release")
	if err != nil {
		return err
	}
	released := decimal.Min(data.held, amount)
	data.held = data.held.Sub(released)
	data.available = data.available.Add(released)
	return nil
}

// ChargeBackAmount removes min(held, amount) from the held funds and locks the account,
// even when less than amount was held.
func (s *AccountStore) ChargeBackAmount(client models.ClientID, amount models.Amount) error {
	data, err := s.lookup(client, amount, "charge back")
	if err != nil {
		return err
	}
	charged := decimal.Min(data.held, amount)
	data.held = data.held.Sub(charged)
	data.locked = true
	return nil
}

func (s *AccountStore) lookup(client models.ClientID, amount models.Amount, op string) (*accountData, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("cannot %s %s for client %d: %w", op, amount, client, storage.ErrNegativeAmount)
	}
	data, ok := s.accounts[client]
	if !ok {
		return nil, fmt.Errorf("cannot %s for client %d: %w", op, client, storage.ErrClientNotFound)
	}
	return data, nil
}

// Account returns the snapshot of a single account.
func (s *AccountStore) Account(client models.ClientID) (models.Account, bool) {
	data, ok := s.accounts[client]
	if !ok {
		return models.Account{}, false
	}
	return snapshot(client, data), true
}

// Accounts yields a snapshot of every known account. Map iteration order applies.
func (s *AccountStore) Accounts() iter.Seq[models.Account] {
	return func(yield func(models.Account) bool) {
		for client, data := range s.accounts {
			if !yield(snapshot(client, data)) {
				return
			}
		}
	}
}

func snapshot(client models.ClientID, data *accountData) models.Account {
	return models.Account{
		Client:    client,
		Available: data.available,
		Held:      data.held,
		Locked:    data.locked,
	}
}
