package memory

import (
	"fmt"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/storage"
)

type transactionData struct {
	client models.ClientID
	amount models.Amount
	state  models.DisputeState
}

// TransactionStore records deposits by transaction ID together with their dispute state.
type TransactionStore struct {
	transactions map[models.TransactionID]*transactionData
}

// NewTransactionStore creates an empty TransactionStore.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{transactions: make(map[models.TransactionID]*transactionData)}
}

// Make sure we conform to the interface
var _ storage.TransactionStore = (*TransactionStore)(nil)

// AddTransaction records a deposit as NOT_DISPUTED.
func (s *TransactionStore) AddTransaction(tx models.Disputable) error {
	switch tx := tx.(type) {
	case models.Deposit:
		if _, ok := s.transactions[tx.Tx]; ok {
			return fmt.Errorf("tx %d: %w", tx.Tx, storage.ErrDuplicateTransaction)
		}
		s.transactions[tx.Tx] = &transactionData{
			client: tx.Client,
			amount: tx.Amount,
			state:  models.NOT_DISPUTED,
		}
	}
	return nil
}

// DisputeTransaction transitions a NOT_DISPUTED transaction to DISPUTED.
func (s *TransactionStore) DisputeTransaction(ref models.TxRef) (models.Disputable, error) {
	data, err := s.lookup(ref, models.NOT_DISPUTED)
	if err != nil {
		return nil, fmt.Errorf("cannot dispute: %w", err)
	}
	data.state = models.DISPUTED
	return models.NewDeposit(data.client, ref.Tx, data.amount), nil
}

// UndisputeTransaction transitions a DISPUTED transaction back to NOT_DISPUTED on
// Resolve, or to the terminal CHARGED_BACK on Chargeback.
func (s *TransactionStore) UndisputeTransaction(ref models.TxRef, outcome storage.UndisputeOutcome) (models.Disputable, error) {
	data, err := s.lookup(ref, models.DISPUTED)
	if err != nil {
		return nil, fmt.Errorf("cannot %s: %w", outcome, err)
	}
	switch outcome {
	case storage.Resolve:
		data.state = models.NOT_DISPUTED
	case storage.Chargeback:
		data.state = models.CHARGED_BACK
	default:
		return nil, fmt.Errorf("unknown outcome %d for tx %d", outcome, ref.Tx)
	}
	return models.NewDeposit(data.client, ref.Tx, data.amount), nil
}

// State returns the dispute state of a recorded transaction.
func (s *TransactionStore) State(tx models.TransactionID) (models.DisputeState, bool) {
	data, ok := s.transactions[tx]
	if !ok {
		return "", false
	}
	return data.state, true
}

func (s *TransactionStore) lookup(ref models.TxRef, want models.DisputeState) (*transactionData, error) {
	data, ok := s.transactions[ref.Tx]
	if !ok {
		return nil, fmt.Errorf("tx %d: %w", ref.Tx, storage.ErrTransactionNotFound)
	}
	if data.client != ref.Client {
		return nil, fmt.Errorf("tx %d requested by client %d: %w", ref.Tx, ref.Client, storage.ErrClientMismatch)
	}
	if data.state != want {
		return nil, fmt.Errorf("tx %d is %s: %w", ref.Tx, data.state, storage.ErrInvalidDisputeState)
	}
	return data, nil
}
