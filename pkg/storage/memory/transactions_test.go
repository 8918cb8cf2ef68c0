package memory

import (
	"testing"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/chris/transaction-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositOf(t *testing.T, tx models.Disputable) models.Deposit {
	t.Helper()
	deposit, ok := tx.(models.Deposit)
	require.True(t, ok, "expected a deposit, got %T", tx)
	return deposit
}

func TestAddTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))

		state, ok := store.State(10)
		require.True(t, ok)
		assert.Equal(t, models.NOT_DISPUTED, state)
	})

	t.Run("Duplicate", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))

		err := store.AddTransaction(models.NewDeposit(2, 10, dec("7")))
		assert.ErrorIs(t, err, storage.ErrDuplicateTransaction)

		disputed, err := store.DisputeTransaction(models.TxRef{Client: 1, Tx: 10})
		require.NoError(t, err)
		deposit := depositOf(t, disputed)
		assert.Equal(t, models.ClientID(1), deposit.Client)
		assert.True(t, dec("2.5").Equal(deposit.Amount))
	})
}

func TestDisputeTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))

		disputed, err := store.DisputeTransaction(models.TxRef{Client: 1, Tx: 10})
		require.NoError(t, err)

		deposit := depositOf(t, disputed)
		assert.Equal(t, models.TxRef{Client: 1, Tx: 10}, deposit.Ref())
		assert.True(t, dec("2.5").Equal(deposit.Amount))
		state, _ := store.State(10)
		assert.Equal(t, models.DISPUTED, state)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := NewTransactionStore()
		_, err := store.DisputeTransaction(models.TxRef{Client: 1, Tx: 10})
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
	})

	t.Run("Client Mismatch", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))

		_, err := store.DisputeTransaction(models.TxRef{Client: 2, Tx: 10})
		assert.ErrorIs(t, err, storage.ErrClientMismatch)
		state, _ := store.State(10)
		assert.Equal(t, models.NOT_DISPUTED, state)
	})

	t.Run("Already Disputed", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))
		_, err := store.DisputeTransaction(models.TxRef{Client: 1, Tx: 10})
		require.NoError(t, err)

		_, err = store.DisputeTransaction(models.TxRef{Client: 1, Tx: 10})
		assert.ErrorIs(t, err, storage.ErrInvalidDisputeState)
	})
}

func TestUndisputeTransaction(t *testing.T) {
	ref := models.TxRef{Client: 1, Tx: 10}

	newDisputed := func(t *testing.T) *TransactionStore {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))
		_, err := store.DisputeTransaction(ref)
		require.NoError(t, err)
		return store
	}

	t.Run("Resolve", func(t *testing.T) {
		store := newDisputed(t)

		resolved, err := store.UndisputeTransaction(ref, storage.Resolve)
		require.NoError(t, err)
		assert.True(t, dec("2.5").Equal(depositOf(t, resolved).Amount))

		state, _ := store.State(10)
		assert.Equal(t, models.NOT_DISPUTED, state)

		_, err = store.DisputeTransaction(ref)
		assert.NoError(t, err, "a resolved transaction can be disputed again")
	})

	t.Run("Chargeback", func(t *testing.T) {
		store := newDisputed(t)

		charged, err := store.UndisputeTransaction(ref, storage.Chargeback)
		require.NoError(t, err)
		assert.Equal(t, models.ClientID(1), depositOf(t, charged).Client)

		state, _ := store.State(10)
		assert.Equal(t, models.CHARGED_BACK, state)

		_, err = store.DisputeTransaction(ref)
		assert.ErrorIs(t, err, storage.ErrInvalidDisputeState)
		_, err = store.UndisputeTransaction(ref, storage.Resolve)
		assert.ErrorIs(t, err, storage.ErrInvalidDisputeState)
	})

	t.Run("Not Disputed", func(t *testing.T) {
		store := NewTransactionStore()
		require.NoError(t, store.AddTransaction(models.NewDeposit(1, 10, dec("2.5"))))

		_, err := store.UndisputeTransaction(ref, storage.Resolve)
		assert.ErrorIs(t, err, storage.ErrInvalidDisputeState)
		_, err = store.UndisputeTransaction(ref, storage.Chargeback)
		assert.ErrorIs(t, err, storage.ErrInvalidDisputeState)
	})

	t.Run("Client Mismatch", func(t *testing.T) {
		store := newDisputed(t)

		_, err := store.UndisputeTransaction(models.TxRef{Client: 2, Tx: 10}, storage.Chargeback)
		assert.ErrorIs(t, err, storage.ErrClientMismatch)
		state, _ := store.State(10)
		assert.Equal(t, models.DISPUTED, state)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := NewTransactionStore()
		_, err := store.UndisputeTransaction(ref, storage.Resolve)
		assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
	})
}
