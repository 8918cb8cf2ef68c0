package memory

import (
	"testing"

	"github.com/chris/transaction-ledger/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) models.Amount {
	return decimal.RequireFromString(s)
}

func assertAccount(t *testing.T, store *AccountStore, client models.ClientID, available, held string, locked bool) {
	t.Helper()
	account, ok := store.Account(client)
	require.True(t, ok, "account %d not found", client)
	assert.Truef(t, dec(available).Equal(account.Available), "available: want %s, got %s", available, account.Available)
	assert.Truef(t, dec(held).Equal(account.Held), "held: want %s, got %s", held, account.Held)
	assert.Equal(t, locked, account.Locked)
}

func countAccounts(store *AccountStore) int {
	n := 0
	for range store.Accounts() {
		n++
	}
	return n
}
