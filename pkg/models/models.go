package models

import (
	"github.com/shopspring/decimal"
)

// Amount is an exact decimal monetary value.
type Amount = decimal.Decimal

// FormatAmount renders an amount with the scale it was computed with, so a
// deposit of 1.0 prints as 1.0 rather than 1.
func FormatAmount(a Amount) string {
	if exp := a.Exponent(); exp < 0 {
		return a.StringFixed(-exp)
	}
	return a.String()
}

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies a transaction. It is unique across all clients.
type TransactionID uint32

// DisputeState defines the possible states of a disputable transaction record.
type DisputeState string

const (
	NOT_DISPUTED DisputeState = "NOT_DISPUTED"
	DISPUTED     DisputeState = "DISPUTED"
	CHARGED_BACK DisputeState = "CHARGED_BACK"
)

// Account is a snapshot of a client's balances.
type Account struct {
	Client    ClientID `json:"client"`
	Available Amount   `json:"available"`
	Held      Amount   `json:"held"`
	Locked    bool     `json:"locked"`
}

// Total returns the sum of available and held funds.
func (a Account) Total() Amount {
	return a.Available.Add(a.Held)
}

// Input is one element of the engine's input stream: either a parsed
// transaction or the error that prevented parsing it.
type Input struct {
	Line        int
	Transaction Transaction
	Err         error
}
