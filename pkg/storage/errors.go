package storage

import "errors"

// ErrInsufficientFunds is returned when an account's available funds cannot cover a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAccountLocked is returned when the balance of a locked account would change.
var ErrAccountLocked = errors.New("account is locked")

// ErrNegativeOpeningBalance is returned when an unknown client would start with a negative balance.
var ErrNegativeOpeningBalance = errors.New("account creation would start with negative balance")

// ErrNegativeAmount is returned when a negative amount is given to an operation that forbids it.
var ErrNegativeAmount = errors.New("negative amount")

// ErrClientNotFound is returned when no account exists for a client.
var ErrClientNotFound = errors.New("client not found")

// ErrAccountNotFound is returned when no exported snapshot exists for a client.
var ErrAccountNotFound = errors.New("account not found")

// ErrDuplicateTransaction is returned when a transaction ID has already been recorded.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// ErrTransactionNotFound is returned when a dispute references an unknown transaction.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrClientMismatch is returned when a dispute is raised by a client that does not own the transaction.
var ErrClientMismatch = errors.New("transaction belongs to another client")

// ErrInvalidDisputeState is returned when a transaction is not in a state allowing the requested transition.
var ErrInvalidDisputeState = errors.New("transaction not in a valid dispute state")
