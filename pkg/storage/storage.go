package storage

// Storage defines the root interface for the ledger's data layer.
// It composes all available storage operations. Components should depend on the
// more granular interfaces (AccountStore, TransactionStore, etc.) instead of this one.
type Storage interface {
	AccountStore
	TransactionStore
}
