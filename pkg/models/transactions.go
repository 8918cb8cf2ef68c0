package models

// TransactionType is the kind of a transaction as it appears in the input.
type TransactionType string

const (
	DEPOSIT    TransactionType = "deposit"
	WITHDRAWAL TransactionType = "withdrawal"
	DISPUTE    TransactionType = "dispute"
	RESOLVE    TransactionType = "resolve"
	CHARGEBACK TransactionType = "chargeback"
)

// Transaction is one of Deposit, Withdrawal, Dispute, Resolve or Chargeback.
type Transaction interface {
	Type() TransactionType
	Ref() TxRef
	isTransaction()
}

// Disputable is the restricted set of transactions whose effect can be
// disputed later on. Only Deposit implements it.
type Disputable interface {
	Transaction
	isDisputable()
}

// TxRef points at a transaction on behalf of a client.
type TxRef struct {
	Client ClientID
	Tx     TransactionID
}

func (r TxRef) Ref() TxRef { return r }

// MonetaryRecord moves money towards or away from a client account.
type MonetaryRecord struct {
	TxRef
	Amount Amount
}

type Deposit struct{ MonetaryRecord }

type Withdrawal struct{ MonetaryRecord }

type Dispute struct{ TxRef }

type Resolve struct{ TxRef }

type Chargeback struct{ TxRef }

func (Deposit) Type() TransactionType    { return DEPOSIT }
func (Withdrawal) Type() TransactionType { return WITHDRAWAL }
func (Dispute) Type() TransactionType    { return DISPUTE }
func (Resolve) Type() TransactionType    { return RESOLVE }
func (Chargeback) Type() TransactionType { return CHARGEBACK }

func (Deposit) isTransaction()    {}
func (Withdrawal) isTransaction() {}
func (Dispute) isTransaction()    {}
func (Resolve) isTransaction()    {}
func (Chargeback) isTransaction() {}

func (Deposit) isDisputable() {}

func NewDeposit(client ClientID, tx TransactionID, amount Amount) Deposit {
	return Deposit{MonetaryRecord{TxRef{client, tx}, amount}}
}

func NewWithdrawal(client ClientID, tx TransactionID, amount Amount) Withdrawal {
	return Withdrawal{MonetaryRecord{TxRef{client, tx}, amount}}
}

func NewDispute(client ClientID, tx TransactionID) Dispute {
	return Dispute{TxRef{client, tx}}
}

func NewResolve(client ClientID, tx TransactionID) Resolve {
	return Resolve{TxRef{client, tx}}
}

func NewChargeback(client ClientID, tx TransactionID) Chargeback {
	return Chargeback{TxRef{client, tx}}
}
