package models

import "time"

// TransactionKind classifies a ledger entry. The kind determines the sign of the entry.
type TransactionKind string

const (
	TOPUP    TransactionKind = "TOPUP"
	PAYMENT  TransactionKind = "PAYMENT"
	INCOME   TransactionKind = "INCOME"
	WITHDRAW TransactionKind = "WITHDRAW"
	TRANSFER TransactionKind = "TRANSFER"
)

// IsCredit reports whether entries of this kind increase the balance.
func (k TransactionKind) IsCredit() bool {
	return k == TOPUP || k == INCOME
}

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case TOPUP, PAYMENT, INCOME, WITHDRAW, TRANSFER:
		return true
	}
	return false
}

// Posting is an intended ledger movement that has not been written yet.
type Posting struct {
	AccountID   string
	Kind        TransactionKind
	Amount      int64
	Description string
	Reference   string
}

// Transaction is an immutable ledger entry. Amount is always positive.
type Transaction struct {
	Id          string          `json:"id" dynamodbav:"id"`
	AccountID   string          `json:"account_id" dynamodbav:"account_id"`
	Kind        TransactionKind `json:"kind" dynamodbav:"kind"`
	Amount      int64           `json:"amount" dynamodbav:"amount"`
	Description string          `json:"description" dynamodbav:"description"`
	Reference   string          `json:"reference,omitempty" dynamodbav:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at" dynamodbav:"created_at"`
}

// Signed returns the amount with the sign implied by the entry kind.
func (t Transaction) Signed() int64 {
	if t.Kind.IsCredit() {
		return t.Amount
	}
	return -t.Amount
}
