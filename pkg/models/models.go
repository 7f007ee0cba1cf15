package models

import (
	"time"
)

// Role identifies which class of actor owns an account or performs an action.
type Role string

const (
	BUYER    Role = "BUYER"
	SELLER   Role = "SELLER"
	DRIVER   Role = "DRIVER"
	PLATFORM Role = "PLATFORM"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case BUYER, SELLER, DRIVER, PLATFORM:
		return true
	}
	return false
}

// Account represents the internal domain model for a user's wallet account.
// Balance is a materialized view of the account's ledger and is only changed by ledger writes.
type Account struct {
	AccountID string    `json:"account_id" dynamodbav:"account_id"`
	Role      Role      `json:"role" dynamodbav:"role"`
	Balance   int64     `json:"balance" dynamodbav:"balance"`
	Verified  bool      `json:"verified" dynamodbav:"verified"`
	Version   int64     `json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
	Name string
}
