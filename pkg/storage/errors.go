package storage

import "errors"

// ErrInsufficientFunds is returned when an account has an insufficient balance for a debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInsufficientStock is returned when a product does not have enough stock left.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrNotFound is returned when an account, order or product does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose id is already taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict is returned when a concurrent writer modified the same record first.
var ErrConflict = errors.New("concurrent modification")
