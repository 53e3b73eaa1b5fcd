package engine

import "errors"

// Error taxonomy for Execute. Concrete failures wrap one of these with %w so
// callers branch with errors.Is.
var (
	// ErrValidation: non-positive amount, malformed recipient contact, or a
	// self-transfer.
	ErrValidation = errors.New("invalid transaction")
	// ErrNotFound: the sender, or an explicitly referenced recipient, does
	// not resolve to an account.
	ErrNotFound = errors.New("account not found")
	// ErrInsufficientFunds: sender balance below the total debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrCommit: the store transaction failed; nothing was mutated.
	ErrCommit = errors.New("transaction commit failed")
)
