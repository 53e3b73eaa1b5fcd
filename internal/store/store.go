// Package store owns durable state: the account table, the append-only
// transaction log and user credentials. The ledger engine only ever talks to
// the Store interface; the Postgres implementation backs the server, the
// Memory implementation backs tests.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/RadicalxChange/lanna-edges/internal/models"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

type Store interface {
	// Atomically runs fn against a transactional view of the store. All
	// writes made through the view commit together or not at all, under
	// serializable isolation. fn returning an error rolls everything back.
	Atomically(ctx context.Context, fn func(tx Store) error) error

	AccountByID(ctx context.Context, id uint) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	// BankAccount returns the single is_bank account, or ok=false when the
	// community has no bank configured.
	BankAccount(ctx context.Context) (models.Account, bool, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	SaveAccount(ctx context.Context, account *models.Account) error
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// CreateTransaction appends one settled transfer to the log.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	// ReceivedBy returns every transaction the account has ever received,
	// from all senders.
	ReceivedBy(ctx context.Context, recipientID uint) ([]models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	CreateUser(ctx context.Context, user *models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)

	// DepreciateScores sets value_creation = floor(value_creation * factor)
	// on every account and returns the number of rows affected.
	DepreciateScores(ctx context.Context, factor decimal.Decimal) (int64, error)
}
