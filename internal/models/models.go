package models

import "gorm.io/gorm"

// User holds login credentials for a member. Credentials are kept out of the
// Account row so the ledger never depends on how callers authenticate.
type User struct {
	gorm.Model
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	Password  string `gorm:"size:255"`
	AccountID uint   `gorm:"index;not null"`
}

// Account is one row of the community ledger. Balance and ValueCreation are
// whole edges; both stay non-negative after every committed operation.
// At most one account has IsBank set.
type Account struct {
	gorm.Model
	Name          string `gorm:"size:100;not null"`
	Email         string `gorm:"uniqueIndex;size:255;not null"`
	Balance       int64  `gorm:"not null;default:0"`
	ValueCreation int64  `gorm:"not null;default:0"`
	IsMember      bool   `gorm:"not null;default:false"`
	IsBank        bool   `gorm:"not null;default:false"`
}

// Transaction is one settled transfer. Rows are append-only: never updated,
// never deleted. Amount is the pre-tax amount; the tax itself is not logged
// separately and can be reconstructed from IsTaxable.
type Transaction struct {
	gorm.Model
	Amount      int64  `gorm:"not null"`
	Message     string `gorm:"size:500"`
	SenderID    uint   `gorm:"index;not null"`
	RecipientID uint   `gorm:"index;not null"`
	IsTaxable   bool   `gorm:"not null;default:false"`
}

// RecipientRef names the recipient of a staged transfer: either an existing
// account by ID, or a (name, email) contact for which a new non-member
// account is provisioned on settlement.
type RecipientRef struct {
	AccountID uint
	Name      string
	Email     string
}

// ExistingAccount references an account already on the ledger.
func ExistingAccount(id uint) RecipientRef {
	return RecipientRef{AccountID: id}
}

// NewContact references a recipient with no account yet.
func NewContact(name, email string) RecipientRef {
	return RecipientRef{Name: name, Email: email}
}

// IsExisting reports whether the reference points at an existing account.
func (r RecipientRef) IsExisting() bool {
	return r.AccountID != 0
}

// StagedTransaction is a candidate transfer. It lives only for the duration
// of one engine invocation and is never persisted as-is.
type StagedTransaction struct {
	Amount    int64
	Message   string
	SenderID  uint
	Recipient RecipientRef
	IsTaxable bool
}
