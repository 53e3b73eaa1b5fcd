package seed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

const (
	seedPassword    = "password123"
	bankName        = "Community Bank"
	bankEmail       = "bank@edges.local"
	startingBalance = 500
)

var testMembers = []struct {
	Name  string
	Email string
}{
	{"Test Member 1", "member1@test.com"},
	{"Test Member 2", "member2@test.com"},
	{"Test Member 3", "member3@test.com"},
}

// Run creates the bank account and a few demo members. The opening balances
// are minted here, outside the engine, so the transfer path stays closed.
func Run(ctx context.Context, st store.Store) error {
	if _, ok, err := st.BankAccount(ctx); err != nil {
		return err
	} else if ok {
		logger.Log.Info("seed already applied, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)

	err = st.Atomically(ctx, func(tx store.Store) error {
		bank := models.Account{Name: bankName, Email: bankEmail, IsBank: true}
		if err := tx.CreateAccount(ctx, &bank); err != nil {
			return err
		}

		for _, m := range testMembers {
			account := models.Account{
				Name:     m.Name,
				Email:    m.Email,
				Balance:  startingBalance,
				IsMember: true,
			}
			if err := tx.CreateAccount(ctx, &account); err != nil {
				return err
			}
			user := models.User{
				Name:      m.Name,
				Email:     m.Email,
				Password:  hashed,
				AccountID: account.ID,
			}
			if err := tx.CreateUser(ctx, &user); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Log.Info("seeded bank and test members",
		zap.Int("members", len(testMembers)),
		zap.String("password", seedPassword),
	)
	return nil
}
