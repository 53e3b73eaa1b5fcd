// Package engine settles transfers on the community ledger. Execute is the
// only mutation path for balances: it validates the staged transfer, resolves
// or provisions the recipient, recomputes the recipient's value-creation
// score, routes tax to the bank account and appends the transaction record,
// all inside one serializable store transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/metrics"
	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/notify"
	"github.com/RadicalxChange/lanna-edges/internal/scoring"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

const notifyTimeout = 10 * time.Second

type Engine struct {
	store    store.Store
	notifier notify.Notifier
}

func New(st store.Store, notifier notify.Notifier) *Engine {
	return &Engine{store: st, notifier: notifier}
}

// Result is the outcome of one settled transfer. Provisioned marks the
// currency-minting path: the recipient account was created by this transfer,
// seeded with the full amount as balance and round(sqrt(amount)) as score.
type Result struct {
	Transaction models.Transaction
	Recipient   models.Account
	Provisioned bool
}

// Execute settles one staged transfer. On success the returned transaction is
// already durable and the recipient notification has been handed off; the
// notification itself is best-effort and its failure is only logged.
func (e *Engine) Execute(ctx context.Context, staged models.StagedTransaction) (Result, error) {
	if staged.Amount <= 0 {
		return Result{}, fmt.Errorf("%w: amount must be positive, got %d", ErrValidation, staged.Amount)
	}
	if !staged.Recipient.IsExisting() && (staged.Recipient.Name == "" || staged.Recipient.Email == "") {
		return Result{}, fmt.Errorf("%w: new recipients need both name and email", ErrValidation)
	}
	if staged.Recipient.IsExisting() && staged.Recipient.AccountID == staged.SenderID {
		return Result{}, fmt.Errorf("%w: cannot transfer to yourself", ErrValidation)
	}

	debit := staged.Amount
	if staged.IsTaxable {
		// A taxable transfer routes an equal amount to the bank, doubling
		// the sender's debit.
		debit *= 2
	}

	var res Result
	err := e.store.Atomically(ctx, func(tx store.Store) error {
		sender, err := tx.AccountByID(ctx, staged.SenderID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: sender %d", ErrNotFound, staged.SenderID)
		}
		if err != nil {
			return err
		}
		// Funds check before any row is touched.
		if sender.Balance < debit {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, debit, sender.Balance)
		}

		if staged.Recipient.IsExisting() {
			recipient, err := tx.AccountByID(ctx, staged.Recipient.AccountID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: recipient %d", ErrNotFound, staged.Recipient.AccountID)
			}
			if err != nil {
				return err
			}

			history, err := tx.ReceivedBy(ctx, recipient.ID)
			if err != nil {
				return err
			}
			receipts := make([]scoring.Receipt, 0, len(history))
			for _, t := range history {
				receipts = append(receipts, scoring.Receipt{SenderID: t.SenderID, Amount: t.Amount})
			}

			recipient.Balance += staged.Amount
			// Absolute set, not an increment: the score is recomputed from
			// the full received history plus this transfer.
			recipient.ValueCreation = scoring.Score(receipts, scoring.Receipt{
				SenderID: sender.ID,
				Amount:   staged.Amount,
			})
			if err := tx.SaveAccount(ctx, &recipient); err != nil {
				return err
			}
			res.Recipient = recipient
		} else {
			recipient := models.Account{
				Name:          staged.Recipient.Name,
				Email:         staged.Recipient.Email,
				Balance:       staged.Amount,
				ValueCreation: scoring.Seed(staged.Amount),
				IsMember:      false,
			}
			if err := tx.CreateAccount(ctx, &recipient); err != nil {
				return err
			}
			res.Recipient = recipient
			res.Provisioned = true
		}

		if staged.IsTaxable {
			bank, ok, err := tx.BankAccount(ctx)
			if err != nil {
				return err
			}
			switch {
			case ok:
				bank.Balance += staged.Amount
				if err := tx.SaveAccount(ctx, &bank); err != nil {
					return err
				}
			default:
				// No bank configured: taxation is skipped, the transfer
				// still settles and the sender is still debited double.
			}
		}

		// Re-fetch the sender: the bank credit above may have touched the
		// same row when the bank itself is sending.
		sender, err = tx.AccountByID(ctx, staged.SenderID)
		if err != nil {
			return err
		}
		if sender.Balance < debit {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, debit, sender.Balance)
		}
		sender.Balance -= debit
		if err := tx.SaveAccount(ctx, &sender); err != nil {
			return err
		}

		record := models.Transaction{
			Amount:      staged.Amount,
			Message:     staged.Message,
			SenderID:    sender.ID,
			RecipientID: res.Recipient.ID,
			IsTaxable:   staged.IsTaxable,
		}
		if err := tx.CreateTransaction(ctx, &record); err != nil {
			return err
		}
		res.Transaction = record
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInsufficientFunds) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", ErrCommit, err)
	}

	metrics.TransfersTotal.WithLabelValues(strconv.FormatBool(staged.IsTaxable)).Inc()
	metrics.TransferredAmount.Add(float64(staged.Amount))
	if res.Provisioned {
		metrics.ProvisionedAccounts.Inc()
	}

	if e.notifier != nil {
		// Outside the transactional boundary: never blocks the response,
		// never rolls anything back.
		go func(recipient models.Account, record models.Transaction) {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := e.notifier.Notify(nctx, recipient, record); err != nil {
				logger.Log.Warn("recipient notification failed",
					zap.Uint("transaction_id", record.ID),
					zap.Error(err),
				)
			}
		}(res.Recipient, res.Transaction)
	}

	return res, nil
}
