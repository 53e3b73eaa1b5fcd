// Package notify delivers best-effort notifications to recipients of settled
// transfers. Delivery happens after the database commit; a failed delivery is
// logged and dropped, it never fails the transfer.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, recipient models.Account, tx models.Transaction) error
}

type payload struct {
	TransactionID  uint   `json:"transaction_id"`
	Amount         int64  `json:"amount"`
	Message        string `json:"message"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
}

// Webhook POSTs the settled transfer to a configured endpoint (typically a
// mail relay).
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *Webhook) Notify(ctx context.Context, recipient models.Account, tx models.Transaction) error {
	body, err := json.Marshal(payload{
		TransactionID:  tx.ID,
		Amount:         tx.Amount,
		Message:        tx.Message,
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Log is the fallback notifier when no webhook URL is configured.
type Log struct{}

func (Log) Notify(_ context.Context, recipient models.Account, tx models.Transaction) error {
	logger.Log.Info("transaction settled",
		zap.Uint("transaction_id", tx.ID),
		zap.Int64("amount", tx.Amount),
		zap.String("recipient", recipient.Email),
	)
	return nil
}
