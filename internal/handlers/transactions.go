package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/engine"
	"github.com/RadicalxChange/lanna-edges/internal/httputil"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/middleware"
	"github.com/RadicalxChange/lanna-edges/internal/models"
)

type transactionResponse struct {
	ID          uint      `json:"id"`
	Amount      int64     `json:"amount"`
	Message     string    `json:"message"`
	SenderID    uint      `json:"sender_id"`
	RecipientID uint      `json:"recipient_id"`
	IsTaxable   bool      `json:"is_taxable"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Amount:      t.Amount,
		Message:     t.Message,
		SenderID:    t.SenderID,
		RecipientID: t.RecipientID,
		IsTaxable:   t.IsTaxable,
		CreatedAt:   t.CreatedAt,
	}
}

// ListTransactions returns the log, newest first. Members see everything;
// non-members only see transfers they sent or received.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.store.AccountByID(r.Context(), accountID)
	if err != nil {
		logger.Log.Error("failed to fetch account", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	transactions, err := h.store.ListTransactions(r.Context())
	if err != nil {
		logger.Log.Error("failed to fetch transactions", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch transactions")
		return
	}

	visible := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		if !account.IsMember && t.SenderID != accountID && t.RecipientID != accountID {
			continue
		}
		visible = append(visible, toTransactionResponse(t))
	}
	httputil.WriteJSON(w, http.StatusOK, visible)
}

type TransferRequest struct {
	RecipientID    uint   `json:"recipient_id,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty"`
	Amount         int64  `json:"amount"`
	Message        string `json:"message"`
	IsTaxable      bool   `json:"is_taxable"`
}

type TransferResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Recipient   accountResponse     `json:"recipient"`
	Provisioned bool                `json:"provisioned"`
}

// Transfer is the only write path for balances: it stages the request for
// the engine and maps the engine's error taxonomy onto status codes.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var recipient models.RecipientRef
	if req.RecipientID != 0 {
		recipient = models.ExistingAccount(req.RecipientID)
	} else {
		recipient = models.NewContact(req.RecipientName, req.RecipientEmail)
	}

	res, err := h.engine.Execute(r.Context(), models.StagedTransaction{
		Amount:    req.Amount,
		Message:   req.Message,
		SenderID:  accountID,
		Recipient: recipient,
		IsTaxable: req.IsTaxable,
	})
	switch {
	case errors.Is(err, engine.ErrValidation):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, engine.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, engine.ErrInsufficientFunds):
		httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logger.Log.Error("transfer failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "transfer failed")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, TransferResponse{
		Transaction: toTransactionResponse(res.Transaction),
		Recipient:   toAccountResponse(res.Recipient),
		Provisioned: res.Provisioned,
	})
}
