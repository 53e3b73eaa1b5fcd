package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RadicalxChange/lanna-edges/internal/models"
)

func TestWebhookNotify(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	recipient := models.Account{Name: "Alice", Email: "alice@example.com"}
	tx := models.Transaction{Amount: 25, Message: "garden work"}
	tx.ID = 7

	require.NoError(t, w.Notify(context.Background(), recipient, tx))
	require.Equal(t, uint(7), got.TransactionID)
	require.Equal(t, int64(25), got.Amount)
	require.Equal(t, "alice@example.com", got.RecipientEmail)
}

func TestWebhookNotifyNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	err := w.Notify(context.Background(), models.Account{}, models.Transaction{})
	require.Error(t, err)
}
