package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RadicalxChange/lanna-edges/internal/httputil"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/middleware"
	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

// directoryEntry is the public shape of an account: enough for recipient
// lookup in the send form, no balances.
type directoryEntry struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsMember bool   `json:"is_member"`
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		logger.Log.Error("failed to fetch accounts", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch accounts")
		return
	}

	entries := make([]directoryEntry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, directoryEntry{
			ID:       a.ID,
			Name:     a.Name,
			Email:    a.Email,
			IsMember: a.IsMember,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.store.AccountByID(r.Context(), accountID)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		logger.Log.Error("failed to fetch account", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, struct {
		Balance       int64 `json:"balance"`
		ValueCreation int64 `json:"value_creation"`
	}{Balance: account.Balance, ValueCreation: account.ValueCreation})
}

type OnboardRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Onboard pre-provisions a member account with login credentials. This is the
// front door for members; non-members come into existence when someone sends
// them currency.
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	if _, err := h.store.AccountByEmail(r.Context(), req.Email); err == nil {
		httputil.WriteError(w, http.StatusConflict, "account already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Log.Error("onboarding lookup failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to onboard")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to onboard")
		return
	}

	var account models.Account
	err = h.store.Atomically(r.Context(), func(tx store.Store) error {
		account = models.Account{
			Name:     req.Name,
			Email:    req.Email,
			IsMember: true,
		}
		if err := tx.CreateAccount(r.Context(), &account); err != nil {
			return err
		}
		return tx.CreateUser(r.Context(), &models.User{
			Name:      req.Name,
			Email:     req.Email,
			Password:  string(hash),
			AccountID: account.ID,
		})
	})
	if err != nil {
		logger.Log.Error("onboarding failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to onboard")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}
