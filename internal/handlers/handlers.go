package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RadicalxChange/lanna-edges/configs"
	"github.com/RadicalxChange/lanna-edges/internal/decay"
	"github.com/RadicalxChange/lanna-edges/internal/engine"
	"github.com/RadicalxChange/lanna-edges/internal/httputil"
	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/middleware"
	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

type Handler struct {
	store  store.Store
	engine *engine.Engine
	decay  *decay.Service
}

func New(st store.Store, eng *engine.Engine, decaySvc *decay.Service) *Handler {
	return &Handler{store: st, engine: eng, decay: decaySvc}
}

type accountResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Balance       int64  `json:"balance"`
	ValueCreation int64  `json:"value_creation"`
	IsMember      bool   `json:"is_member"`
	IsBank        bool   `json:"is_bank"`
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		Balance:       a.Balance,
		ValueCreation: a.ValueCreation,
		IsMember:      a.IsMember,
		IsBank:        a.IsBank,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	claims := jwt.MapClaims{
		"sub":   user.AccountID,
		"email": user.Email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.AppConfig.JWT.Secret))
	if err != nil {
		logger.Log.Error("failed to sign jwt", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
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

	httputil.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}
