package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RadicalxChange/lanna-edges/configs"
	"github.com/RadicalxChange/lanna-edges/internal/decay"
	"github.com/RadicalxChange/lanna-edges/internal/engine"
	"github.com/RadicalxChange/lanna-edges/internal/handlers"
	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/routes"
	"github.com/RadicalxChange/lanna-edges/internal/store"
)

type testApp struct {
	store  *store.Memory
	router http.Handler
	member models.Account
	other  models.Account
	bank   models.Account
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	configs.AppConfig.JWT.Secret = "test-jwt-secret"
	configs.AppConfig.Decay.Secret = "test-decay-secret"

	ctx := context.Background()
	m := store.NewMemory()
	app := &testApp{store: m}

	app.bank = models.Account{Name: "Bank", Email: "bank@edges.local", IsBank: true}
	require.NoError(t, m.CreateAccount(ctx, &app.bank))

	app.member = models.Account{Name: "Member", Email: "member@test.com", Balance: 1000, IsMember: true}
	require.NoError(t, m.CreateAccount(ctx, &app.member))

	app.other = models.Account{Name: "Other", Email: "other@test.com", Balance: 200}
	require.NoError(t, m.CreateAccount(ctx, &app.other))

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, m.CreateUser(ctx, &models.User{
		Name:      "Member",
		Email:     "member@test.com",
		Password:  string(hash),
		AccountID: app.member.ID,
	}))

	eng := engine.New(m, nil)
	decaySvc, err := decay.New(m, 0.95)
	require.NoError(t, err)

	app.router = routes.NewRoutes(handlers.New(m, eng, decaySvc))
	return app
}

func (app *testApp) token(t *testing.T, accountID uint) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": accountID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(configs.AppConfig.JWT.Secret))
	require.NoError(t, err)
	return signed
}

func (app *testApp) do(t *testing.T, method, path string, accountID uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if accountID != 0 {
		req.Header.Set("Authorization", "Bearer "+app.token(t, accountID))
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/login", 0, handlers.LoginRequest{
		Email:    "member@test.com",
		Password: "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)

	rec = app.do(t, http.MethodPost, "/auth/login", 0, handlers.LoginRequest{
		Email:    "member@test.com",
		Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransferRequiresAuth(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/transactions/transfer", 0, handlers.TransferRequest{
		RecipientID: app.other.ID,
		Amount:      10,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransferHappyPath(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientID: app.other.ID,
		Amount:      100,
		Message:     "thanks",
		IsTaxable:   true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.TransferResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Provisioned)
	require.Equal(t, int64(100), resp.Transaction.Amount)

	ctx := context.Background()
	sender, _ := app.store.AccountByID(ctx, app.member.ID)
	recipient, _ := app.store.AccountByID(ctx, app.other.ID)
	bank, _ := app.store.AccountByID(ctx, app.bank.ID)
	require.Equal(t, int64(800), sender.Balance)
	require.Equal(t, int64(300), recipient.Balance)
	require.Equal(t, int64(100), bank.Balance)
}

func TestTransferProvisionsNewRecipient(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientName:  "Newcomer",
		RecipientEmail: "newcomer@test.com",
		Amount:         81,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handlers.TransferResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Provisioned)
	require.Equal(t, int64(81), resp.Recipient.Balance)
	require.Equal(t, int64(9), resp.Recipient.ValueCreation)
	require.False(t, resp.Recipient.IsMember)
}

func TestTransferErrorMapping(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientID: app.other.ID,
		Amount:      0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientID: 9999,
		Amount:      10,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientID: app.other.ID,
		Amount:      5000,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListTransactionsVisibility(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	third := models.Account{Name: "Third", Email: "third@test.com", Balance: 100}
	require.NoError(t, app.store.CreateAccount(ctx, &third))

	// member -> other, and other -> third (the latter invisible to non-members
	// who are not involved).
	rec := app.do(t, http.MethodPost, "/transactions/transfer", app.member.ID, handlers.TransferRequest{
		RecipientID: app.other.ID, Amount: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = app.do(t, http.MethodPost, "/transactions/transfer", app.other.ID, handlers.TransferRequest{
		RecipientID: third.ID, Amount: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var forMember []map[string]any
	rec = app.do(t, http.MethodGet, "/transactions", app.member.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&forMember))
	require.Len(t, forMember, 2, "members see every transaction")

	var forThird []map[string]any
	rec = app.do(t, http.MethodGet, "/transactions", third.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&forThird))
	require.Len(t, forThird, 1, "non-members only see their own transfers")
}

func TestDepreciateEndpoint(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	scored := models.Account{Name: "Scored", Email: "scored@test.com", ValueCreation: 100}
	require.NoError(t, app.store.CreateAccount(ctx, &scored))

	rec := app.do(t, http.MethodGet, "/admin/depreciate?secret=wrong", 0, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodGet, "/admin/depreciate?secret=test-decay-secret", 0, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, int64(4), resp.Updated)

	got, _ := app.store.AccountByID(ctx, scored.ID)
	require.Equal(t, int64(95), got.ValueCreation)
}

func TestOnboard(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/onboard", 0, handlers.OnboardRequest{
		Name:     "Fresh Member",
		Email:    "fresh@test.com",
		Password: "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID       uint `json:"id"`
		IsMember bool `json:"is_member"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.True(t, created.IsMember)

	// Duplicate email conflicts.
	rec = app.do(t, http.MethodPost, "/onboard", 0, handlers.OnboardRequest{
		Name:     "Fresh Again",
		Email:    "fresh@test.com",
		Password: "secret",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// The new member can log in.
	rec = app.do(t, http.MethodPost, "/auth/login", 0, handlers.LoginRequest{
		Email:    "fresh@test.com",
		Password: "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/auth/me", app.member.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Email   string `json:"email"`
		Balance int64  `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "member@test.com", resp.Email)
	require.Equal(t, int64(1000), resp.Balance)
}
