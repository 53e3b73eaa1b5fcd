package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/RadicalxChange/lanna-edges/internal/models"
	"github.com/RadicalxChange/lanna-edges/internal/scoring"
)

// Memory is a thread-safe in-memory Store used by tests. Atomically takes a
// snapshot of all state and swaps it in only when fn succeeds, which gives
// the same all-or-nothing semantics as the database transaction.
type Memory struct {
	mu   sync.Mutex
	inTx bool
	data *memData
}

type memData struct {
	nextAccountID     uint
	nextTransactionID uint
	nextUserID        uint
	accounts          map[uint]models.Account
	transactions      []models.Transaction
	users             map[uint]models.User
}

func NewMemory() *Memory {
	return &Memory{data: &memData{
		nextAccountID:     1,
		nextTransactionID: 1,
		nextUserID:        1,
		accounts:          make(map[uint]models.Account),
		users:             make(map[uint]models.User),
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		nextAccountID:     d.nextAccountID,
		nextTransactionID: d.nextTransactionID,
		nextUserID:        d.nextUserID,
		accounts:          make(map[uint]models.Account, len(d.accounts)),
		transactions:      make([]models.Transaction, len(d.transactions)),
		users:             make(map[uint]models.User, len(d.users)),
	}
	for id, a := range d.accounts {
		c.accounts[id] = a
	}
	copy(c.transactions, d.transactions)
	for id, u := range d.users {
		c.users[id] = u
	}
	return c
}

func (m *Memory) lock() {
	if !m.inTx {
		m.mu.Lock()
	}
}

func (m *Memory) unlock() {
	if !m.inTx {
		m.mu.Unlock()
	}
}

func (m *Memory) Atomically(_ context.Context, fn func(tx Store) error) error {
	if m.inTx {
		// Nested scopes join the outer transaction.
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	view := &Memory{inTx: true, data: m.data.clone()}
	if err := fn(view); err != nil {
		return err
	}
	m.data = view.data
	return nil
}

func (m *Memory) AccountByID(_ context.Context, id uint) (models.Account, error) {
	m.lock()
	defer m.unlock()
	account, ok := m.data.accounts[id]
	if !ok {
		return models.Account{}, ErrNotFound
	}
	return account, nil
}

func (m *Memory) AccountByEmail(_ context.Context, email string) (models.Account, error) {
	m.lock()
	defer m.unlock()
	for _, account := range m.data.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, ErrNotFound
}

func (m *Memory) BankAccount(_ context.Context) (models.Account, bool, error) {
	m.lock()
	defer m.unlock()
	for _, account := range m.data.accounts {
		if account.IsBank {
			return account, true, nil
		}
	}
	return models.Account{}, false, nil
}

func (m *Memory) CreateAccount(_ context.Context, account *models.Account) error {
	m.lock()
	defer m.unlock()
	for _, existing := range m.data.accounts {
		if existing.Email == account.Email {
			return fmt.Errorf("account email %q already exists", account.Email)
		}
	}
	account.ID = m.data.nextAccountID
	m.data.nextAccountID++
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	m.data.accounts[account.ID] = *account
	return nil
}

func (m *Memory) SaveAccount(_ context.Context, account *models.Account) error {
	m.lock()
	defer m.unlock()
	if _, ok := m.data.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	account.UpdatedAt = time.Now().UTC()
	m.data.accounts[account.ID] = *account
	return nil
}

func (m *Memory) ListAccounts(_ context.Context) ([]models.Account, error) {
	m.lock()
	defer m.unlock()
	accounts := make([]models.Account, 0, len(m.data.accounts))
	for _, account := range m.data.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *Memory) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	m.lock()
	defer m.unlock()
	tx.ID = m.data.nextTransactionID
	m.data.nextTransactionID++
	tx.CreatedAt = time.Now().UTC()
	tx.UpdatedAt = tx.CreatedAt
	m.data.transactions = append(m.data.transactions, *tx)
	return nil
}

func (m *Memory) ReceivedBy(_ context.Context, recipientID uint) ([]models.Transaction, error) {
	m.lock()
	defer m.unlock()
	var received []models.Transaction
	for _, tx := range m.data.transactions {
		if tx.RecipientID == recipientID {
			received = append(received, tx)
		}
	}
	return received, nil
}

func (m *Memory) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	m.lock()
	defer m.unlock()
	transactions := make([]models.Transaction, len(m.data.transactions))
	copy(transactions, m.data.transactions)
	// Newest first, matching the Postgres ordering.
	sort.SliceStable(transactions, func(i, j int) bool { return transactions[i].ID > transactions[j].ID })
	return transactions, nil
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.lock()
	defer m.unlock()
	for _, existing := range m.data.users {
		if existing.Email == user.Email {
			return fmt.Errorf("user email %q already exists", user.Email)
		}
	}
	user.ID = m.data.nextUserID
	m.data.nextUserID++
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.data.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.lock()
	defer m.unlock()
	for _, user := range m.data.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) DepreciateScores(_ context.Context, factor decimal.Decimal) (int64, error) {
	m.lock()
	defer m.unlock()
	var count int64
	for id, account := range m.data.accounts {
		account.ValueCreation = scoring.Depreciate(account.ValueCreation, factor)
		account.UpdatedAt = time.Now().UTC()
		m.data.accounts[id] = account
		count++
	}
	return count, nil
}
