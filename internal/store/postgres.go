package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
	"github.com/RadicalxChange/lanna-edges/internal/models"
)

// Postgres implements Store on a gorm connection. The handle is injected,
// never held in a package global, so each caller decides its own scope.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: false,
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("connected to the database")
	return &Postgres{db: db}, nil
}

func (s *Postgres) Migrate() error {
	if err := s.db.AutoMigrate(&models.Account{}, &models.User{}, &models.Transaction{}); err != nil {
		return err
	}
	logger.Log.Info("migrations loaded")
	return nil
}

func (s *Postgres) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Atomically wraps fn in one serializable database transaction. The scorer
// reads the full received history before writing the new score, so anything
// weaker risks a lost update between concurrent transfers to one recipient.
func (s *Postgres) Atomically(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Postgres{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func (s *Postgres) AccountByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return models.Account{}, translate(err)
	}
	return account, nil
}

func (s *Postgres) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return models.Account{}, translate(err)
	}
	return account, nil
}

func (s *Postgres) BankAccount(ctx context.Context) (models.Account, bool, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("is_bank = ?", true).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, false, nil
	}
	if err != nil {
		return models.Account{}, false, err
	}
	return account, true, nil
}

func (s *Postgres) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s *Postgres) SaveAccount(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Save(account).Error
}

func (s *Postgres) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Postgres) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

func (s *Postgres) ReceivedBy(ctx context.Context, recipientID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Postgres) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, translate(err)
	}
	return user, nil
}

func (s *Postgres) DepreciateScores(ctx context.Context, factor decimal.Decimal) (int64, error) {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE accounts SET value_creation = FLOOR(value_creation * ?::numeric), updated_at = NOW() WHERE deleted_at IS NULL`,
		factor,
	)
	return res.RowsAffected, res.Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
