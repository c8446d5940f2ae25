package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository defines ledger data access.
type Repository interface {
	GetAccount(ctx context.Context, uid string) (*Account, error)
	Debit(ctx context.Context, uid string, amount int64, description, relatedID string, metadata JSONMap) (*Transaction, error)
	Credit(ctx context.Context, uid string, amount int64, txType, method, description, relatedID string, metadata JSONMap) (*Transaction, error)
	ListTransactions(ctx context.Context, uid string, limit, offset int) ([]Transaction, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed ledger repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetAccount(ctx context.Context, uid string) (*Account, error) {
	var account Account
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

// Debit atomically decrements the balance and appends the ledger entry
// in one transaction. The conditional update makes concurrent debits of
// the same account serialize at the row: the losing writer matches no
// row and the balance can never go negative.
func (r *gormRepository) Debit(ctx context.Context, uid string, amount int64, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Account{}).
			Where("uid = ? AND balance >= ?", uid, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("decrement balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&Account{}).Where("uid = ?", uid).Count(&n).Error; err != nil {
				return fmt.Errorf("check account: %w", err)
			}
			if n == 0 {
				return ErrUserNotFound
			}
			return ErrInsufficientBalance
		}

		var account Account
		if err := tx.Where("uid = ?", uid).First(&account).Error; err != nil {
			return fmt.Errorf("reload account: %w", err)
		}

		now := time.Now()
		entry = &Transaction{
			UserID:          uid,
			TransactionType: TypeConsumption,
			Status:          "completed",
			CoinAmount:      -amount,
			BalanceBefore:   account.Balance + amount,
			BalanceAfter:    account.Balance,
			PaymentMethod:   MethodInternal,
			Description:     description,
			RelatedID:       relatedID,
			Metadata:        metadata,
			CompletedAt:     &now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *gormRepository) Credit(ctx context.Context, uid string, amount int64, txType, method, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var entry *Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Account{}).
			Where("uid = ?", uid).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return fmt.Errorf("increment balance: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		var account Account
		if err := tx.Where("uid = ?", uid).First(&account).Error; err != nil {
			return fmt.Errorf("reload account: %w", err)
		}

		now := time.Now()
		entry = &Transaction{
			UserID:          uid,
			TransactionType: txType,
			Status:          "completed",
			CoinAmount:      amount,
			BalanceBefore:   account.Balance - amount,
			BalanceAfter:    account.Balance,
			PaymentMethod:   method,
			Description:     description,
			RelatedID:       relatedID,
			Metadata:        metadata,
			CompletedAt:     &now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *gormRepository) ListTransactions(ctx context.Context, uid string, limit, offset int) ([]Transaction, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", uid)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var entries []Transaction
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return entries, total, nil
}
