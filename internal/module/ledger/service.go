package ledger

import (
	"context"

	"go.uber.org/zap"
)

// Service exposes balance and ledger operations.
type Service interface {
	// GetBalance returns the current balance for uid.
	GetBalance(ctx context.Context, uid string) (int64, error)

	// CheckSufficient reports whether uid can afford amount. The answer
	// is advisory; Debit re-checks atomically.
	CheckSufficient(ctx context.Context, uid string, amount int64) (ok bool, balance int64, err error)

	// Debit charges amount coins and appends a consumption entry.
	Debit(ctx context.Context, uid string, amount int64, description, relatedID string, metadata JSONMap) (*Transaction, error)

	// Credit adds amount coins and appends a ledger entry.
	Credit(ctx context.Context, uid string, amount int64, txType, description, relatedID string, metadata JSONMap) (*Transaction, error)

	// ListTransactions returns a page of ledger entries, newest first.
	ListTransactions(ctx context.Context, uid string, limit, offset int) ([]Transaction, int64, error)
}

type service struct {
	repo  Repository
	cache *BalanceCache
	log   *zap.Logger
}

// NewService creates the ledger service. cache may be nil.
func NewService(repo Repository, cache *BalanceCache, log *zap.Logger) Service {
	return &service{repo: repo, cache: cache, log: log}
}

func (s *service) GetBalance(ctx context.Context, uid string) (int64, error) {
	if uid == "" {
		return 0, ErrMissingUserID
	}
	if balance, found := s.cache.Get(ctx, uid); found {
		return balance, nil
	}
	account, err := s.repo.GetAccount(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.cache.Set(ctx, uid, account.Balance)
	return account.Balance, nil
}

func (s *service) CheckSufficient(ctx context.Context, uid string, amount int64) (bool, int64, error) {
	// Free amounts need no balance at all, not even a lookup.
	if amount <= 0 {
		return true, 0, nil
	}
	balance, err := s.GetBalance(ctx, uid)
	if err != nil {
		return false, 0, err
	}
	return balance >= amount, balance, nil
}

func (s *service) Debit(ctx context.Context, uid string, amount int64, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	if uid == "" {
		return nil, ErrMissingUserID
	}
	entry, err := s.repo.Debit(ctx, uid, amount, description, relatedID, metadata)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, uid)
	s.log.Info("balance debited",
		zap.String("uid", uid),
		zap.Int64("amount", amount),
		zap.Int64("balance_after", entry.BalanceAfter),
		zap.String("related_id", relatedID),
	)
	return entry, nil
}

func (s *service) Credit(ctx context.Context, uid string, amount int64, txType, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	if uid == "" {
		return nil, ErrMissingUserID
	}
	method := MethodInternal
	if txType == TypeBonus || txType == TypePurchase {
		method = MethodManual
	}
	entry, err := s.repo.Credit(ctx, uid, amount, txType, method, description, relatedID, metadata)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, uid)
	s.log.Info("balance credited",
		zap.String("uid", uid),
		zap.Int64("amount", amount),
		zap.String("type", txType),
		zap.Int64("balance_after", entry.BalanceAfter),
	)
	return entry, nil
}

func (s *service) ListTransactions(ctx context.Context, uid string, limit, offset int) ([]Transaction, int64, error) {
	if uid == "" {
		return nil, 0, ErrMissingUserID
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListTransactions(ctx, uid, limit, offset)
}
