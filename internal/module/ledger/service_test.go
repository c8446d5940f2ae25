package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRepository struct {
	accounts map[string]*Account
	debits   []Transaction
	credits  []Transaction
	debitErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{accounts: make(map[string]*Account)}
}

func (m *mockRepository) GetAccount(_ context.Context, uid string) (*Account, error) {
	account, ok := m.accounts[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return account, nil
}

func (m *mockRepository) Debit(_ context.Context, uid string, amount int64, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	if m.debitErr != nil {
		return nil, m.debitErr
	}
	account, ok := m.accounts[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	if account.Balance < amount {
		return nil, ErrInsufficientBalance
	}
	account.Balance -= amount
	entry := Transaction{
		UserID:          uid,
		TransactionType: TypeConsumption,
		CoinAmount:      -amount,
		BalanceBefore:   account.Balance + amount,
		BalanceAfter:    account.Balance,
		PaymentMethod:   MethodInternal,
		Description:     description,
		RelatedID:       relatedID,
		Metadata:        metadata,
	}
	m.debits = append(m.debits, entry)
	return &entry, nil
}

func (m *mockRepository) Credit(_ context.Context, uid string, amount int64, txType, method, description, relatedID string, metadata JSONMap) (*Transaction, error) {
	account, ok := m.accounts[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	account.Balance += amount
	entry := Transaction{
		UserID:          uid,
		TransactionType: txType,
		CoinAmount:      amount,
		BalanceBefore:   account.Balance - amount,
		BalanceAfter:    account.Balance,
		PaymentMethod:   method,
		Description:     description,
		RelatedID:       relatedID,
	}
	m.credits = append(m.credits, entry)
	return &entry, nil
}

func (m *mockRepository) ListTransactions(_ context.Context, uid string, limit, offset int) ([]Transaction, int64, error) {
	var entries []Transaction
	for _, t := range append(m.debits, m.credits...) {
		if t.UserID == uid {
			entries = append(entries, t)
		}
	}
	total := int64(len(entries))
	if offset >= len(entries) {
		return nil, total, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, total, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, zap.NewNop())
}

func TestGetBalance(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 120}
	svc := newTestService(repo)

	balance, err := svc.GetBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)
}

func TestGetBalanceUnknownUser(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.GetBalance(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetBalanceMissingUID(t *testing.T) {
	svc := newTestService(newMockRepository())

	_, err := svc.GetBalance(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestCheckSufficient(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 50}
	svc := newTestService(repo)

	ok, balance, err := svc.CheckSufficient(context.Background(), "user-1", 50)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(50), balance)

	ok, _, err = svc.CheckSufficient(context.Background(), "user-1", 51)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSufficientFreeAmount(t *testing.T) {
	svc := newTestService(newMockRepository())

	// Nothing to afford, so no account lookup happens: even an unknown
	// or missing uid passes.
	for _, amount := range []int64{0, -5} {
		ok, balance, err := svc.CheckSufficient(context.Background(), "nobody", amount)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, balance)

		ok, _, err = svc.CheckSufficient(context.Background(), "", amount)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestDebit(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 100}
	svc := newTestService(repo)

	entry, err := svc.Debit(context.Background(), "user-1", 30, "image edit", "task-1", JSONMap{"task_type": "image_to_image"})
	require.NoError(t, err)
	assert.Equal(t, int64(-30), entry.CoinAmount)
	assert.Equal(t, int64(100), entry.BalanceBefore)
	assert.Equal(t, int64(70), entry.BalanceAfter)
	assert.Equal(t, entry.BalanceBefore+entry.CoinAmount, entry.BalanceAfter)
	assert.Equal(t, TypeConsumption, entry.TransactionType)
}

func TestDebitInsufficient(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 10}
	svc := newTestService(repo)

	_, err := svc.Debit(context.Background(), "user-1", 30, "image edit", "task-1", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(10), repo.accounts["user-1"].Balance)
}

func TestCreditPicksMethod(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 0}
	svc := newTestService(repo)

	entry, err := svc.Credit(context.Background(), "user-1", 100, TypeBonus, "signup bonus", "", nil)
	require.NoError(t, err)
	assert.Equal(t, MethodManual, entry.PaymentMethod)

	entry, err = svc.Credit(context.Background(), "user-1", 20, TypeRefund, "refund", "task-9", nil)
	require.NoError(t, err)
	assert.Equal(t, MethodInternal, entry.PaymentMethod)
	assert.Equal(t, int64(120), entry.BalanceAfter)
}

func TestListTransactionsClampsLimit(t *testing.T) {
	repo := newMockRepository()
	repo.accounts["user-1"] = &Account{UID: "user-1", Balance: 1000}
	svc := newTestService(repo)

	for i := 0; i < 30; i++ {
		_, err := svc.Debit(context.Background(), "user-1", 1, "tick", "", nil)
		require.NoError(t, err)
	}

	entries, total, err := svc.ListTransactions(context.Background(), "user-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
	assert.Len(t, entries, 20)
}
