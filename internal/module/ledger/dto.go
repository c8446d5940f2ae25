package ledger

import "time"

// BalanceResponse is the payload for the balance endpoint.
type BalanceResponse struct {
	UID     string `json:"uid"`
	Balance int64  `json:"balance"`
}

// TransactionItem is one entry in a transaction listing.
type TransactionItem struct {
	ID              string     `json:"id"`
	TransactionType string     `json:"transactionType"`
	Status          string     `json:"status"`
	CoinAmount      int64      `json:"coinAmount"`
	BalanceBefore   int64      `json:"balanceBefore"`
	BalanceAfter    int64      `json:"balanceAfter"`
	Description     string     `json:"description"`
	RelatedID       string     `json:"relatedId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// TransactionListResponse is the payload for the transaction listing.
type TransactionListResponse struct {
	Items   []TransactionItem `json:"items"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"hasMore"`
}

// CreditRequest is the admin payload for a manual credit.
type CreditRequest struct {
	UID         string `json:"uid" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	RelatedID   string `json:"relatedId"`
}

func toTransactionItem(t Transaction) TransactionItem {
	return TransactionItem{
		ID:              t.ID.String(),
		TransactionType: t.TransactionType,
		Status:          t.Status,
		CoinAmount:      t.CoinAmount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		Description:     t.Description,
		RelatedID:       t.RelatedID,
		CreatedAt:       t.CreatedAt,
		CompletedAt:     t.CompletedAt,
	}
}
