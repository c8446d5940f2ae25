package ledger

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transaction types.
const (
	TypeConsumption = "consumption"
	TypePurchase    = "purchase"
	TypeRefund      = "refund"
	TypeBonus       = "bonus"
)

// Payment methods.
const (
	MethodInternal = "internal"
	MethodManual   = "manual"
)

// Account is a user's coin balance row. UID is the external user
// identifier supplied by clients.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UID       string    `gorm:"uniqueIndex;not null" json:"uid"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for Account.
func (Account) TableName() string {
	return "accounts"
}

// JSONMap stores arbitrary JSON metadata in a jsonb column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("scan JSONMap: unexpected type %T", value)
	}
	return json.Unmarshal(b, m)
}

// Transaction is one append-only ledger entry. CoinAmount is negative
// for consumption and positive for credits, so BalanceAfter always
// equals BalanceBefore plus CoinAmount.
type Transaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID          string     `gorm:"index;not null" json:"userId"`
	TransactionType string     `gorm:"not null" json:"transactionType"`
	Status          string     `gorm:"not null;default:'completed'" json:"status"`
	CoinAmount      int64      `gorm:"not null" json:"coinAmount"`
	BalanceBefore   int64      `gorm:"not null" json:"balanceBefore"`
	BalanceAfter    int64      `gorm:"not null" json:"balanceAfter"`
	PaymentMethod   string     `gorm:"not null" json:"paymentMethod"`
	Description     string     `json:"description"`
	RelatedID       string     `gorm:"index" json:"relatedId"`
	Metadata        JSONMap    `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// TableName returns the table name for Transaction.
func (Transaction) TableName() string {
	return "transactions"
}
