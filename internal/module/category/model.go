package category

import (
	"time"

	"github.com/google/uuid"
)

// Config kinds.
const (
	KindFunctionType = "function_type"
	KindThemeStyle   = "theme_style"
	KindActivityTag  = "activity_tag"
)

// prefixes maps a config kind to its category id prefix.
var prefixes = map[string]string{
	KindFunctionType: "ft_",
	KindThemeStyle:   "ts_",
	KindActivityTag:  "at_",
}

// Config is one entry of the client-facing category taxonomy. The
// CategoryID is derived from the kind prefix and the code, so it is
// stable across environments.
type Config struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CategoryID string    `gorm:"uniqueIndex;not null" json:"categoryId"`
	Kind       string    `gorm:"index;not null" json:"kind"`
	Code       string    `gorm:"not null" json:"code"`
	Name       string    `gorm:"not null" json:"name"`
	IconURL    string    `json:"iconUrl,omitempty"`
	SortWeight int       `gorm:"not null;default:0" json:"sortWeight"`
	Enabled    bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName returns the table name for Config.
func (Config) TableName() string {
	return "category_configs"
}

// CategoryID builds the derived id for a kind and code pair.
func CategoryID(kind, code string) string {
	return prefixes[kind] + code
}

// ValidKind reports whether kind is a known config kind.
func ValidKind(kind string) bool {
	_, ok := prefixes[kind]
	return ok
}
