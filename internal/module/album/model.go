package album

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Album is a curated template entry shown in the client gallery. Each
// album pins the task type and pricing used when a user generates from
// it.
type Album struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `json:"description"`
	CoverURL      string         `json:"coverUrl"`
	FunctionType  string         `gorm:"index;not null" json:"functionType"`
	ThemeStyles   pq.StringArray `gorm:"type:text[]" json:"themeStyles"`
	ActivityTags  pq.StringArray `gorm:"type:text[]" json:"activityTags"`
	TemplateList  pq.StringArray `gorm:"type:text[]" json:"templateList"`
	PromptText    string         `json:"promptText,omitempty"`
	Price         int64          `gorm:"not null;default:0" json:"price"`
	OriginalPrice int64          `gorm:"not null;default:0" json:"originalPrice"`
	StyleIndex    *int           `json:"styleIndex,omitempty"`
	StyleRefURL   string         `json:"styleRefUrl,omitempty"`
	Published     bool           `gorm:"index;not null;default:false" json:"published"`
	SortWeight    int            `gorm:"not null;default:0" json:"sortWeight"`
	Likes         int64          `gorm:"not null;default:0" json:"likes"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TableName returns the table name for Album.
func (Album) TableName() string {
	return "albums"
}

// Sort selectors for album listings.
const (
	SortBySortWeight = "sort_weight"
	SortByLikes      = "likes"
	SortByCreatedAt  = "created_at"
)

// ListFilter narrows an album listing. An empty or unknown SortBy
// falls back to sort weight.
type ListFilter struct {
	FunctionType  string
	ThemeStyle    string
	ActivityTag   string
	IncludeDrafts bool
	SortBy        string
	Limit         int
	Offset        int
}
