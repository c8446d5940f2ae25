package category

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository defines category config data access.
type Repository interface {
	Create(ctx context.Context, cfg *Config) error
	GetByCategoryID(ctx context.Context, categoryID string) (*Config, error)
	Update(ctx context.Context, cfg *Config) error
	List(ctx context.Context, kind string, enabledOnly bool) ([]Config, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed category repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, cfg *Config) error {
	err := r.db.WithContext(ctx).Create(cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create category config: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByCategoryID(ctx context.Context, categoryID string) (*Config, error) {
	var cfg Config
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category config: %w", err)
	}
	return &cfg, nil
}

func (r *gormRepository) Update(ctx context.Context, cfg *Config) error {
	res := r.db.WithContext(ctx).Model(&Config{}).
		Where("category_id = ?", cfg.CategoryID).
		Updates(map[string]any{
			"name":        cfg.Name,
			"icon_url":    cfg.IconURL,
			"sort_weight": cfg.SortWeight,
			"enabled":     cfg.Enabled,
		})
	if res.Error != nil {
		return fmt.Errorf("update category config: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, kind string, enabledOnly bool) ([]Config, error) {
	q := r.db.WithContext(ctx).Model(&Config{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if enabledOnly {
		q = q.Where("enabled = ?", true)
	}

	var configs []Config
	err := q.Order("sort_weight DESC, created_at ASC").Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("list category configs: %w", err)
	}
	return configs, nil
}
