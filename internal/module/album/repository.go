package album

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines album data access.
type Repository interface {
	Create(ctx context.Context, album *Album) error
	GetByID(ctx context.Context, id uuid.UUID) (*Album, error)
	Update(ctx context.Context, album *Album) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]Album, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed album repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, album *Album) error {
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("create album: %w", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Album, error) {
	var album Album
	err := r.db.WithContext(ctx).First(&album, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return &album, nil
}

func (r *gormRepository) Update(ctx context.Context, album *Album) error {
	res := r.db.WithContext(ctx).Model(&Album{}).Where("id = ?", album.ID).Updates(album)
	if res.Error != nil {
		return fmt.Errorf("update album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Album{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete album: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]Album, int64, error) {
	q := r.db.WithContext(ctx).Model(&Album{})
	if !filter.IncludeDrafts {
		q = q.Where("published = ?", true)
	}
	if filter.FunctionType != "" {
		q = q.Where("function_type = ?", filter.FunctionType)
	}
	if filter.ThemeStyle != "" {
		q = q.Where("? = ANY(theme_styles)", filter.ThemeStyle)
	}
	if filter.ActivityTag != "" {
		q = q.Where("? = ANY(activity_tags)", filter.ActivityTag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count albums: %w", err)
	}

	var albums []Album
	err := q.Order(orderClause(filter.SortBy)).
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&albums).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list albums: %w", err)
	}
	return albums, total, nil
}

func orderClause(sortBy string) string {
	switch sortBy {
	case SortByLikes:
		return "likes DESC, created_at DESC"
	case SortByCreatedAt:
		return "created_at DESC"
	default:
		return "sort_weight DESC, likes DESC, created_at DESC"
	}
}
