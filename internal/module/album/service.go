package album

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes album catalog operations.
type Service interface {
	Create(ctx context.Context, album *Album) error
	Get(ctx context.Context, id string) (*Album, error)
	Update(ctx context.Context, album *Album) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]Album, int64, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates the album service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, album *Album) error {
	if album.Title == "" {
		return ErrMissingTitle
	}
	if err := s.repo.Create(ctx, album); err != nil {
		return err
	}
	s.log.Info("album created",
		zap.String("id", album.ID.String()),
		zap.String("function_type", album.FunctionType),
	)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*Album, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, uid)
}

func (s *service) Update(ctx context.Context, album *Album) error {
	if album.ID == uuid.Nil {
		return ErrInvalidID
	}
	return s.repo.Update(ctx, album)
}

func (s *service) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}
	if err := s.repo.Delete(ctx, uid); err != nil {
		return err
	}
	s.log.Info("album deleted", zap.String("id", id))
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Album, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	switch filter.SortBy {
	case SortByLikes, SortByCreatedAt:
	default:
		filter.SortBy = SortBySortWeight
	}
	return s.repo.List(ctx, filter)
}
