package category

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service exposes category taxonomy operations.
type Service interface {
	Create(ctx context.Context, cfg *Config) error
	Update(ctx context.Context, cfg *Config) error
	List(ctx context.Context, kind string, enabledOnly bool) ([]Config, error)
}

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates the category service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, cfg *Config) error {
	if !ValidKind(cfg.Kind) {
		return ErrInvalidKind
	}
	if cfg.Code == "" {
		return ErrMissingCode
	}
	if cfg.Name == "" {
		return ErrMissingName
	}

	cfg.CategoryID = CategoryID(cfg.Kind, cfg.Code)
	if _, err := s.repo.GetByCategoryID(ctx, cfg.CategoryID); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		return err
	}
	s.log.Info("category config created",
		zap.String("category_id", cfg.CategoryID),
		zap.String("kind", cfg.Kind),
	)
	return nil
}

func (s *service) Update(ctx context.Context, cfg *Config) error {
	if cfg.CategoryID == "" {
		return ErrNotFound
	}
	if cfg.Name == "" {
		return ErrMissingName
	}
	return s.repo.Update(ctx, cfg)
}

func (s *service) List(ctx context.Context, kind string, enabledOnly bool) ([]Config, error) {
	if kind != "" && !ValidKind(kind) {
		return nil, ErrInvalidKind
	}
	return s.repo.List(ctx, kind, enabledOnly)
}
