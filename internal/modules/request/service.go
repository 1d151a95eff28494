package request

import (
	"context"
	"errors"
	"strings"

	"designmarket/internal/domain"
	"designmarket/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	requests *repository.RequestRepository
}

func NewService(requests *repository.RequestRepository) *Service {
	return &Service{requests: requests}
}

// Create posts a new design request in the pending state. The reference
// image URL, if any, is fixed at creation and never changed afterwards.
func (s *Service) Create(ctx context.Context, req CreateRequestRequest) (*domain.DesignRequest, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation
	}
	if req.Budget < 0 || req.DurationDays <= 0 {
		return nil, ErrValidation
	}

	r := &domain.DesignRequest{
		ClientID:          req.ClientID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		RoomType:          req.RoomType,
		Budget:            req.Budget,
		DurationDays:      req.DurationDays,
		Status:            domain.RequestPending,
		ReferenceImageURL: req.ReferenceImageURL,
	}

	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.DesignRequest, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListOpen returns requests still accepting proposals, newest first.
func (s *Service) ListOpen(ctx context.Context, limit, offset int) ([]domain.DesignRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.requests.ListOpen(ctx, limit, offset)
}

func (s *Service) ListByClient(ctx context.Context, clientID int64) ([]domain.DesignRequest, error) {
	return s.requests.ListByClient(ctx, clientID)
}
