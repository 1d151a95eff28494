package repository

import (
	"context"

	"designmarket/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.DesignRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.DesignRequest, error) {
	var req domain.DesignRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByIDForUpdate locks the request row for the duration of the surrounding
// transaction. Accepting a proposal relies on this to serialize concurrent
// accepts on the same request.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.DesignRequest, error) {
	var req domain.DesignRequest
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status domain.RequestStatus) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).
		Model(&domain.DesignRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListOpen returns requests designers may still bid on, newest first.
func (r *RequestRepository) ListOpen(ctx context.Context, limit, offset int) ([]domain.DesignRequest, error) {
	var reqs []domain.DesignRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", []domain.RequestStatus{domain.RequestPending, domain.RequestProposalSubmitted}).
		Order("created_at DESC, id ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.DesignRequest, error) {
	var reqs []domain.DesignRequest
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
