package repository

import (
	"context"
	"errors"

	"designmarket/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, tx *gorm.DB, p *domain.Proposal) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(p).Error
}

func (r *ProposalRepository) GetByID(ctx context.Context, id int64) (*domain.Proposal, error) {
	var p domain.Proposal
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDForUpdate reads the proposal within tx, locking its row.
func (r *ProposalRepository) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.Proposal, error) {
	var p domain.Proposal
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepository) GetByRequestAndDesigner(ctx context.Context, requestID, designerID int64) (*domain.Proposal, error) {
	var p domain.Proposal
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND designer_id = ?", requestID, designerID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProposalRepository) Exists(ctx context.Context, requestID, designerID int64) (bool, error) {
	_, err := r.GetByRequestAndDesigner(ctx, requestID, designerID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ListByRequest returns every proposal under the request, newest first.
// Ties on created_at fall back to ascending id so the order is deterministic.
func (r *ProposalRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.Proposal, error) {
	var ps []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC, id ASC").
		Find(&ps).Error
	return ps, err
}

func (r *ProposalRepository) ListByDesigner(ctx context.Context, designerID int64) ([]domain.Proposal, error) {
	var ps []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("designer_id = ?", designerID).
		Order("created_at DESC, id ASC").
		Find(&ps).Error
	return ps, err
}

func (r *ProposalRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status domain.ProposalStatus) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).
		Model(&domain.Proposal{}).
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

// ListPendingSiblingsForUpdate fetches the still-pending proposals under a
// request, excluding the one being accepted, locked within tx.
func (r *ProposalRepository) ListPendingSiblingsForUpdate(ctx context.Context, tx *gorm.DB, requestID, exceptID int64) ([]domain.Proposal, error) {
	var ps []domain.Proposal
	err := tx.WithContext(ctx).
		Where("request_id = ? AND id <> ? AND status = ?", requestID, exceptID, domain.ProposalPending).
		Order("id ASC").
		Find(&ps).Error
	return ps, err
}

// CountPending returns the number of pending proposals under a request.
func (r *ProposalRepository) CountPending(ctx context.Context, tx *gorm.DB, requestID int64) (int64, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var cnt int64
	err := db.WithContext(ctx).
		Model(&domain.Proposal{}).
		Where("request_id = ? AND status = ?", requestID, domain.ProposalPending).
		Count(&cnt).Error
	return cnt, err
}
