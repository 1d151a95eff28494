package proposal

import (
	"context"
	"errors"
	"log"
	"strings"

	"designmarket/internal/domain"
	"designmarket/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Service enforces the legal state transitions of design requests and their
// proposals. Every multi-row transition runs inside a single transaction that
// locks the request row, so two clients racing on the same request cannot
// both win.
type Service struct {
	requests  *repository.RequestRepository
	proposals *repository.ProposalRepository
	notifs    NotificationSender
}

func NewService(
	requests *repository.RequestRepository,
	proposals *repository.ProposalRepository,
	notifs NotificationSender,
) *Service {
	return &Service{
		requests:  requests,
		proposals: proposals,
		notifs:    notifs,
	}
}

// Submit creates a pending proposal against an open request and advances the
// request from pending to proposal_submitted on the first bid.
func (s *Service) Submit(ctx context.Context, req SubmitProposalRequest) (*domain.Proposal, error) {
	if req.Price < 0 || req.EstimatedDays <= 0 {
		return nil, ErrValidation
	}

	r, err := s.requests.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if r.ClientID == req.DesignerID {
		return nil, ErrOwnRequest
	}
	if !r.Open() {
		return nil, ErrRequestClosed
	}
	if req.Price > r.Budget {
		return nil, ErrPriceOverBudget
	}

	exists, err := s.proposals.Exists(ctx, req.RequestID, req.DesignerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateProposal
	}

	p := &domain.Proposal{
		RequestID:     req.RequestID,
		DesignerID:    req.DesignerID,
		Price:         req.Price,
		EstimatedDays: req.EstimatedDays,
		Description:   req.Description,
		Status:        domain.ProposalPending,
	}

	err = s.requests.Transaction(ctx, func(tx *gorm.DB) error {
		locked, err := s.requests.GetByIDForUpdate(ctx, tx, req.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		// The request may have been accepted or closed between the
		// pre-check and taking the lock.
		if !locked.Open() {
			return ErrRequestClosed
		}

		if err := s.proposals.Create(ctx, tx, p); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateProposal
			}
			return err
		}

		if locked.Status == domain.RequestPending {
			return s.requests.UpdateStatus(ctx, tx, locked.ID, domain.RequestProposalSubmitted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		if err := s.notifs.NotifyProposalReceived(ctx, r.ClientID, r.ID, p.ID, p.DesignerID); err != nil {
			log.Printf("notify_failed event=proposal_received request_id=%d proposal_id=%d error=%v", r.ID, p.ID, err)
		}
	}

	return p, nil
}

// Accept marks one proposal accepted, rejects every pending sibling and moves
// the request to in_progress. The sweep is all-or-nothing: no observer ever
// sees an accepted proposal next to a still-pending sibling.
func (s *Service) Accept(ctx context.Context, proposalID, clientID int64) (*domain.Proposal, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	var rejectedSiblings []domain.Proposal

	err = s.requests.Transaction(ctx, func(tx *gorm.DB) error {
		r, err := s.requests.GetByIDForUpdate(ctx, tx, p.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.ClientID != clientID {
			return ErrForbidden
		}
		// Lost the race against another Accept, or the proposal was
		// already decided.
		if r.Status != domain.RequestProposalSubmitted {
			return ErrNotProposalPhase
		}

		current, err := s.proposals.GetByIDForUpdate(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if current.Status != domain.ProposalPending {
			return ErrNotProposalPhase
		}

		if err := s.proposals.UpdateStatus(ctx, tx, proposalID, domain.ProposalAccepted); err != nil {
			return err
		}

		siblings, err := s.proposals.ListPendingSiblingsForUpdate(ctx, tx, p.RequestID, proposalID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if err := s.proposals.UpdateStatus(ctx, tx, sib.ID, domain.ProposalRejected); err != nil {
				return err
			}
			rejectedSiblings = append(rejectedSiblings, sib)
		}

		return s.requests.UpdateStatus(ctx, tx, p.RequestID, domain.RequestInProgress)
	})
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProposalAccepted

	if s.notifs != nil {
		if err := s.notifs.NotifyProposalAccepted(ctx, p.DesignerID, p.RequestID, p.ID); err != nil {
			log.Printf("notify_failed event=proposal_accepted proposal_id=%d error=%v", p.ID, err)
		}
		for _, sib := range rejectedSiblings {
			if err := s.notifs.NotifyProposalRejected(ctx, sib.DesignerID, sib.RequestID, sib.ID); err != nil {
				log.Printf("notify_failed event=proposal_rejected request_id=%d designer_id=%d error=%v", sib.RequestID, sib.DesignerID, err)
			}
		}
	}

	return p, nil
}

// Reject declines a single pending proposal. When it was the request's only
// pending one the request returns to pending, so other designers can still
// bid.
func (s *Service) Reject(ctx context.Context, proposalID, clientID int64) (*domain.Proposal, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	err = s.requests.Transaction(ctx, func(tx *gorm.DB) error {
		r, err := s.requests.GetByIDForUpdate(ctx, tx, p.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.ClientID != clientID {
			return ErrForbidden
		}

		current, err := s.proposals.GetByIDForUpdate(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if current.Status != domain.ProposalPending {
			return ErrNotProposalPhase
		}

		if err := s.proposals.UpdateStatus(ctx, tx, proposalID, domain.ProposalRejected); err != nil {
			return err
		}

		remaining, err := s.proposals.CountPending(ctx, tx, p.RequestID)
		if err != nil {
			return err
		}
		if remaining == 0 && r.Status == domain.RequestProposalSubmitted {
			return s.requests.UpdateStatus(ctx, tx, r.ID, domain.RequestPending)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProposalRejected

	if s.notifs != nil {
		if err := s.notifs.NotifyProposalRejected(ctx, p.DesignerID, p.RequestID, p.ID); err != nil {
			log.Printf("notify_failed event=proposal_rejected proposal_id=%d error=%v", p.ID, err)
		}
	}

	return p, nil
}

// Complete finishes an accepted proposal and closes the request. Both parties
// are notified.
func (s *Service) Complete(ctx context.Context, proposalID, clientID int64) (*domain.Proposal, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}

	var clientUserID int64

	err = s.requests.Transaction(ctx, func(tx *gorm.DB) error {
		r, err := s.requests.GetByIDForUpdate(ctx, tx, p.RequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if r.ClientID != clientID {
			return ErrForbidden
		}
		clientUserID = r.ClientID

		current, err := s.proposals.GetByIDForUpdate(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		if current.Status != domain.ProposalAccepted {
			return ErrNotAccepted
		}

		if err := s.proposals.UpdateStatus(ctx, tx, proposalID, domain.ProposalCompleted); err != nil {
			return err
		}
		return s.requests.UpdateStatus(ctx, tx, r.ID, domain.RequestCompleted)
	})
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProposalCompleted

	if s.notifs != nil {
		if err := s.notifs.NotifyProposalCompleted(ctx, p.DesignerID, p.RequestID, p.ID); err != nil {
			log.Printf("notify_failed event=proposal_completed proposal_id=%d error=%v", p.ID, err)
		}
		if err := s.notifs.NotifyProposalCompleted(ctx, clientUserID, p.RequestID, p.ID); err != nil {
			log.Printf("notify_failed event=proposal_completed proposal_id=%d error=%v", p.ID, err)
		}
	}

	return p, nil
}

// ListByRequest returns the proposals under a request, newest first.
func (s *Service) ListByRequest(ctx context.Context, requestID int64) ([]domain.Proposal, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return s.proposals.ListByRequest(ctx, requestID)
}

// ListByDesigner returns a designer's own proposals, newest first.
func (s *Service) ListByDesigner(ctx context.Context, designerID int64) ([]domain.Proposal, error) {
	return s.proposals.ListByDesigner(ctx, designerID)
}

// GetByID returns one proposal.
func (s *Service) GetByID(ctx context.Context, proposalID int64) (*domain.Proposal, error) {
	p, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return p, nil
}

// isUniqueViolation recognizes the duplicate (request_id, designer_id) index
// firing on both Postgres and SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
