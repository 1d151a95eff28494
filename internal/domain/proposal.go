package domain

import "time"

type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "pending"
	ProposalAccepted  ProposalStatus = "accepted"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalCompleted ProposalStatus = "completed"
)

// Proposal is a designer's bid against a DesignRequest. One proposal per
// (request, designer) pair, enforced by the unique index. Proposals are
// never deleted.
type Proposal struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	RequestID     int64          `json:"request_id" gorm:"not null;uniqueIndex:idx_one_proposal_per_designer;index" validate:"required"`
	DesignerID    int64          `json:"designer_id" gorm:"not null;uniqueIndex:idx_one_proposal_per_designer;index" validate:"required"`
	Price         int64          `json:"price" gorm:"not null" validate:"gte=0"`
	EstimatedDays int            `json:"estimated_days" gorm:"not null" validate:"gt=0"`
	Description   string         `json:"description" gorm:"type:text"`
	Status        ProposalStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Request  *DesignRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Designer *User          `json:"designer,omitempty" gorm:"foreignKey:DesignerID"`
}

func (Proposal) TableName() string {
	return "proposals"
}
