package domain

import "time"

type RequestStatus string

const (
	// RequestPending: posted, no proposals yet.
	RequestPending RequestStatus = "pending"
	// RequestProposalSubmitted: at least one pending proposal exists.
	RequestProposalSubmitted RequestStatus = "proposal_submitted"
	// RequestInProgress: the client accepted a proposal.
	RequestInProgress RequestStatus = "in_progress"
	// RequestCompleted: the accepted proposal was marked done.
	RequestCompleted RequestStatus = "completed"
	// RequestRejected: the client closed the request without accepting anyone.
	RequestRejected RequestStatus = "rejected"
)

// DesignRequest is a client's posted design job. Requests are never deleted;
// their lifecycle is tracked through Status.
type DesignRequest struct {
	ID                int64         `json:"id" gorm:"primaryKey"`
	ClientID          int64         `json:"client_id" gorm:"not null;index" validate:"required"`
	Title             string        `json:"title" gorm:"not null" validate:"required"`
	Description       string        `json:"description" gorm:"type:text"`
	RoomType          string        `json:"room_type" gorm:"type:varchar(32)"`
	Budget            int64         `json:"budget" gorm:"not null" validate:"gte=0"`
	DurationDays      int           `json:"duration_days" gorm:"not null" validate:"gt=0"`
	Status            RequestStatus `json:"status" gorm:"type:varchar(24);not null;index"`
	ReferenceImageURL string        `json:"reference_image_url,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Client *User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (DesignRequest) TableName() string {
	return "design_requests"
}

// Open reports whether designers may still submit proposals.
func (r *DesignRequest) Open() bool {
	return r.Status == RequestPending || r.Status == RequestProposalSubmitted
}
