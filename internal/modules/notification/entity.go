package notification

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifProposalReceived  NotificationType = "proposal_received"  // client: a designer submitted a bid
	NotifProposalAccepted  NotificationType = "proposal_accepted"  // designer: the client accepted the bid
	NotifProposalRejected  NotificationType = "proposal_rejected"  // designer: the bid was declined
	NotifProposalCompleted NotificationType = "proposal_completed" // both: the project was finished
	NotifNewMessage        NotificationType = "new_message"        // both: new chat message
)

// Notification is a persisted in-app notification.
type Notification struct {
	ID        int64            `json:"id" gorm:"primaryKey"`
	UserID    int64            `json:"user_id" gorm:"not null;index:idx_notifications_user_unread"`
	Type      NotificationType `json:"type" gorm:"type:varchar(32);not null"`
	Title     string           `json:"title" gorm:"not null"`
	Message   string           `json:"message"`
	Data      json.RawMessage  `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool             `json:"is_read" gorm:"not null;default:false;index:idx_notifications_user_unread"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
