package domain

import "time"

// Conversation is a direct channel between a client and a designer,
// optionally tied to a design request. ParticipantA is always the smaller
// user id so the pair is canonical.
type Conversation struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	ParticipantA int64     `json:"participant_a" gorm:"not null;index:idx_conversation_pair"`
	ParticipantB int64     `json:"participant_b" gorm:"not null;index:idx_conversation_pair"`
	RequestID    *int64    `json:"request_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	LastMessage *Message `json:"last_message,omitempty" gorm:"-"`
	UnreadCount int64    `json:"unread_count" gorm:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Other returns the counterpart of userID in the conversation.
func (c *Conversation) Other(userID int64) int64 {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID int64) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

type Message struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	ConversationID int64      `json:"conversation_id" gorm:"not null;index"`
	SenderID       int64      `json:"sender_id" gorm:"not null;index"`
	Content        string     `json:"content" gorm:"type:text;not null"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}
