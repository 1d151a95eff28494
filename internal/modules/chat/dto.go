package chat

import (
	"time"

	"designmarket/internal/domain"
)

type CreateConversationRequest struct {
	RecipientID    int64  `json:"recipient_id" binding:"required"`
	RequestID      *int64 `json:"request_id"`
	InitialMessage string `json:"initial_message"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

type UserBrief struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

type MessageResponse struct {
	ID             int64   `json:"id"`
	ConversationID int64   `json:"conversation_id"`
	SenderID       int64   `json:"sender_id"`
	Content        string  `json:"content"`
	IsRead         bool    `json:"is_read"`
	ReadAt         *string `json:"read_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type ConversationResponse struct {
	ID          int64            `json:"id"`
	OtherUser   *UserBrief       `json:"other_user"`
	RequestID   *int64           `json:"request_id,omitempty"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
	UnreadCount int64            `json:"unread_count"`
	UpdatedAt   string           `json:"updated_at"`
	CreatedAt   string           `json:"created_at"`
}

func ToUserBrief(u *domain.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.AvatarURL,
		Role:   string(u.Role),
	}
}

func ToMessageResponse(m *domain.Message) *MessageResponse {
	if m == nil {
		return nil
	}

	resp := &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.ReadAt != nil,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReadAt != nil {
		ra := m.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &ra
	}
	return resp
}

func ToConversationResponse(conv *domain.Conversation, other *domain.User) *ConversationResponse {
	return &ConversationResponse{
		ID:          conv.ID,
		OtherUser:   ToUserBrief(other),
		RequestID:   conv.RequestID,
		LastMessage: ToMessageResponse(conv.LastMessage),
		UnreadCount: conv.UnreadCount,
		UpdatedAt:   conv.UpdatedAt.Format(time.RFC3339),
		CreatedAt:   conv.CreatedAt.Format(time.RFC3339),
	}
}
