package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"designmarket/internal/domain"
	"designmarket/internal/modules/notification"
	"designmarket/internal/repository"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrRequestNotFound      = errors.New("design request not found")
	ErrNotParticipant       = errors.New("you are not a participant of this conversation")
	ErrCannotMessageSelf    = errors.New("cannot send message to yourself")
	ErrEmptyContent         = errors.New("message content cannot be empty")
)

type Service struct {
	chats    *repository.ChatRepository
	users    *repository.UserRepository
	requests *repository.RequestRepository
	notifs   *notification.Service
	hub      *Hub
}

func NewService(
	chats *repository.ChatRepository,
	users *repository.UserRepository,
	requests *repository.RequestRepository,
	notifs *notification.Service,
	hub *Hub,
) *Service {
	return &Service{
		chats:    chats,
		users:    users,
		requests: requests,
		notifs:   notifs,
		hub:      hub,
	}
}

// GetOrCreateConversation finds the conversation between the sender and the
// recipient (scoped to a design request when one is given) or creates it.
// An optional initial message is sent in the same call.
func (s *Service) GetOrCreateConversation(ctx context.Context, senderID int64, req CreateConversationRequest) (*domain.Conversation, *domain.Message, error) {
	if senderID == req.RecipientID {
		return nil, nil, ErrCannotMessageSelf
	}

	recipient, err := s.users.GetByID(ctx, req.RecipientID)
	if err != nil || recipient == nil {
		return nil, nil, ErrRecipientNotFound
	}

	if req.RequestID != nil {
		if _, err := s.requests.GetByID(ctx, *req.RequestID); err != nil {
			return nil, nil, ErrRequestNotFound
		}
	}

	a, b := senderID, req.RecipientID
	if a > b {
		a, b = b, a
	}

	conv, err := s.chats.GetConversationByParticipants(ctx, a, b, req.RequestID)
	if err != nil {
		return nil, nil, fmt.Errorf("find conversation: %w", err)
	}

	if conv == nil {
		conv = &domain.Conversation{
			ParticipantA: a,
			ParticipantB: b,
			RequestID:    req.RequestID,
		}
		if err := s.chats.CreateConversation(ctx, conv); err != nil {
			return nil, nil, fmt.Errorf("create conversation: %w", err)
		}
	}

	var msg *domain.Message
	if strings.TrimSpace(req.InitialMessage) != "" {
		msg, err = s.SendMessage(ctx, senderID, conv.ID, SendMessageRequest{Content: req.InitialMessage})
		if err != nil {
			return nil, nil, err
		}
	}

	s.enrich(ctx, conv, senderID)
	return conv, msg, nil
}

func (s *Service) ListConversations(ctx context.Context, userID int64, limit, offset int) ([]*ConversationResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	convs, err := s.chats.ListConversations(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]*ConversationResponse, 0, len(convs))
	for i := range convs {
		s.enrich(ctx, &convs[i], userID)
		other, _ := s.users.GetByID(ctx, convs[i].Other(userID))
		out = append(out, ToConversationResponse(&convs[i], other))
	}
	return out, nil
}

func (s *Service) enrich(ctx context.Context, conv *domain.Conversation, userID int64) {
	if last, err := s.chats.LastMessage(ctx, conv.ID); err == nil {
		conv.LastMessage = last
	}
	if unread, err := s.chats.CountUnread(ctx, conv.ID, userID); err == nil {
		conv.UnreadCount = unread
	}
}

// SendMessage stores a message and pushes it to both participants over the
// hub. When the recipient is offline a notification is created instead;
// notification failures are logged, never surfaced.
func (s *Service) SendMessage(ctx context.Context, senderID, conversationID int64, req SendMessageRequest) (*domain.Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	conv, err := s.chats.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        req.Content,
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	recipientID := conv.Other(senderID)
	delivered := s.hub.BroadcastMessage(senderID, recipientID, Event{Type: "message", Data: ToMessageResponse(msg)})
	if !delivered {
		if err := s.notifs.NotifyNewMessage(ctx, recipientID, conversationID, msg.ID, senderID, msg.Content); err != nil {
			log.Printf("chat_notify_failed recipient_id=%d conversation_id=%d error=%v", recipientID, conversationID, err)
		}
	}

	return msg, nil
}

func (s *Service) GetMessages(ctx context.Context, userID, conversationID int64, limit, offset int) ([]domain.Message, error) {
	conv, err := s.chats.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.chats.ListMessages(ctx, conversationID, limit, offset)
}

func (s *Service) MarkAsRead(ctx context.Context, userID, conversationID int64) error {
	conv, err := s.chats.GetConversationByID(ctx, conversationID)
	if err != nil {
		return ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return ErrNotParticipant
	}
	return s.chats.MarkRead(ctx, conversationID, userID)
}
