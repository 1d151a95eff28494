package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, t NotificationType, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		IsRead:  false,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		n.Data = raw
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Typed senders below satisfy the collaborator interfaces of the proposal
// and chat modules.

func (s *Service) NotifyProposalReceived(ctx context.Context, clientID, requestID, proposalID, designerID int64) error {
	return s.Create(
		ctx,
		clientID,
		NotifProposalReceived,
		"New proposal",
		"A designer submitted a proposal for your request",
		map[string]any{
			"request_id":  requestID,
			"proposal_id": proposalID,
			"designer_id": designerID,
		},
	)
}

func (s *Service) NotifyProposalAccepted(ctx context.Context, designerID, requestID, proposalID int64) error {
	return s.Create(
		ctx,
		designerID,
		NotifProposalAccepted,
		"Proposal accepted",
		"The client accepted your proposal. The project is now in progress",
		map[string]any{
			"request_id":  requestID,
			"proposal_id": proposalID,
		},
	)
}

func (s *Service) NotifyProposalRejected(ctx context.Context, designerID, requestID, proposalID int64) error {
	return s.Create(
		ctx,
		designerID,
		NotifProposalRejected,
		"Proposal declined",
		"Your proposal was not selected for this request",
		map[string]any{
			"request_id":  requestID,
			"proposal_id": proposalID,
		},
	)
}

func (s *Service) NotifyProposalCompleted(ctx context.Context, userID, requestID, proposalID int64) error {
	return s.Create(
		ctx,
		userID,
		NotifProposalCompleted,
		"Project completed",
		"The design project has been marked as completed",
		map[string]any{
			"request_id":  requestID,
			"proposal_id": proposalID,
		},
	)
}

func (s *Service) NotifyNewMessage(ctx context.Context, recipientID, conversationID, messageID, senderID int64, preview string) error {
	const previewMax = 80
	if len(preview) > previewMax {
		preview = preview[:previewMax] + "..."
	}
	return s.Create(
		ctx,
		recipientID,
		NotifNewMessage,
		"New message",
		fmt.Sprintf("You have a new message: %s", preview),
		map[string]any{
			"conversation_id": conversationID,
			"message_id":      messageID,
			"sender_id":       senderID,
		},
	)
}
