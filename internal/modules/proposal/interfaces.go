package proposal

import "context"

// NotificationSender delivers the side-effect notifications of lifecycle
// transitions. Delivery is best-effort: the service logs failures and never
// rolls back a committed transition because of them.
type NotificationSender interface {
	NotifyProposalReceived(ctx context.Context, clientID, requestID, proposalID, designerID int64) error
	NotifyProposalAccepted(ctx context.Context, designerID, requestID, proposalID int64) error
	NotifyProposalRejected(ctx context.Context, designerID, requestID, proposalID int64) error
	NotifyProposalCompleted(ctx context.Context, userID, requestID, proposalID int64) error
}
