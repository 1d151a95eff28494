package proposal

import "errors"

var (
	ErrRequestNotFound  = errors.New("design request not found")
	ErrProposalNotFound = errors.New("proposal not found")

	// Validation failures. None of these mutate state.
	ErrValidation      = errors.New("validation error")
	ErrRequestClosed   = errors.New("request is no longer accepting proposals")
	ErrPriceOverBudget = errors.New("price exceeds request budget")
	ErrOwnRequest      = errors.New("cannot submit a proposal to your own request")
	ErrNotAccepted     = errors.New("proposal is not in accepted state")

	// Conflicts: duplicate submission or a raced state transition.
	ErrDuplicateProposal = errors.New("proposal already submitted for this request")
	ErrNotProposalPhase  = errors.New("request is not awaiting proposal decision")

	ErrForbidden = errors.New("operation not permitted for this user")
)
