package entities

// QuoteStatus represents the lifecycle of a quote (cotización).
//
// Domain notes:
//   - Distributors create quotes (draft by default).
//   - The generic transition path is checked against StatusTransitions.
//   - Analyst approval/rejection bypasses the table on purpose (see usecase.ApproveAsAnalyst).
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusViewed    QuoteStatus = "viewed"
	QuoteStatusApproved  QuoteStatus = "approved"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusCancelled QuoteStatus = "cancelled"
	QuoteStatusPending   QuoteStatus = "pending"
)

// AllQuoteStatuses lists every status in display order.
var AllQuoteStatuses = []QuoteStatus{
	QuoteStatusDraft,
	QuoteStatusSent,
	QuoteStatusViewed,
	QuoteStatusApproved,
	QuoteStatusRejected,
	QuoteStatusExpired,
	QuoteStatusCancelled,
	QuoteStatusPending,
}

// StatusTransitions maps a current status to the statuses directly reachable from it.
// approved can only be cancelled; cancelled is terminal.
var StatusTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusDraft:     {QuoteStatusSent, QuoteStatusCancelled, QuoteStatusApproved, QuoteStatusRejected},
	QuoteStatusSent:      {QuoteStatusViewed, QuoteStatusExpired, QuoteStatusCancelled, QuoteStatusApproved, QuoteStatusRejected},
	QuoteStatusViewed:    {QuoteStatusApproved, QuoteStatusRejected, QuoteStatusExpired},
	QuoteStatusApproved:  {QuoteStatusCancelled},
	QuoteStatusRejected:  {QuoteStatusSent, QuoteStatusCancelled},
	QuoteStatusExpired:   {QuoteStatusSent, QuoteStatusCancelled},
	QuoteStatusCancelled: {},
	QuoteStatusPending:   {QuoteStatusSent, QuoteStatusCancelled, QuoteStatusApproved, QuoteStatusRejected},
}

// IsValid reports whether s is one of the known statuses.
func (s QuoteStatus) IsValid() bool {
	_, ok := StatusTransitions[s]
	return ok
}

// AllowedNext returns a copy of the statuses reachable from s.
func (s QuoteStatus) AllowedNext() []QuoteStatus {
	next := StatusTransitions[s]
	out := make([]QuoteStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo returns true if target is listed for s in StatusTransitions.
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	for _, valid := range StatusTransitions[s] {
		if valid == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no transition leaves s.
func (s QuoteStatus) IsTerminal() bool {
	next, ok := StatusTransitions[s]
	return ok && len(next) == 0
}
