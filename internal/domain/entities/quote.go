package entities

import (
	"strings"
	"time"
)

// History sources tag how a status entry was produced.
const (
	HistorySourceCreation         = "Creation"
	HistorySourceAnalystApproval  = "AnalystApproval"
	HistorySourceAnalystRejection = "AnalystRejection"
)

// QuoteItem is one retained product line of a quote.
type QuoteItem struct {
	Product   string  `json:"product"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// StatusHistoryEntry is one append-only audit record of the quote lifecycle.
type StatusHistoryEntry struct {
	Status    QuoteStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"user_id"`
	UserName  string      `json:"user_name"`
	Notes     string      `json:"notes"`
	Source    string      `json:"source,omitempty"`
}

// QuoteMeta carries the commercial terms captured by the distributor form.
type QuoteMeta struct {
	ValidityDays *int `json:"validity_days,omitempty"`
	DeliveryDays *int `json:"delivery_days,omitempty"`
}

// Quote is the quote document persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (folio-index): folio
//
// Total reflects the lines at creation time and is never recomputed by transitions.
type Quote struct {
	ID     string      `json:"id"`
	Folio  string      `json:"folio"`
	Status QuoteStatus `json:"status"`
	Items  []QuoteItem `json:"items"`
	Total  float64     `json:"total"`
	Meta   QuoteMeta   `json:"meta"`

	CreatedByUserID string `json:"created_by_user_id"`
	CreatedByName   string `json:"created_by_name"`
	CreatedByEmail  string `json:"created_by_email"`

	StatusHistory []StatusHistoryEntry `json:"status_history"`

	ViewedAt   *time.Time `json:"viewed_at,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	RejectedAt *time.Time `json:"rejected_at,omitempty"`
	ExpiredAt  *time.Time `json:"expired_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusChange is the partial update applied by a single transition.
type StatusChange struct {
	Status QuoteStatus
	Entry  StatusHistoryEntry
	At     time.Time
}

// StampField returns the status-specific timestamp attribute set by a transition to s,
// or "" when s has none.
func StampField(s QuoteStatus) string {
	switch s {
	case QuoteStatusViewed:
		return "viewed_at"
	case QuoteStatusApproved:
		return "approved_at"
	case QuoteStatusRejected:
		return "rejected_at"
	case QuoteStatusExpired:
		return "expired_at"
	}
	return ""
}

// Apply returns q with the change applied. It is the in-memory mirror of the
// repository partial update.
func (c StatusChange) Apply(q Quote) Quote {
	history := make([]StatusHistoryEntry, 0, len(q.StatusHistory)+1)
	history = append(history, q.StatusHistory...)
	q.StatusHistory = append(history, c.Entry)
	q.Status = c.Status
	q.UpdatedAt = c.At

	at := c.At
	switch c.Status {
	case QuoteStatusViewed:
		q.ViewedAt = &at
	case QuoteStatusApproved:
		q.ApprovedAt = &at
	case QuoteStatusRejected:
		q.RejectedAt = &at
	case QuoteStatusExpired:
		q.ExpiredAt = &at
	}
	return q
}

// Role is the application role stored on the user profile.
type Role string

const (
	RoleAnalyst     Role = "analyst"
	RoleDistributor Role = "distributor"
)

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// Name returns the display name, falling back to the email.
func (a Actor) Name() string {
	if v := strings.TrimSpace(a.DisplayName); v != "" {
		return v
	}
	return strings.TrimSpace(a.Email)
}

// QuoteFilter holds the field-equality filters the repository understands.
type QuoteFilter struct {
	Status          QuoteStatus
	CreatedByUserID string
}

// Matches reports whether q satisfies every non-empty field of f.
func (f QuoteFilter) Matches(q Quote) bool {
	if f.Status != "" && q.Status != f.Status {
		return false
	}
	if f.CreatedByUserID != "" && q.CreatedByUserID != f.CreatedByUserID {
		return false
	}
	return true
}

// CatalogProduct is a product a distributor can add to a quote.
type CatalogProduct struct {
	Name           string  `json:"name"`
	ImageURL       string  `json:"image_url"`
	SuggestedPrice float64 `json:"suggested_price"`
}
