package response

import (
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase"
	"time"
)

type QuoteLineResponse struct {
	Product   string  `json:"product"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type StatusHistoryResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Notes     string    `json:"notes"`
	Source    string    `json:"source,omitempty"`
}

type QuoteResponse struct {
	ID              string                  `json:"id"`
	Folio           string                  `json:"folio"`
	Status          string                  `json:"status"`
	Items           []QuoteLineResponse     `json:"items"`
	Total           float64                 `json:"total"`
	ValidityDays    *int                    `json:"validity_days,omitempty"`
	DeliveryDays    *int                    `json:"delivery_days,omitempty"`
	CreatedByUserID string                  `json:"created_by_user_id"`
	CreatedByName   string                  `json:"created_by_name"`
	CreatedByEmail  string                  `json:"created_by_email,omitempty"`
	StatusHistory   []StatusHistoryResponse `json:"status_history"`
	ViewedAt        *time.Time              `json:"viewed_at,omitempty"`
	ApprovedAt      *time.Time              `json:"approved_at,omitempty"`
	RejectedAt      *time.Time              `json:"rejected_at,omitempty"`
	ExpiredAt       *time.Time              `json:"expired_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	items := make([]QuoteLineResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuoteLineResponse(it))
	}
	history := make([]StatusHistoryResponse, 0, len(q.StatusHistory))
	for _, h := range q.StatusHistory {
		history = append(history, StatusHistoryResponse{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			UserID:    h.UserID,
			UserName:  h.UserName,
			Notes:     h.Notes,
			Source:    h.Source,
		})
	}
	return QuoteResponse{
		ID:              q.ID,
		Folio:           q.Folio,
		Status:          string(q.Status),
		Items:           items,
		Total:           q.Total,
		ValidityDays:    q.Meta.ValidityDays,
		DeliveryDays:    q.Meta.DeliveryDays,
		CreatedByUserID: q.CreatedByUserID,
		CreatedByName:   q.CreatedByName,
		CreatedByEmail:  q.CreatedByEmail,
		StatusHistory:   history,
		ViewedAt:        q.ViewedAt,
		ApprovedAt:      q.ApprovedAt,
		RejectedAt:      q.RejectedAt,
		ExpiredAt:       q.ExpiredAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func FromQuotes(qs []entities.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, FromQuote(q))
	}
	return out
}

type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Count int             `json:"count"`
}

func FromQuoteList(qs []entities.Quote) QuoteListResponse {
	return QuoteListResponse{Items: FromQuotes(qs), Count: len(qs)}
}

// WorkflowResponse pairs the status-only workflow view with the caller's permissions.
type WorkflowResponse struct {
	usecase.WorkflowInfo
	QuoteID     string   `json:"quote_id"`
	CanModify   bool     `json:"can_modify"`
	CanDelete   bool     `json:"can_delete"`
	AllowedNext []string `json:"allowed_next"`
	IsTerminal  bool     `json:"is_terminal"`
}

func FromWorkflow(q entities.Quote, actor entities.Actor) WorkflowResponse {
	next := q.Status.AllowedNext()
	allowed := make([]string, 0, len(next))
	for _, s := range next {
		allowed = append(allowed, string(s))
	}
	return WorkflowResponse{
		WorkflowInfo: usecase.GetWorkflowInfo(q),
		QuoteID:      q.ID,
		CanModify:    usecase.CanAnalystModify(q, actor),
		CanDelete:    usecase.CanAnalystDelete(q, actor),
		AllowedNext:  allowed,
		IsTerminal:   q.Status.IsTerminal(),
	}
}

type StatisticsResponse struct {
	ByStatus       map[string]int `json:"by_status"`
	TotalQuotes    int            `json:"total_quotes"`
	TotalValue     float64        `json:"total_value"`
	ApprovedValue  float64        `json:"approved_value"`
	ConversionRate float64        `json:"conversion_rate"`
}

func FromStatistics(s usecase.QuoteStatistics) StatisticsResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for k, v := range s.ByStatus {
		byStatus[string(k)] = v
	}
	return StatisticsResponse{
		ByStatus:       byStatus,
		TotalQuotes:    s.TotalQuotes,
		TotalValue:     s.TotalValue,
		ApprovedValue:  s.ApprovedValue,
		ConversionRate: s.ConversionRate,
	}
}

type DeletionResponse struct {
	QuoteID    string    `json:"quote_id"`
	Folio      string    `json:"folio"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
	Deleted    bool      `json:"deleted"`
}

func FromDeletion(r usecase.DeletionResult) DeletionResponse {
	return DeletionResponse(r)
}

type CatalogProductResponse struct {
	Name           string  `json:"name"`
	ImageURL       string  `json:"image_url"`
	SuggestedPrice float64 `json:"suggested_price"`
}

func FromCatalog(products []entities.CatalogProduct) []CatalogProductResponse {
	out := make([]CatalogProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, CatalogProductResponse(p))
	}
	return out
}
