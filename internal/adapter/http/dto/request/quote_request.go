package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMinTotal = errors.New("invalid min_total")
	ErrInvalidStatus   = errors.New("invalid status")
)

const dateLayout = "2006-01-02"

// FlexNumber accepts a JSON number, a numeric string or anything else and keeps the raw
// text. Coercion to a number happens in entities.CalculateQuoteLines.
type FlexNumber string

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexNumber(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	*n = FlexNumber(data)
	return nil
}

type QuoteLineRequest struct {
	Name      string     `json:"name"`
	Quantity  FlexNumber `json:"quantity" swaggertype:"string"`
	UnitPrice FlexNumber `json:"unit_price" swaggertype:"string"`
}

// CreateQuoteRequest is the distributor form payload.
type CreateQuoteRequest struct {
	Folio        string             `json:"folio" binding:"required"`
	Items        []QuoteLineRequest `json:"items"`
	ValidityDays *int               `json:"validity_days"`
	DeliveryDays *int               `json:"delivery_days"`
	Status       string             `json:"status"`
}

func (r CreateQuoteRequest) ToInput(creator entities.Actor) usecase.CreateQuoteInput {
	lines := make([]entities.RawQuoteLine, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, entities.RawQuoteLine{
			Name:      it.Name,
			Quantity:  string(it.Quantity),
			UnitPrice: string(it.UnitPrice),
		})
	}
	return usecase.CreateQuoteInput{
		Folio:         r.Folio,
		Items:         lines,
		Creator:       creator,
		Meta:          entities.QuoteMeta{ValidityDays: r.ValidityDays, DeliveryDays: r.DeliveryDays},
		InitialStatus: entities.QuoteStatus(strings.ToLower(strings.TrimSpace(r.Status))),
	}
}

type TransitionStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (r TransitionStatusRequest) ResolveStatus() (entities.QuoteStatus, error) {
	s := entities.QuoteStatus(strings.ToLower(strings.TrimSpace(r.Status)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// RejectQuoteRequest carries the mandatory rejection reason. Blank reasons are
// rejected by the usecase.
type RejectQuoteRequest struct {
	Reason string `json:"reason"`
}

// QuoteListParams are the query string filters of GET /v1/quotes.
type QuoteListParams struct {
	Status    string `form:"status"`
	CreatedBy string `form:"created_by"`
	Folio     string `form:"folio"`
	MinTotal  string `form:"min_total"`
	From      string `form:"from"`
	To        string `form:"to"`
}

func (p QuoteListParams) ToQuery() (usecase.QuoteQuery, error) {
	q := usecase.QuoteQuery{
		Filter: entities.QuoteFilter{
			CreatedByUserID: strings.TrimSpace(p.CreatedBy),
		},
		Folio: strings.TrimSpace(p.Folio),
	}
	if s := strings.ToLower(strings.TrimSpace(p.Status)); s != "" {
		status := entities.QuoteStatus(s)
		if !status.IsValid() {
			return usecase.QuoteQuery{}, ErrInvalidStatus
		}
		q.Filter.Status = status
	}
	if v := strings.TrimSpace(p.MinTotal); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return usecase.QuoteQuery{}, ErrInvalidMinTotal
		}
		q.MinTotal = &f
	}
	from, err := parseDay(p.From)
	if err != nil {
		return usecase.QuoteQuery{}, err
	}
	to, err := parseDay(p.To)
	if err != nil {
		return usecase.QuoteQuery{}, err
	}
	q.From, q.To = from, to
	return q, nil
}

func parseDay(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
