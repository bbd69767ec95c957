package usecase

import (
	"loncheras_plus/internal/domain/entities"
	"sort"
	"strings"
	"time"
)

// QuoteQuery combines repository equality filters with the analyst panel predicates.
// From and To are calendar days (UTC); To includes its whole day.
type QuoteQuery struct {
	Filter   entities.QuoteFilter
	Folio    string
	MinTotal *float64
	From     *time.Time
	To       *time.Time
}

// QuoteStatistics is an aggregation over an already fetched list.
type QuoteStatistics struct {
	ByStatus       map[entities.QuoteStatus]int `json:"by_status"`
	TotalQuotes    int                          `json:"total_quotes"`
	TotalValue     float64                      `json:"total_value"`
	ApprovedValue  float64                      `json:"approved_value"`
	ConversionRate float64                      `json:"conversion_rate"`
}

// FilterQuotes applies the query predicates and returns a new slice sorted by
// CreatedAt, newest first. The input slice is not modified.
func FilterQuotes(quotes []entities.Quote, query QuoteQuery) []entities.Quote {
	folio := strings.ToLower(strings.TrimSpace(query.Folio))
	var from, to time.Time
	if query.From != nil {
		from = startOfDay(*query.From)
	}
	if query.To != nil {
		to = startOfDay(*query.To).Add(24*time.Hour - time.Nanosecond)
	}

	out := make([]entities.Quote, 0, len(quotes))
	for _, q := range quotes {
		if !query.Filter.Matches(q) {
			continue
		}
		if folio != "" && !strings.Contains(strings.ToLower(q.Folio), folio) {
			continue
		}
		if query.MinTotal != nil && q.Total < *query.MinTotal {
			continue
		}
		if query.From != nil && q.CreatedAt.Before(from) {
			continue
		}
		if query.To != nil && q.CreatedAt.After(to) {
			continue
		}
		out = append(out, q)
	}
	SortByCreatedAtDesc(out)
	return out
}

// SortByCreatedAtDesc sorts quotes in place, newest first.
func SortByCreatedAtDesc(quotes []entities.Quote) {
	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
}

// GetQuoteStatistics counts quotes per status and sums their totals.
// ConversionRate is the approved share as a percentage (0 when the list is empty).
func GetQuoteStatistics(quotes []entities.Quote) QuoteStatistics {
	stats := QuoteStatistics{ByStatus: make(map[entities.QuoteStatus]int, len(entities.AllQuoteStatuses))}
	for _, s := range entities.AllQuoteStatuses {
		stats.ByStatus[s] = 0
	}

	approved := 0
	for _, q := range quotes {
		stats.ByStatus[q.Status]++
		stats.TotalQuotes++
		stats.TotalValue += q.Total
		if q.Status == entities.QuoteStatusApproved {
			approved++
			stats.ApprovedValue += q.Total
		}
	}
	if stats.TotalQuotes > 0 {
		stats.ConversionRate = float64(approved) / float64(stats.TotalQuotes) * 100
	}
	return stats
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
