package entities

import (
	"math"
	"strconv"
	"strings"
)

// RawQuoteLine is a line exactly as typed in the quote form. Every field may hold
// anything, including non-numeric text.
type RawQuoteLine struct {
	Name      string
	Quantity  string
	UnitPrice string
}

// CalculateQuoteLines normalizes raw form lines and sums them.
//
// A line is kept only when its trimmed name is non-empty and its quantity is > 0.
// Dropped lines produce no error. Negative unit prices are passed through. A subtotal
// that overflows, or would push the total past float64 range, is recorded as 0.
func CalculateQuoteLines(raw []RawQuoteLine) ([]QuoteItem, float64) {
	items := make([]QuoteItem, 0, len(raw))
	total := 0.0
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		quantity := coerceNumber(r.Quantity)
		if name == "" || !(quantity > 0) {
			continue
		}
		unitPrice := coerceNumber(r.UnitPrice)
		subtotal := quantity * unitPrice
		if !isFinite(subtotal) || !isFinite(total+subtotal) {
			subtotal = 0
		}
		items = append(items, QuoteItem{
			Product:   name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return items, total
}

// coerceNumber parses v as a float; blanks, garbage, NaN and infinities become 0.
func coerceNumber(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || !isFinite(n) {
		return 0
	}
	return n
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
