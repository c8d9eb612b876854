// Package analyzer picks the best quote of a quote set and computes the
// savings against the most expensive one.
package analyzer

import (
	"slices"

	"github.com/shopspring/decimal"

	"bikeship/internal/domain"
	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
)

// ErrNoAnalysis is returned when no quote has a usable price. It is not the
// same as zero savings.
//
//nolint:gochecknoglobals
var ErrNoAnalysis = domain.NewError(errcodes.NoEligibleQuotes, "no analysis available: no quote has a valid price")

type pricedQuote struct {
	quote  entity.Quote
	amount decimal.Decimal
}

// Analyze returns the decision for quotes. selectedID overrides the default
// choice of the cheapest quote; an id that is missing or not eligible falls
// back to the cheapest quote. Equal prices keep insertion order. Quote ids
// must be unique, otherwise an override could resolve to the wrong quote.
func Analyze(quotes []entity.Quote, selectedID *value.QuoteID) (entity.Decision, error) {
	if err := checkUniqueIDs(quotes); err != nil {
		return entity.Decision{}, err
	}

	eligible := make([]pricedQuote, 0, len(quotes))

	for _, q := range quotes {
		if amount, ok := q.Amount(); ok {
			eligible = append(eligible, pricedQuote{quote: q, amount: amount})
		}
	}

	if len(eligible) == 0 {
		return entity.Decision{}, ErrNoAnalysis
	}

	slices.SortStableFunc(eligible, func(a, b pricedQuote) int {
		return a.amount.Cmp(b.amount)
	})

	best := eligible[0]
	worst := eligible[len(eligible)-1]
	selected := best

	if selectedID != nil {
		if i := slices.IndexFunc(eligible, func(p pricedQuote) bool { return p.quote.ID == *selectedID }); i >= 0 {
			selected = eligible[i]
		}
	}

	savings := worst.amount.Sub(selected.amount)
	if savings.IsNegative() {
		return entity.Decision{}, domain.NewError(errcodes.InconsistentDecision,
			"selected quote "+selected.quote.ID.String()+" is priced above the worst quote")
	}

	return entity.Decision{
		Selected: selected.quote,
		Best:     best.quote,
		Worst:    worst.quote,
		Savings:  savings,
	}, nil
}

func checkUniqueIDs(quotes []entity.Quote) error {
	seen := make(map[value.QuoteID]struct{}, len(quotes))

	for _, q := range quotes {
		if _, dup := seen[q.ID]; dup {
			return domain.NewError(errcodes.InvalidQuoteID, "quote id "+q.ID.String()+" is used more than once")
		}
		seen[q.ID] = struct{}{}
	}

	return nil
}
