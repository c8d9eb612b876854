package entity

import (
	"github.com/shopspring/decimal"

	"bikeship/internal/domain/value"
)

// Quote is one carrier/portal price offer. Price keeps the raw user input so
// a quote can exist before it is filled in.
type Quote struct {
	ID      value.QuoteID `json:"id"`
	Portal  value.Portal  `json:"portal"`
	Carrier value.Carrier `json:"carrier"`
	Price   string        `json:"price"`
}

// Amount returns the parsed price. ok is false when the quote is not
// eligible for analysis.
func (q Quote) Amount() (amount decimal.Decimal, ok bool) {
	amount, err := value.ParseAmount(q.Price)
	if err != nil {
		return decimal.Zero, false
	}

	return amount, true
}

func (q Quote) Eligible() bool {
	_, ok := q.Amount()
	return ok
}
