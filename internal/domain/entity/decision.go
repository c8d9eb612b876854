package entity

import "github.com/shopspring/decimal"

// Decision is the outcome of analyzing a quote set.
type Decision struct {
	Selected Quote           `json:"selected"`
	Best     Quote           `json:"best"`
	Worst    Quote           `json:"worst"`
	Savings  decimal.Decimal `json:"savings"`
}
