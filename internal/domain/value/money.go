package value

import (
	"strings"

	"github.com/shopspring/decimal"

	"bikeship/internal/domain"
	"bikeship/pkg/errcodes"
)

// ParseAmount parses a user-entered money amount. Blank input, anything that
// is not a finite decimal number and negative values are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, domain.NewError(errcodes.InvalidPrice, "amount is blank")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.WrapError(err, errcodes.InvalidPrice, "amount is not a number")
	}

	if amount.IsNegative() {
		return decimal.Zero, domain.NewError(errcodes.InvalidPrice, "amount is negative")
	}

	return amount, nil
}
