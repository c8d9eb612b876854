package value

import (
	"slices"

	"bikeship/internal/domain"
	"bikeship/pkg/errcodes"
)

type Carrier string

const (
	CarrierTNT   Carrier = "TNT"
	CarrierFedex Carrier = "Fedex"
	CarrierDHL   Carrier = "DHL"
	CarrierBRT   Carrier = "BRT"
	CarrierSDA   Carrier = "SDA"
	CarrierUPS   Carrier = "UPS"
)

//nolint:gochecknoglobals
var carriers = []Carrier{CarrierTNT, CarrierFedex, CarrierDHL, CarrierBRT, CarrierSDA, CarrierUPS}

func Carriers() []Carrier {
	return slices.Clone(carriers)
}

func ParseCarrier(s string) (Carrier, error) {
	c := Carrier(s)
	if !slices.Contains(carriers, c) {
		return "", domain.NewError(errcodes.InvalidCarrier, "unknown carrier "+s)
	}

	return c, nil
}

func (c Carrier) String() string {
	return string(c)
}
