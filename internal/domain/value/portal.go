package value

import (
	"slices"

	"bikeship/internal/domain"
	"bikeship/pkg/errcodes"
)

type Portal string

const (
	PortalMBE      Portal = "MBE"
	PortalMyParcel Portal = "My Parcel"
	PortalMyDHL    Portal = "My DHL"
	PortalBRT      Portal = "BRT"
)

//nolint:gochecknoglobals
var (
	portals = []Portal{PortalMBE, PortalMyParcel, PortalMyDHL, PortalBRT}

	// Portals missing from this table accept every carrier.
	lockedCarriers = map[Portal][]Carrier{
		PortalMyDHL: {CarrierDHL},
		PortalBRT:   {CarrierBRT},
	}
)

// Portals returns every known portal in display order.
func Portals() []Portal {
	return slices.Clone(portals)
}

func ParsePortal(s string) (Portal, error) {
	p := Portal(s)
	if !slices.Contains(portals, p) {
		return "", domain.NewError(errcodes.InvalidPortal, "unknown portal "+s)
	}

	return p, nil
}

func (p Portal) String() string {
	return string(p)
}

// AllowedCarriers returns the carriers a quote under p may use, first one
// being the carrier a quote is reset to when its portal changes.
func (p Portal) AllowedCarriers() []Carrier {
	if locked, ok := lockedCarriers[p]; ok {
		return slices.Clone(locked)
	}

	return Carriers()
}

func (p Portal) Permits(c Carrier) bool {
	return slices.Contains(p.AllowedCarriers(), c)
}

// Reconcile returns c when p permits it and p's first permitted carrier
// otherwise.
func (p Portal) Reconcile(c Carrier) Carrier {
	if p.Permits(c) {
		return c
	}

	return p.AllowedCarriers()[0]
}
