package entity

import (
	"slices"

	"bikeship/internal/domain"
	"bikeship/internal/domain/value"
	"bikeship/pkg/errcodes"
)

// QuoteSet is the ordered, editable list of quotes of one shipment draft.
// Quote ids are allocated from a counter that never goes back, so an id
// removed from the set is never handed out again.
type QuoteSet struct {
	quotes []Quote
	lastID value.QuoteID
}

func NewQuoteSet() *QuoteSet {
	return &QuoteSet{}
}

// NewDefaultQuoteSet returns the blank three-quote draft a new shipment
// starts with.
func NewDefaultQuoteSet() *QuoteSet {
	s := NewQuoteSet()

	for _, p := range []value.Portal{value.PortalMBE, value.PortalMyParcel, value.PortalMyDHL} {
		s.Add(p, value.CarrierTNT, "")
	}

	return s
}

// QuoteSetFrom rebuilds an editable set from stored or client quotes. Carriers
// a portal does not permit are reset. Quotes without an id (zero or negative)
// are numbered in order after the highest given id, and the counter continues
// from there. A positive id given twice is an InvalidQuoteID error.
func QuoteSetFrom(quotes []Quote) (*QuoteSet, error) {
	s := &QuoteSet{quotes: make([]Quote, 0, len(quotes))}
	seen := make(map[value.QuoteID]struct{}, len(quotes))

	for _, q := range quotes {
		if q.ID <= 0 {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			return nil, domain.NewError(errcodes.InvalidQuoteID, "quote id "+q.ID.String()+" is used more than once")
		}
		seen[q.ID] = struct{}{}

		if q.ID > s.lastID {
			s.lastID = q.ID
		}
	}

	for _, q := range quotes {
		if q.ID <= 0 {
			s.lastID++
			q.ID = s.lastID
		}
		q.Carrier = q.Portal.Reconcile(q.Carrier)
		s.quotes = append(s.quotes, q)
	}

	return s, nil
}

func (s *QuoteSet) Add(portal value.Portal, carrier value.Carrier, price string) Quote {
	s.lastID++

	q := Quote{
		ID:      s.lastID,
		Portal:  portal,
		Carrier: portal.Reconcile(carrier),
		Price:   price,
	}
	s.quotes = append(s.quotes, q)

	return q
}

// Remove deletes the quote with id. It reports whether anything was removed.
func (s *QuoteSet) Remove(id value.QuoteID) bool {
	before := len(s.quotes)
	s.quotes = slices.DeleteFunc(s.quotes, func(q Quote) bool { return q.ID == id })

	return len(s.quotes) != before
}

// ChangePortal moves a quote to another portal. A carrier the new portal does
// not permit is replaced right away by the portal's first permitted carrier;
// the previous carrier is not remembered.
func (s *QuoteSet) ChangePortal(id value.QuoteID, portal value.Portal) (Quote, error) {
	i, err := s.index(id)
	if err != nil {
		return Quote{}, err
	}

	s.quotes[i].Portal = portal
	s.quotes[i].Carrier = portal.Reconcile(s.quotes[i].Carrier)

	return s.quotes[i], nil
}

func (s *QuoteSet) ChangeCarrier(id value.QuoteID, carrier value.Carrier) (Quote, error) {
	i, err := s.index(id)
	if err != nil {
		return Quote{}, err
	}

	if !s.quotes[i].Portal.Permits(carrier) {
		return Quote{}, domain.NewError(errcodes.InvalidCarrier,
			carrier.String()+" is not available on "+s.quotes[i].Portal.String())
	}

	s.quotes[i].Carrier = carrier

	return s.quotes[i], nil
}

func (s *QuoteSet) SetPrice(id value.QuoteID, price string) (Quote, error) {
	i, err := s.index(id)
	if err != nil {
		return Quote{}, err
	}

	s.quotes[i].Price = price

	return s.quotes[i], nil
}

func (s *QuoteSet) Get(id value.QuoteID) (Quote, bool) {
	i, err := s.index(id)
	if err != nil {
		return Quote{}, false
	}

	return s.quotes[i], true
}

func (s *QuoteSet) Len() int {
	return len(s.quotes)
}

// Quotes returns a copy of the quotes in insertion order. Quote holds no
// references, so the copy is detached from the set.
func (s *QuoteSet) Quotes() []Quote {
	return slices.Clone(s.quotes)
}

func (s *QuoteSet) index(id value.QuoteID) (int, error) {
	i := slices.IndexFunc(s.quotes, func(q Quote) bool { return q.ID == id })
	if i < 0 {
		return -1, domain.NewError(errcodes.InvalidQuoteID, "quote "+id.String()+" is not in the set")
	}

	return i, nil
}
