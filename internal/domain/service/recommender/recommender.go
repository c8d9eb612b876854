// Package recommender suggests a shipping portal for a destination country
// from the portals past shipments to that country were sent with.
package recommender

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/value"
	"bikeship/pkg/contextx"
	"bikeship/pkg/lox"
)

const (
	suggestionCacheTTL = 5 * time.Minute
	cleanupInterval    = 10 * time.Minute
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ShipmentLister interface {
	List(ctx context.Context) ([]entity.Shipment, error)
}

// suggestion is what the cache stores per country. A zero Portal with
// found=false is a cached "no suggestion".
type suggestion struct {
	portal value.Portal
	found  bool
}

type Recommender struct {
	shipments ShipmentLister
	cache     *cache.Cache
	ttl       time.Duration
}

func NewRecommender(shipments ShipmentLister) *Recommender {
	return &Recommender{
		shipments: shipments,
		cache:     cache.New(suggestionCacheTTL, cleanupInterval),
		ttl:       suggestionCacheTTL,
	}
}

// WithCacheTTL sets how long a per-country suggestion is reused. Zero or a
// negative value disables caching.
func (r *Recommender) WithCacheTTL(ttl time.Duration) *Recommender {
	r.ttl = ttl
	return r
}

// Suggest returns the portal most often chosen for shipments to country.
// ok is false when country is blank or nothing was shipped there yet.
func (r *Recommender) Suggest(ctx context.Context, country string) (value.Portal, bool, error) {
	key := normalizeCountry(country)
	if key == "" {
		return "", false, nil
	}

	if r.ttl > 0 {
		if cached, found := r.cache.Get(key); found {
			s := cached.(suggestion) //nolint:forcetypeassert // only suggestions are stored
			return s.portal, s.found, nil
		}
	}

	shipments, err := r.shipments.List(ctx)
	if err != nil {
		return "", false, fmt.Errorf("recommender.Suggest: %w", err)
	}

	portal, found := MostUsedPortal(shipments, country)

	if r.ttl > 0 {
		r.cache.Set(key, suggestion{portal: portal, found: found}, r.ttl)
	}

	logger(ctx).Debug("portal suggestion computed",
		"country", key,
		"portal", portal,
		"found", found,
	)

	return portal, found, nil
}

// Invalidate drops every cached suggestion. It is called after any write to
// the shipment store.
func (r *Recommender) Invalidate() {
	r.cache.Flush()
}

// MostUsedPortal tallies the selected portal of every shipment whose
// destination matches country, ignoring case. Ties go to the portal seen
// first in shipments.
func MostUsedPortal(shipments []entity.Shipment, country string) (value.Portal, bool) {
	key := normalizeCountry(country)
	if key == "" {
		return "", false
	}

	tally := lox.NewTally[value.Portal, int]()
	for _, s := range shipments {
		if normalizeCountry(s.DestinationCountry) != key {
			continue
		}
		tally.Add(s.SelectedQuote.Portal, 1)
	}

	portal, _, ok := tally.Max()
	return portal, ok
}

func normalizeCountry(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}
