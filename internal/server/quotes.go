package server

import (
	"context"
	"fmt"
	"net/http"

	"bikeship/internal/domain/entity"
	"bikeship/internal/domain/service/analyzer"
	"bikeship/internal/domain/value"
	"bikeship/pkg/httpx/reply"
	"bikeship/pkg/httpx/req"
	"bikeship/pkg/rest"
)

type portalSuggester interface {
	Suggest(ctx context.Context, country string) (value.Portal, bool, error)
}

// QuoteServer serves the stateless quote editing helpers: the catalog, the
// default draft, portal changes, analysis and portal suggestions.
type QuoteServer struct {
	suggester portalSuggester
}

func NewQuoteServer(suggester portalSuggester) QuoteServer {
	return QuoteServer{
		suggester: suggester,
	}
}

func (s QuoteServer) getV1Catalog(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTCatalog())
	return nil
}

func (s QuoteServer) postV1QuotesDraft(w http.ResponseWriter, r *http.Request) error {
	quotes := entity.NewDefaultQuoteSet().Quotes()

	reply.JSON(r.Context(), w, http.StatusOK, rest.QuoteSet{Quotes: newRESTQuotes(quotes)})

	return nil
}

func (s QuoteServer) postV1QuotesPortal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PortalChangeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	quotes, err := newDomainQuotes(request.Quotes)
	if err != nil {
		return fmt.Errorf("newDomainQuotes: %w", err)
	}

	portal, err := value.ParsePortal(request.Portal)
	if err != nil {
		return fmt.Errorf("value.ParsePortal: %w", err)
	}

	set, err := entity.QuoteSetFrom(quotes)
	if err != nil {
		return fmt.Errorf("entity.QuoteSetFrom: %w", err)
	}

	if _, err = set.ChangePortal(value.QuoteID(request.QuoteID), portal); err != nil {
		return fmt.Errorf("set.ChangePortal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.QuoteSet{Quotes: newRESTQuotes(set.Quotes())})

	return nil
}

func (s QuoteServer) postV1QuotesAnalyze(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AnalyzeRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	quotes, err := newDomainQuotes(request.Quotes)
	if err != nil {
		return fmt.Errorf("newDomainQuotes: %w", err)
	}

	set, err := entity.QuoteSetFrom(quotes)
	if err != nil {
		return fmt.Errorf("entity.QuoteSetFrom: %w", err)
	}

	decision, err := analyzer.Analyze(set.Quotes(), newDomainQuoteID(request.SelectedQuoteID))
	if err != nil {
		return fmt.Errorf("analyzer.Analyze: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDecision(decision))

	return nil
}

// getV1PortalSuggestion answers 204 when there is nothing to suggest.
func (s QuoteServer) getV1PortalSuggestion(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	country := r.URL.Query().Get("country")

	portal, ok, err := s.suggester.Suggest(ctx, country)
	if err != nil {
		return fmt.Errorf("suggester.Suggest: %w", err)
	}

	if !ok {
		reply.NoContent(w)
		return nil
	}

	reply.JSON(ctx, w, http.StatusOK, rest.PortalSuggestion{Country: country, Portal: portal.String()})

	return nil
}
