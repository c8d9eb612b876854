package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bikeship/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", handler(s.getV1Catalog))

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/draft", handler(s.postV1QuotesDraft))
			r.Post("/portal", handler(s.postV1QuotesPortal))
			r.Post("/analyze", handler(s.postV1QuotesAnalyze))
		})

		r.Get("/portals/suggestion", handler(s.getV1PortalSuggestion))

		r.Route("/shipments", func(r chi.Router) {
			r.Get("/", handler(s.getV1Shipments))
			r.Post("/", handler(s.postV1Shipments))
			r.Get("/{id}", handler(s.getV1Shipment))
			r.Patch("/{id}", handler(s.patchV1Shipment))
			r.Delete("/{id}", handler(s.deleteV1Shipment))
			r.Put("/{id}/status", handler(s.putV1ShipmentStatus))
		})

		r.Get("/dashboard", handler(s.getV1Dashboard))
		r.Get("/reports", handler(s.getV1Report))
		r.Get("/reports/pdf", handler(s.getV1ReportPDF))

		r.Get("/connection", handler(s.getV1Connection))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
