package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты API и /metrics.
func NewRouter(h *Handler, log *zap.Logger, reg *prometheus.Registry) http.Handler {
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		// тендеры
		r.Get("/tenders", h.GetTendersHandler)
		r.Post("/tenders/new", h.CreateTenderHandler)
		r.Get("/tenders/my", h.GetUserTendersHandler)
		r.Get("/tenders/{tenderId}/status", h.GetTenderStatusHandler)
		r.Put("/tenders/{tenderId}/status", h.UpdateTenderStatusHandler)
		r.Patch("/tenders/{tenderId}/edit", h.EditTenderHandler)
		r.Put("/tenders/{tenderId}/rollback/{version}", h.RollbackTenderHandler)
		// предложения (bids)
		r.Post("/bids/new", h.CreateBidHandler)
		r.Get("/bids/my", h.GetUserBidsHandler)
		r.Get("/bids/{tenderId}/list", h.GetBidsForTenderHandler)
		r.Get("/bids/{bidId}/status", h.GetBidStatusHandler)
		r.Put("/bids/{bidId}/status", h.UpdateBidStatusHandler)
		r.Patch("/bids/{bidId}/edit", h.EditBidHandler)
		r.Put("/bids/{bidId}/submit_decision", h.SubmitBidDecisionHandler)
		r.Put("/bids/{bidId}/feedback", h.CreateBidFeedbackHandler)
		r.Put("/bids/{bidId}/rollback/{version}", h.RollbackBidHandler)
		r.Get("/bids/{tenderId}/reviews", h.GetBidReviewsHandler)
	})

	return r
}
