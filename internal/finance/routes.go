package finance

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/api/transactions/{userID}", h.ListTransactions)
	r.Get("/api/analysis/{userID}", h.GetAnalysis)
	r.Get("/api/goals/{userID}", h.ListGoals)
}
