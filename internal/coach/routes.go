package coach

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/webhook/telegram", h.HandleWebhook)
}
