package coach

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type webhookPayload struct {
	Message *struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			ID        int64   `json:"id"`
			FirstName string  `json:"first_name"`
			Username  *string `json:"username"`
		} `json:"from"`
		Text string `json:"text"`
	} `json:"message"`
}

// HandleWebhook decodes one Telegram update and dispatches it. The response
// is always HTTP 200 with a JSON status body; non-200 would make the
// platform re-deliver the update.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("[webhook] bad payload: %v", err)
		writeJSON(w, map[string]any{"status": "error", "message": "invalid json"})
		return
	}

	// updates without a message (edits, joins, ...) are acknowledged as-is
	if payload.Message == nil {
		writeJSON(w, map[string]any{"status": "success"})
		return
	}

	in := &Inbound{
		TelegramID: payload.Message.From.ID,
		ChatID:     payload.Message.Chat.ID,
		FirstName:  payload.Message.From.FirstName,
		Username:   payload.Message.From.Username,
		Text:       payload.Message.Text, // absent text decodes to ""
	}

	out := h.svc.HandleIncoming(r.Context(), in)

	resp := map[string]any{"status": out.Status}
	if out.Action != "" {
		resp["action"] = out.Action
	}
	if out.Reply != "" {
		resp["ai_response"] = out.Reply
	}
	if out.Message != "" {
		resp["message"] = out.Message
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
