package finance

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	transactions, err := h.repo.TransactionsByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[finance] transactions userId=%d: %v", userID, err)
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []Transaction{}
	}

	writeJSON(w, map[string]any{"transactions": transactions})
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	transactions, err := h.repo.TransactionsByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[finance] analysis userId=%d: %v", userID, err)
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, Analyze(userID, transactions))
}

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	goals, err := h.repo.GoalsByUser(r.Context(), userID)
	if err != nil {
		log.Printf("[finance] goals userId=%d: %v", userID, err)
		http.Error(w, "query error", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []Goal{}
	}

	writeJSON(w, map[string]any{"goals": goals})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
