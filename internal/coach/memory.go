package coach

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

type keywordRule struct {
	Label    string
	Keywords []string
}

// Message categories in priority order: the first rule whose keyword appears
// in the text wins. "problem" sits after "question" so explicit questions win
// over complaint wording. CategoryGeneral is the fallback.
var categoryRules = []keywordRule{
	{"expense", []string{"spent", "spend", "cost", "expense", "bought", "paid"}},
	{"goal", []string{"goal", "target", "plan", "want to", "hoping"}},
	{"revenue", []string{"profit", "revenue", "income", "sales", "earnings"}},
	{"planning", []string{"budget", "planning", "forecast", "projection"}},
	{"question", []string{"help", "how", "what", "why", "advice"}},
	{"problem", []string{"problem", "issue", "stuck", "struggling", "losing", "worried"}},
}

const CategoryGeneral = "general"

// Business type detection, first match wins. Order is fixed and intentional.
var businessRules = []keywordRule{
	{"clothing", []string{"clothing", "clothes", "fashion", "apparel", "boutique", "fabric", "garment"}},
	{"restaurant", []string{"restaurant", "food", "cafe", "diner", "kitchen", "menu", "cooking", "bakery"}},
	{"retail", []string{"store", "shop", "retail", "sales", "customer", "inventory"}},
	{"service", []string{"service", "consulting", "freelance", "client", "contract"}},
	{"ecommerce", []string{"online", "website", "ecommerce", "shipping", "digital"}},
}

// Categorize maps a message to exactly one category label.
// Case-insensitive substring matching; deterministic and total.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Label
			}
		}
	}
	return CategoryGeneral
}

func detectBusinessType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range businessRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Label
			}
		}
	}
	return ""
}

// Memory mediates all profile and exchange persistence plus the
// classification heuristics.
type Memory struct {
	repo Repo

	SummaryWindow     int
	SummaryMinRecords int
	ContextThreshold  int
	ContextPrefix     int
}

func NewMemory(repo Repo) *Memory {
	return &Memory{
		repo:              repo,
		SummaryWindow:     15,
		SummaryMinRecords: 3,
		ContextThreshold:  50,
		ContextPrefix:     200,
	}
}

// FetchRecent returns at most limit exchanges for the user, newest first.
func (m *Memory) FetchRecent(ctx context.Context, userID int64, limit int) ([]Conversation, error) {
	return m.repo.RecentConversations(ctx, userID, limit)
}

// UpdateContext bumps the interaction timestamp and fills the set-once
// profile fields from the message. On persistence failure the in-memory
// mutations are rolled back before the error is returned.
func (m *Memory) UpdateContext(ctx context.Context, u *User, text string) error {
	prevType := u.BusinessType
	prevContext := u.BusinessContext
	prevLast := u.LastInteraction

	now := time.Now().UTC()
	u.LastInteraction = &now

	if u.BusinessType == nil {
		if bt := detectBusinessType(text); bt != "" {
			u.BusinessType = &bt
			log.Printf("[memory] detected business type %q for user %d", bt, u.ID)
		}
	}

	if u.BusinessContext == nil && len(text) > m.ContextThreshold {
		c := "Initial context: " + clamp(text, m.ContextPrefix) + "..."
		u.BusinessContext = &c
	}

	if err := m.repo.SaveUser(ctx, u); err != nil {
		u.BusinessType = prevType
		u.BusinessContext = prevContext
		u.LastInteraction = prevLast
		return err
	}
	return nil
}

// StoreExchange appends one exchange record and returns it as stored.
func (m *Memory) StoreExchange(ctx context.Context, userID int64, userMessage, reply, category string) (*Conversation, error) {
	conv := &Conversation{
		UserID:      userID,
		UserMessage: userMessage,
		AIResponse:  reply,
		MessageType: category,
	}
	if err := m.repo.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Summarize recomputes the rolling conversation summary from the recent
// window. No-op when there are fewer than SummaryMinRecords exchanges.
// The caller decides cadence.
func (m *Memory) Summarize(ctx context.Context, u *User) error {
	recent, err := m.repo.RecentConversations(ctx, u.ID, m.SummaryWindow)
	if err != nil {
		return err
	}
	if len(recent) < m.SummaryMinRecords {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, conv := range recent {
		label := Categorize(conv.UserMessage)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	// top 3 by frequency, first-encountered order breaks ties
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > 3 {
		order = order[:3]
	}

	parts := make([]string, 0, len(order))
	for _, label := range order {
		parts = append(parts, fmt.Sprintf("%s(%d)", label, counts[label]))
	}

	summary := fmt.Sprintf("Recent focus: %s. Last interaction: %s",
		strings.Join(parts, ", "),
		recent[0].CreatedAt.Format("2006-01-02"),
	)

	prev := u.ConversationSummary
	u.ConversationSummary = &summary
	if err := m.repo.SaveUser(ctx, u); err != nil {
		u.ConversationSummary = prev
		return err
	}
	return nil
}

// Reset wipes the user's conversation log and derived profile fields.
// Returns the number of deleted exchanges.
func (m *Memory) Reset(ctx context.Context, u *User) (int64, error) {
	deleted, err := m.repo.ResetUser(ctx, u.ID)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	u.BusinessType = nil
	u.BusinessContext = nil
	u.ConversationSummary = nil
	u.LastInteraction = &now
	return deleted, nil
}

// clamp cuts s down to at most n characters; shorter strings pass through.
// Cuts on rune boundaries so multibyte text stays valid UTF-8.
func clamp(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
