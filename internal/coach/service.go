package coach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fincoach/internal/ai"
)

// Fixed user-facing replies. Never include internal detail.
const (
	replyConfigError = "AI service configuration error. Please contact support."
	replyUnavailable = "I ran into an error with both models. Please try again."
	replyStoreError  = "Something went wrong on my side. Please try again."
	replyUnexpected  = "Unexpected error. Please try again."

	replyDeepUsage = "Please provide a question after /deep for advanced analysis."

	helpText = "*Available commands:*\n" +
		"• /reset - Clear conversation memory\n" +
		"• /stats - View conversation stats\n" +
		"• /deep <question> - Use advanced reasoning mode\n\n" +
		"Just send a regular message to chat with your financial coach!"
)

var (
	resetAliases = []string{"reset", "clear", "restart"}
	statsAliases = []string{"stats", "info", "status"}
)

type service struct {
	repo     Repo
	memory   *Memory
	ai       ai.AI
	outbound Outbound

	promptCfg    PromptConfig
	historyLimit int
	summaryEvery int
}

func NewService(repo Repo, aiClient ai.AI, outbound Outbound) Service {
	return &service{
		repo:         repo,
		memory:       NewMemory(repo),
		ai:           aiClient,
		outbound:     outbound,
		promptCfg:    DefaultPromptConfig(),
		historyLimit: 8,
		summaryEvery: 5,
	}
}

func (s *service) HandleIncoming(ctx context.Context, in *Inbound) (out *Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[svc] panic: %v", rec)
			if in.ChatID != 0 {
				s.send(ctx, in.ChatID, replyUnexpected)
			}
			out = &Outcome{Status: "error", Message: "internal error"}
		}
	}()

	log.Printf("[svc] telegramId=%d chatId=%d text=%q", in.TelegramID, in.ChatID, short(in.Text))

	user, err := s.resolveUser(ctx, in)
	if err != nil {
		log.Printf("[svc] resolve user: %v", err)
		s.send(ctx, in.ChatID, replyStoreError)
		return &Outcome{Status: "error", Message: "user lookup failed"}
	}

	text := strings.TrimSpace(in.Text)
	lower := strings.ToLower(text)

	switch {
	case matchesAlias(lower, resetAliases):
		return s.handleReset(ctx, in.ChatID, user)

	case matchesAlias(lower, statsAliases):
		return s.handleStats(ctx, in.ChatID, user)

	case lower == "/deep" || strings.HasPrefix(lower, "/deep "):
		question := strings.TrimSpace(text[len("/deep"):])
		if question == "" {
			s.send(ctx, in.ChatID, replyDeepUsage)
			return &Outcome{Status: "success", Action: "deep_prompt_missing"}
		}
		return s.handleTurn(ctx, in.ChatID, user, question, true)

	case text != "" && !strings.HasPrefix(text, "/"):
		return s.handleTurn(ctx, in.ChatID, user, text, false)

	case strings.HasPrefix(text, "/"):
		s.send(ctx, in.ChatID, helpText)
		return &Outcome{Status: "success", Action: "help_sent"}

	default:
		// empty text: acknowledge receipt, nothing else
		return &Outcome{Status: "success"}
	}
}

func (s *service) resolveUser(ctx context.Context, in *Inbound) (*User, error) {
	user, err := s.repo.UserByTelegramID(ctx, in.TelegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &User{
		TelegramID: in.TelegramID,
		FirstName:  in.FirstName,
		Username:   in.Username,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("[svc] created user %s (telegramId=%d)", user.FirstName, user.TelegramID)
	return user, nil
}

func (s *service) handleReset(ctx context.Context, chatID int64, user *User) *Outcome {
	deleted, err := s.memory.Reset(ctx, user)
	if err != nil {
		log.Printf("[svc] reset: %v", err)
		s.send(ctx, chatID, replyStoreError)
		return &Outcome{Status: "error", Message: "reset failed"}
	}

	s.send(ctx, chatID, fmt.Sprintf(
		"Memory cleared! Deleted %d conversation(s). Starting fresh as your business mentor.",
		deleted,
	))
	return &Outcome{Status: "success", Action: "memory_reset"}
}

func (s *service) handleStats(ctx context.Context, chatID int64, user *User) *Outcome {
	stats, err := s.repo.ConversationStats(ctx, user.ID)
	if err != nil {
		log.Printf("[svc] stats: %v", err)
		s.send(ctx, chatID, replyStoreError)
		return &Outcome{Status: "error", Message: "stats failed"}
	}

	business := "Not detected"
	if user.BusinessType != nil {
		business = *user.BusinessType
	}
	last := "Never"
	if user.LastInteraction != nil {
		last = user.LastInteraction.Format("2006-01-02 15:04")
	}

	s.send(ctx, chatID, fmt.Sprintf(
		"*Your Financial Coach Stats:*\n"+
			"• Total conversations: %d\n"+
			"• Recent (7 days): %d\n"+
			"• Business: %s\n"+
			"• Last interaction: %s\n\n"+
			"Commands: /reset (clear memory), /stats (this info), /deep (use advanced mode)",
		stats.Total, stats.LastWeek, business, last,
	))
	return &Outcome{Status: "success", Action: "stats_sent"}
}

// handleTurn is the free-text pipeline: context update, history fetch,
// prompt build, inference with model fallback, relay, store, summarize.
func (s *service) handleTurn(ctx context.Context, chatID int64, user *User, text string, deep bool) *Outcome {
	if err := s.memory.UpdateContext(ctx, user, text); err != nil {
		log.Printf("[svc] update context: %v", err)
		s.send(ctx, chatID, replyStoreError)
		return &Outcome{Status: "error", Message: "context update failed"}
	}

	recent, err := s.memory.FetchRecent(ctx, user.ID, s.historyLimit)
	if err != nil {
		log.Printf("[svc] fetch recent: %v", err)
		s.send(ctx, chatID, replyStoreError)
		return &Outcome{Status: "error", Message: "history fetch failed"}
	}

	prompt := BuildPrompt(user, recent, text, s.promptCfg)

	reply, err := s.ai.Complete(ctx, prompt, deep)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			s.send(ctx, chatID, replyConfigError)
			return &Outcome{Status: "error", Message: "ai not configured"}
		}
		log.Printf("[svc] inference: %v", err)
		s.send(ctx, chatID, replyUnavailable)
		return &Outcome{Status: "error", Message: "ai unavailable"}
	}

	s.send(ctx, chatID, reply)

	if _, err := s.memory.StoreExchange(ctx, user.ID, text, reply, Categorize(text)); err != nil {
		log.Printf("[svc] store exchange: %v", err)
		s.send(ctx, chatID, replyStoreError)
		return &Outcome{Status: "error", Message: "exchange store failed"}
	}

	s.maybeSummarize(ctx, user)

	return &Outcome{Status: "success", Reply: reply}
}

func (s *service) maybeSummarize(ctx context.Context, user *User) {
	stats, err := s.repo.ConversationStats(ctx, user.ID)
	if err != nil {
		log.Printf("[svc] summary stats: %v", err)
		return
	}
	if stats.Total > 0 && stats.Total%s.summaryEvery == 0 {
		if err := s.memory.Summarize(ctx, user); err != nil {
			log.Printf("[svc] summarize: %v", err)
		}
	}
}

// send is fire-and-forget: delivery failures are logged, never retried.
func (s *service) send(ctx context.Context, chatID int64, text string) {
	if err := s.outbound.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("[svc] send failed chatId=%d: %v", chatID, err)
	}
}

// matchesAlias reports whether text is exactly the alias token,
// with or without the leading slash.
func matchesAlias(text string, aliases []string) bool {
	for _, a := range aliases {
		if text == a || text == "/"+a {
			return true
		}
	}
	return false
}

func short(s string) string {
	if len(s) > 180 {
		return s[:180] + "..."
	}
	return s
}
