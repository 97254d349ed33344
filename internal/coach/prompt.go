package coach

import (
	"fmt"
	"strings"
)

// PromptConfig tunes the prompt builder.
type PromptConfig struct {
	MaxExchanges       int  // how many recent exchanges to render
	TruncateAt         int  // per-line character budget for history lines
	IncludeLongContext bool // include business context and rolling summary
}

func DefaultPromptConfig() PromptConfig {
	return PromptConfig{
		MaxExchanges:       2,
		TruncateAt:         60,
		IncludeLongContext: true,
	}
}

// BuildPrompt assembles the mentor prompt from the profile, the recent
// exchanges (newest first, as FetchRecent returns them) and the new message.
// Pure: no I/O, deterministic given its inputs.
func BuildPrompt(u *User, recent []Conversation, message string, cfg PromptConfig) string {
	parts := []string{
		fmt.Sprintf("You are a seasoned business mentor helping %s.", u.FirstName),
	}

	if u.BusinessType != nil {
		parts = append(parts, fmt.Sprintf("They run a %s business.", *u.BusinessType))
	}

	if cfg.IncludeLongContext {
		if u.BusinessContext != nil {
			parts = append(parts, *u.BusinessContext)
		}
		if u.ConversationSummary != nil {
			parts = append(parts, *u.ConversationSummary)
		}
	}

	if len(recent) > 0 {
		parts = append(parts, "\nRecent context:")
		n := cfg.MaxExchanges
		if n > len(recent) {
			n = len(recent)
		}
		// newest-first input, rendered chronologically
		for i := n - 1; i >= 0; i-- {
			parts = append(parts,
				"• "+clamp(recent[i].UserMessage, cfg.TruncateAt)+"...",
				"• "+clamp(recent[i].AIResponse, cfg.TruncateAt)+"...",
			)
		}
	}

	parts = append(parts,
		fmt.Sprintf("\nCurrent: %q", message),

		"\nYour response style:",
		"• Professional but approachable (not overly friendly)",
		"• Ask 1-2 specific follow-up questions when you need more context",
		"• Be direct about problems you spot",
		"• Admit uncertainty when you need more details",

		"CRITICAL: Keep your response to 2-3 sentences maximum (40-80 words).",
		"Do not write paragraphs. Be concise and practical.",

		"\nRespond briefly as their business mentor:",
	)

	return strings.Join(parts, "\n")
}
