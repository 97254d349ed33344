package coach

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Repo lookups when no row matches.
var ErrNotFound = errors.New("coach: not found")

// User is the per-user mutable profile, distinct from the append-only
// conversation log. BusinessType and BusinessContext are set at most once;
// only Reset clears them.
type User struct {
	ID                  int64
	TelegramID          int64
	Username            *string
	FirstName           string
	BusinessType        *string
	BusinessContext     *string
	ConversationSummary *string
	LastInteraction     *time.Time
	CreatedAt           time.Time
}

// Conversation is one user-message/reply exchange. Append-only.
type Conversation struct {
	ID          int64
	UserID      int64
	UserMessage string
	AIResponse  string
	MessageType string
	CreatedAt   time.Time
}

// Stats are per-user conversation counts.
type Stats struct {
	Total    int
	LastWeek int
}

// Inbound is one decoded webhook message.
type Inbound struct {
	TelegramID int64
	ChatID     int64
	FirstName  string
	Username   *string
	Text       string
}

// Outcome is what the webhook responds with. Status is "success" or "error";
// at most one of Action/Reply/Message is set.
type Outcome struct {
	Status  string
	Action  string
	Reply   string
	Message string
}

// Outbound sends replies back to the chat platform.
type Outbound interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Repo — persistence
type Repo interface {
	UserByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	SaveUser(ctx context.Context, u *User) error

	RecentConversations(ctx context.Context, userID int64, limit int) ([]Conversation, error)
	SaveConversation(ctx context.Context, c *Conversation) error
	ConversationStats(ctx context.Context, userID int64) (Stats, error)

	// ResetUser deletes the user's conversations and nulls the derived
	// profile fields in one transaction. Returns the deleted count.
	ResetUser(ctx context.Context, userID int64) (int64, error)
}

// Service — dispatch. Never returns an error: failures fold into the
// outcome so the webhook can always answer 200.
type Service interface {
	HandleIncoming(ctx context.Context, in *Inbound) *Outcome
}
