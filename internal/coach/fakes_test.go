package coach

import (
	"context"
	"time"

	"fincoach/internal/ai"
)

// fakeRepo is an in-memory Repo for service and memory tests.
type fakeRepo struct {
	users         map[int64]*User // keyed by telegram id
	nextUserID    int64
	conversations []Conversation
	nextConvID    int64

	lookupErr   error
	createErr   error
	saveUserErr error
	saveConvErr error
	recentErr   error
	statsErr    error
	resetErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int64]*User)}
}

func (f *fakeRepo) UserByTelegramID(_ context.Context, telegramID int64) (*User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	u, ok := f.users[telegramID]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, u *User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextUserID++
	u.ID = f.nextUserID
	u.CreatedAt = time.Now().UTC()
	f.users[u.TelegramID] = u
	return nil
}

func (f *fakeRepo) SaveUser(_ context.Context, u *User) error {
	// users are shared pointers, mutations are already visible
	return f.saveUserErr
}

func (f *fakeRepo) RecentConversations(_ context.Context, userID int64, limit int) ([]Conversation, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []Conversation
	for i := len(f.conversations) - 1; i >= 0 && len(out) < limit; i-- {
		if f.conversations[i].UserID == userID {
			out = append(out, f.conversations[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveConversation(_ context.Context, c *Conversation) error {
	if f.saveConvErr != nil {
		return f.saveConvErr
	}
	f.nextConvID++
	c.ID = f.nextConvID
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	f.conversations = append(f.conversations, *c)
	return nil
}

func (f *fakeRepo) ConversationStats(_ context.Context, userID int64) (Stats, error) {
	if f.statsErr != nil {
		return Stats{}, f.statsErr
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -7)
	var s Stats
	for _, c := range f.conversations {
		if c.UserID != userID {
			continue
		}
		s.Total++
		if c.CreatedAt.After(cutoff) {
			s.LastWeek++
		}
	}
	return s, nil
}

func (f *fakeRepo) ResetUser(_ context.Context, userID int64) (int64, error) {
	if f.resetErr != nil {
		return 0, f.resetErr
	}
	var kept []Conversation
	var deleted int64
	for _, c := range f.conversations {
		if c.UserID == userID {
			deleted++
		} else {
			kept = append(kept, c)
		}
	}
	f.conversations = kept

	for _, u := range f.users {
		if u.ID == userID {
			u.BusinessType = nil
			u.BusinessContext = nil
			u.ConversationSummary = nil
			now := time.Now().UTC()
			u.LastInteraction = &now
		}
	}
	return deleted, nil
}

// seedConversation appends a row with an explicit timestamp.
func (f *fakeRepo) seedConversation(userID int64, userMessage, reply, category string, at time.Time) {
	f.nextConvID++
	f.conversations = append(f.conversations, Conversation{
		ID:          f.nextConvID,
		UserID:      userID,
		UserMessage: userMessage,
		AIResponse:  reply,
		MessageType: category,
		CreatedAt:   at,
	})
}

type fakeAI struct {
	reply string
	err   error

	prompts []string
	deep    []bool
}

func (f *fakeAI) Complete(_ context.Context, prompt string, deep bool) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.deep = append(f.deep, deep)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var _ ai.AI = (*fakeAI)(nil)

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeOutbound struct {
	sent []sentMessage
	err  error
}

func (f *fakeOutbound) SendMessage(_ context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return f.err
}
