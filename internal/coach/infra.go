package coach

import (
	"context"
	"database/sql"
	"errors"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) UserByTelegramID(ctx context.Context, telegramID int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, telegram_id, username, first_name,
		       business_type, business_context, conversation_summary,
		       last_interaction, created_at
		FROM users
		WHERE telegram_id = $1
	`, telegramID)

	var u User
	err := row.Scan(
		&u.ID,
		&u.TelegramID,
		&u.Username,
		&u.FirstName,
		&u.BusinessType,
		&u.BusinessContext,
		&u.ConversationSummary,
		&u.LastInteraction,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) CreateUser(ctx context.Context, u *User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`,
		u.TelegramID,
		u.Username,
		u.FirstName,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) SaveUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET business_type = $1,
		    business_context = $2,
		    conversation_summary = $3,
		    last_interaction = $4
		WHERE id = $5
	`,
		u.BusinessType,
		u.BusinessContext,
		u.ConversationSummary,
		u.LastInteraction,
		u.ID,
	)
	return err
}

func (r *repo) RecentConversations(ctx context.Context, userID int64, limit int) ([]Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, user_message, ai_response, message_type, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.UserMessage,
			&c.AIResponse,
			&c.MessageType,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *repo) SaveConversation(ctx context.Context, c *Conversation) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO conversations (user_id, user_message, ai_response, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		c.UserID,
		c.UserMessage,
		c.AIResponse,
		c.MessageType,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repo) ConversationStats(ctx context.Context, userID int64) (Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE created_at >= now() - interval '7 days')
		FROM conversations
		WHERE user_id = $1
	`, userID).Scan(&s.Total, &s.LastWeek)
	return s, err
}

func (r *repo) ResetUser(ctx context.Context, userID int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM conversations WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET business_type = NULL,
		    business_context = NULL,
		    conversation_summary = NULL,
		    last_interaction = now()
		WHERE id = $1
	`, userID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}
