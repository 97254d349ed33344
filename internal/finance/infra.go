package finance

import (
	"context"
	"database/sql"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) TransactionsByUser(ctx context.Context, userID int64) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, type, category, description,
		       transaction_date, is_business, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Amount,
			&t.Type,
			&t.Category,
			&t.Description,
			&t.TransactionDate,
			&t.IsBusiness,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *repo) GoalsByUser(ctx context.Context, userID int64) ([]Goal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, goal_type, target_amount, current_amount,
		       target_date, is_active, created_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID,
			&g.UserID,
			&g.GoalType,
			&g.TargetAmount,
			&g.CurrentAmount,
			&g.TargetDate,
			&g.IsActive,
			&g.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}

	return out, rows.Err()
}
