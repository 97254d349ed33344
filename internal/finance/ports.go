package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction amounts are fixed-point decimals end to end; floats would
// accumulate rounding error on money.
type Transaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type"` // "income" | "expense"
	Category        string          `json:"category"`
	Description     *string         `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	IsBusiness      bool            `json:"is_business"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	GoalType      string          `json:"goal_type"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Analysis struct {
	UserID           int64           `json:"user_id"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetPosition      decimal.Decimal `json:"net_position"`
	TransactionCount int             `json:"transaction_count"`
}

// Repo — persistence
type Repo interface {
	TransactionsByUser(ctx context.Context, userID int64) ([]Transaction, error)
	GoalsByUser(ctx context.Context, userID int64) ([]Goal, error)
}

// Analyze sums income and expenses for one user's transactions.
// Pure; unknown transaction types are counted but not summed.
func Analyze(userID int64, transactions []Transaction) Analysis {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case "income":
			income = income.Add(t.Amount)
		case "expense":
			expenses = expenses.Add(t.Amount)
		}
	}
	return Analysis{
		UserID:           userID,
		TotalIncome:      income,
		TotalExpenses:    expenses,
		NetPosition:      income.Sub(expenses),
		TransactionCount: len(transactions),
	}
}
