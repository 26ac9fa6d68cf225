package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/hearthshare/internal/models"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrBudgetNotFound   = errors.New("budget not found")
	ErrInvalidPeriod    = errors.New("invalid budget period")
	ErrCategoryRequired = errors.New("category is required")
)

const defaultExpenseCategory = "General"

// ExpenseService tracks household spending: expenses, categories and
// per-category budgets.
type ExpenseService struct {
	db DB
}

func NewExpenseService(db DB) *ExpenseService {
	return &ExpenseService{db: db}
}

func (s *ExpenseService) AddExpense(ctx context.Context, callerID, familyID uuid.UUID, amount float64, category string, date time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = defaultExpenseCategory
	}
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO expenses (family_id, amount, category, date, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, family_id, amount, category, date, created_by, created_at`,
		familyID, amount, category, date, callerID,
	).Scan(&expense.ID, &expense.FamilyID, &expense.Amount, &expense.Category, &expense.Date, &expense.CreatedBy, &expense.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return expense, nil
}

func (s *ExpenseService) ExpensesByFamily(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.Expense, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, amount, category, date, created_by, created_at
		 FROM expenses WHERE family_id = $1 AND date >= $2
		 ORDER BY date DESC`,
		familyID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.FamilyID, &e.Amount, &e.Category, &e.Date, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, familyID, expenseID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM expenses WHERE id = $1 AND family_id = $2`,
		expenseID, familyID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// SpendingSummary sums spending per category since the given time.
func (s *ExpenseService) SpendingSummary(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.CategorySpend, error) {
	rows, err := s.db.Query(ctx,
		`SELECT category, SUM(amount)
		 FROM expenses WHERE family_id = $1 AND date >= $2
		 GROUP BY category
		 ORDER BY SUM(amount) DESC`,
		familyID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("spending summary: %w", err)
	}
	defer rows.Close()

	var summary []models.CategorySpend
	for rows.Next() {
		var cs models.CategorySpend
		if err := rows.Scan(&cs.Category, &cs.Total); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary = append(summary, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("spending summary: %w", err)
	}
	if summary == nil {
		summary = []models.CategorySpend{}
	}
	return summary, nil
}

func (s *ExpenseService) AddCategory(ctx context.Context, familyID uuid.UUID, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryRequired
	}

	category := &models.Category{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (family_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (family_id, name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, family_id, name, created_at`,
		familyID, name,
	).Scan(&category.ID, &category.FamilyID, &category.Name, &category.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return category, nil
}

func (s *ExpenseService) CategoriesByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, name, created_at
		 FROM categories WHERE family_id = $1
		 ORDER BY name`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// UpsertBudget sets the limit for a category/period pair, creating the
// budget if the family has none for that pair yet.
func (s *ExpenseService) UpsertBudget(ctx context.Context, callerID, familyID uuid.UUID, category string, limit float64, period string) (*models.Budget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidAmount
	}
	if period != models.BudgetPeriodWeekly && period != models.BudgetPeriodMonthly {
		return nil, ErrInvalidPeriod
	}

	budget := &models.Budget{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO budgets (family_id, category, limit_amount, period, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (family_id, category, period)
		 DO UPDATE SET limit_amount = EXCLUDED.limit_amount, updated_at = NOW()
		 RETURNING id, family_id, category, limit_amount, period, created_by, created_at, updated_at`,
		familyID, category, limit, period, callerID,
	).Scan(&budget.ID, &budget.FamilyID, &budget.Category, &budget.LimitAmount, &budget.Period, &budget.CreatedBy, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	return budget, nil
}

func (s *ExpenseService) BudgetsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Budget, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, category, limit_amount, period, created_by, created_at, updated_at
		 FROM budgets WHERE family_id = $1
		 ORDER BY category`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.FamilyID, &b.Category, &b.LimitAmount, &b.Period, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

func (s *ExpenseService) DeleteBudget(ctx context.Context, familyID, budgetID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND family_id = $2`,
		budgetID, familyID,
	)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrBudgetNotFound
	}
	return nil
}
