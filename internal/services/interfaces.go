package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/hearthshare/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	CreateSession(ctx context.Context, userID uuid.UUID) (token string, err error)
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error
}

// FamilyServiceInterface defines the contract for family membership and
// invite operations used by handlers.
type FamilyServiceInterface interface {
	CreateFamily(ctx context.Context, callerID uuid.UUID, name string) (*CreateFamilyResult, error)
	JoinFamily(ctx context.Context, callerID uuid.UUID, code string) (*JoinFamilyResult, error)
	CreateInvite(ctx context.Context, callerID, familyID uuid.UUID) (*CreateInviteResult, error)
	LeaveFamily(ctx context.Context, callerID, familyID uuid.UUID) error
	RemoveMember(ctx context.Context, callerID, familyID, memberID uuid.UUID) error
	DisbandFamily(ctx context.Context, callerID, familyID uuid.UUID) error
	GetByID(ctx context.Context, familyID uuid.UUID) (*models.Family, error)
	ListMembers(ctx context.Context, familyID uuid.UUID) ([]models.User, error)
}

// ListServiceInterface defines the contract for shared list operations.
type ListServiceInterface interface {
	CreateList(ctx context.Context, callerID, familyID uuid.UUID, name string) (*models.List, error)
	ListsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.List, error)
	DeleteList(ctx context.Context, familyID, listID uuid.UUID) error
	AddItem(ctx context.Context, callerID, familyID uuid.UUID, params models.AddItemParams) (*models.ListItem, error)
	ItemsByList(ctx context.Context, familyID, listID uuid.UUID) ([]models.ListItem, error)
	RenameItem(ctx context.Context, familyID, itemID uuid.UUID, name string) error
	SetItemStatus(ctx context.Context, callerID, familyID, itemID uuid.UUID, status string) (*models.ListItem, error)
	AssignItem(ctx context.Context, familyID, itemID uuid.UUID, assigneeID *uuid.UUID) error
	DeleteItem(ctx context.Context, familyID, itemID uuid.UUID) error
	Suggestions(ctx context.Context, familyID uuid.UUID) ([]models.Suggestion, error)
}

// ExpenseServiceInterface defines the contract for spending operations.
type ExpenseServiceInterface interface {
	AddExpense(ctx context.Context, callerID, familyID uuid.UUID, amount float64, category string, date time.Time) (*models.Expense, error)
	ExpensesByFamily(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.Expense, error)
	DeleteExpense(ctx context.Context, familyID, expenseID uuid.UUID) error
	SpendingSummary(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.CategorySpend, error)
	AddCategory(ctx context.Context, familyID uuid.UUID, name string) (*models.Category, error)
	CategoriesByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Category, error)
	UpsertBudget(ctx context.Context, callerID, familyID uuid.UUID, category string, limit float64, period string) (*models.Budget, error)
	BudgetsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, familyID, budgetID uuid.UUID) error
}
