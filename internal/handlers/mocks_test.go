package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/hearthshare/internal/models"
	"github.com/hearthshare/hearthshare/internal/services"
)

type mockUserService struct {
	CreateFunc        func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	UpdateProfileFunc func(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, params)
	}
	return nil, nil
}

type mockAuthService struct {
	HashPasswordFunc    func(password string) (string, error)
	VerifyPasswordFunc  func(hash, password string) bool
	CreateSessionFunc   func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateSessionFunc func(ctx context.Context, token string) (*models.User, error)
	DeleteSessionFunc   func(ctx context.Context, token string) error

	DeleteAllUserSessionsFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return true
}

func (m *mockAuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, userID)
	}
	return "session_token_value", nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	return nil, services.ErrSessionNotFound
}

func (m *mockAuthService) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthService) DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAllUserSessionsFunc != nil {
		return m.DeleteAllUserSessionsFunc(ctx, userID)
	}
	return nil
}

type mockFamilyService struct {
	CreateFamilyFunc  func(ctx context.Context, callerID uuid.UUID, name string) (*services.CreateFamilyResult, error)
	JoinFamilyFunc    func(ctx context.Context, callerID uuid.UUID, code string) (*services.JoinFamilyResult, error)
	CreateInviteFunc  func(ctx context.Context, callerID, familyID uuid.UUID) (*services.CreateInviteResult, error)
	LeaveFamilyFunc   func(ctx context.Context, callerID, familyID uuid.UUID) error
	RemoveMemberFunc  func(ctx context.Context, callerID, familyID, memberID uuid.UUID) error
	DisbandFamilyFunc func(ctx context.Context, callerID, familyID uuid.UUID) error
	GetByIDFunc       func(ctx context.Context, familyID uuid.UUID) (*models.Family, error)
	ListMembersFunc   func(ctx context.Context, familyID uuid.UUID) ([]models.User, error)
}

func (m *mockFamilyService) CreateFamily(ctx context.Context, callerID uuid.UUID, name string) (*services.CreateFamilyResult, error) {
	if m.CreateFamilyFunc != nil {
		return m.CreateFamilyFunc(ctx, callerID, name)
	}
	return nil, nil
}

func (m *mockFamilyService) JoinFamily(ctx context.Context, callerID uuid.UUID, code string) (*services.JoinFamilyResult, error) {
	if m.JoinFamilyFunc != nil {
		return m.JoinFamilyFunc(ctx, callerID, code)
	}
	return nil, nil
}

func (m *mockFamilyService) CreateInvite(ctx context.Context, callerID, familyID uuid.UUID) (*services.CreateInviteResult, error) {
	if m.CreateInviteFunc != nil {
		return m.CreateInviteFunc(ctx, callerID, familyID)
	}
	return nil, nil
}

func (m *mockFamilyService) LeaveFamily(ctx context.Context, callerID, familyID uuid.UUID) error {
	if m.LeaveFamilyFunc != nil {
		return m.LeaveFamilyFunc(ctx, callerID, familyID)
	}
	return nil
}

func (m *mockFamilyService) RemoveMember(ctx context.Context, callerID, familyID, memberID uuid.UUID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, callerID, familyID, memberID)
	}
	return nil
}

func (m *mockFamilyService) DisbandFamily(ctx context.Context, callerID, familyID uuid.UUID) error {
	if m.DisbandFamilyFunc != nil {
		return m.DisbandFamilyFunc(ctx, callerID, familyID)
	}
	return nil
}

func (m *mockFamilyService) GetByID(ctx context.Context, familyID uuid.UUID) (*models.Family, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, familyID)
	}
	return nil, nil
}

func (m *mockFamilyService) ListMembers(ctx context.Context, familyID uuid.UUID) ([]models.User, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, familyID)
	}
	return []models.User{}, nil
}

type mockListService struct {
	CreateListFunc    func(ctx context.Context, callerID, familyID uuid.UUID, name string) (*models.List, error)
	ListsByFamilyFunc func(ctx context.Context, familyID uuid.UUID) ([]models.List, error)
	DeleteListFunc    func(ctx context.Context, familyID, listID uuid.UUID) error
	AddItemFunc       func(ctx context.Context, callerID, familyID uuid.UUID, params models.AddItemParams) (*models.ListItem, error)
	ItemsByListFunc   func(ctx context.Context, familyID, listID uuid.UUID) ([]models.ListItem, error)
	RenameItemFunc    func(ctx context.Context, familyID, itemID uuid.UUID, name string) error
	SetItemStatusFunc func(ctx context.Context, callerID, familyID, itemID uuid.UUID, status string) (*models.ListItem, error)
	AssignItemFunc    func(ctx context.Context, familyID, itemID uuid.UUID, assigneeID *uuid.UUID) error
	DeleteItemFunc    func(ctx context.Context, familyID, itemID uuid.UUID) error
	SuggestionsFunc   func(ctx context.Context, familyID uuid.UUID) ([]models.Suggestion, error)
}

func (m *mockListService) CreateList(ctx context.Context, callerID, familyID uuid.UUID, name string) (*models.List, error) {
	if m.CreateListFunc != nil {
		return m.CreateListFunc(ctx, callerID, familyID, name)
	}
	return nil, nil
}

func (m *mockListService) ListsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.List, error) {
	if m.ListsByFamilyFunc != nil {
		return m.ListsByFamilyFunc(ctx, familyID)
	}
	return []models.List{}, nil
}

func (m *mockListService) DeleteList(ctx context.Context, familyID, listID uuid.UUID) error {
	if m.DeleteListFunc != nil {
		return m.DeleteListFunc(ctx, familyID, listID)
	}
	return nil
}

func (m *mockListService) AddItem(ctx context.Context, callerID, familyID uuid.UUID, params models.AddItemParams) (*models.ListItem, error) {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, callerID, familyID, params)
	}
	return nil, nil
}

func (m *mockListService) ItemsByList(ctx context.Context, familyID, listID uuid.UUID) ([]models.ListItem, error) {
	if m.ItemsByListFunc != nil {
		return m.ItemsByListFunc(ctx, familyID, listID)
	}
	return []models.ListItem{}, nil
}

func (m *mockListService) RenameItem(ctx context.Context, familyID, itemID uuid.UUID, name string) error {
	if m.RenameItemFunc != nil {
		return m.RenameItemFunc(ctx, familyID, itemID, name)
	}
	return nil
}

func (m *mockListService) SetItemStatus(ctx context.Context, callerID, familyID, itemID uuid.UUID, status string) (*models.ListItem, error) {
	if m.SetItemStatusFunc != nil {
		return m.SetItemStatusFunc(ctx, callerID, familyID, itemID, status)
	}
	return nil, nil
}

func (m *mockListService) AssignItem(ctx context.Context, familyID, itemID uuid.UUID, assigneeID *uuid.UUID) error {
	if m.AssignItemFunc != nil {
		return m.AssignItemFunc(ctx, familyID, itemID, assigneeID)
	}
	return nil
}

func (m *mockListService) DeleteItem(ctx context.Context, familyID, itemID uuid.UUID) error {
	if m.DeleteItemFunc != nil {
		return m.DeleteItemFunc(ctx, familyID, itemID)
	}
	return nil
}

func (m *mockListService) Suggestions(ctx context.Context, familyID uuid.UUID) ([]models.Suggestion, error) {
	if m.SuggestionsFunc != nil {
		return m.SuggestionsFunc(ctx, familyID)
	}
	return []models.Suggestion{}, nil
}

type mockExpenseService struct {
	AddExpenseFunc         func(ctx context.Context, callerID, familyID uuid.UUID, amount float64, category string, date time.Time) (*models.Expense, error)
	ExpensesByFamilyFunc   func(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.Expense, error)
	DeleteExpenseFunc      func(ctx context.Context, familyID, expenseID uuid.UUID) error
	SpendingSummaryFunc    func(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.CategorySpend, error)
	AddCategoryFunc        func(ctx context.Context, familyID uuid.UUID, name string) (*models.Category, error)
	CategoriesByFamilyFunc func(ctx context.Context, familyID uuid.UUID) ([]models.Category, error)
	UpsertBudgetFunc       func(ctx context.Context, callerID, familyID uuid.UUID, category string, limit float64, period string) (*models.Budget, error)
	BudgetsByFamilyFunc    func(ctx context.Context, familyID uuid.UUID) ([]models.Budget, error)
	DeleteBudgetFunc       func(ctx context.Context, familyID, budgetID uuid.UUID) error
}

func (m *mockExpenseService) AddExpense(ctx context.Context, callerID, familyID uuid.UUID, amount float64, category string, date time.Time) (*models.Expense, error) {
	if m.AddExpenseFunc != nil {
		return m.AddExpenseFunc(ctx, callerID, familyID, amount, category, date)
	}
	return nil, nil
}

func (m *mockExpenseService) ExpensesByFamily(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.Expense, error) {
	if m.ExpensesByFamilyFunc != nil {
		return m.ExpensesByFamilyFunc(ctx, familyID, since)
	}
	return []models.Expense{}, nil
}

func (m *mockExpenseService) DeleteExpense(ctx context.Context, familyID, expenseID uuid.UUID) error {
	if m.DeleteExpenseFunc != nil {
		return m.DeleteExpenseFunc(ctx, familyID, expenseID)
	}
	return nil
}

func (m *mockExpenseService) SpendingSummary(ctx context.Context, familyID uuid.UUID, since time.Time) ([]models.CategorySpend, error) {
	if m.SpendingSummaryFunc != nil {
		return m.SpendingSummaryFunc(ctx, familyID, since)
	}
	return []models.CategorySpend{}, nil
}

func (m *mockExpenseService) AddCategory(ctx context.Context, familyID uuid.UUID, name string) (*models.Category, error) {
	if m.AddCategoryFunc != nil {
		return m.AddCategoryFunc(ctx, familyID, name)
	}
	return nil, nil
}

func (m *mockExpenseService) CategoriesByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Category, error) {
	if m.CategoriesByFamilyFunc != nil {
		return m.CategoriesByFamilyFunc(ctx, familyID)
	}
	return []models.Category{}, nil
}

func (m *mockExpenseService) UpsertBudget(ctx context.Context, callerID, familyID uuid.UUID, category string, limit float64, period string) (*models.Budget, error) {
	if m.UpsertBudgetFunc != nil {
		return m.UpsertBudgetFunc(ctx, callerID, familyID, category, limit, period)
	}
	return nil, nil
}

func (m *mockExpenseService) BudgetsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Budget, error) {
	if m.BudgetsByFamilyFunc != nil {
		return m.BudgetsByFamilyFunc(ctx, familyID)
	}
	return []models.Budget{}, nil
}

func (m *mockExpenseService) DeleteBudget(ctx context.Context, familyID, budgetID uuid.UUID) error {
	if m.DeleteBudgetFunc != nil {
		return m.DeleteBudgetFunc(ctx, familyID, budgetID)
	}
	return nil
}
