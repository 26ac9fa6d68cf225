package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hearthshare/hearthshare/internal/services"
)

type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
}

func NewExpenseHandler(expenseService services.ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type AddExpenseRequest struct {
	Amount   float64    `json:"amount"`
	Category string     `json:"category"`
	Date     *time.Time `json:"date"`
}

type AddCategoryRequest struct {
	Name string `json:"name"`
}

type UpsertBudgetRequest struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Period   string  `json:"period"`
}

// sinceParam parses the optional ?since=RFC3339 query parameter. A missing
// parameter means the last 30 days.
func sinceParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return time.Now().AddDate(0, 0, -30), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	expense, err := h.expenseService.AddExpense(r.Context(), user.ID, familyID, req.Amount, req.Category, date)
	if err != nil {
		h.writeExpenseError(w, err, "Error adding expense")
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	since, err := sinceParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid since parameter")
		return
	}

	expenses, err := h.expenseService.ExpensesByFamily(r.Context(), familyID, since)
	if err != nil {
		h.writeExpenseError(w, err, "Error listing expenses")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	expenseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense ID")
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), familyID, expenseID); err != nil {
		h.writeExpenseError(w, err, "Error deleting expense")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Expense deleted"})
}

func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	since, err := sinceParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid since parameter")
		return
	}

	summary, err := h.expenseService.SpendingSummary(r.Context(), familyID, since)
	if err != nil {
		h.writeExpenseError(w, err, "Error building summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *ExpenseHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req AddCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := h.expenseService.AddCategory(r.Context(), familyID, req.Name)
	if err != nil {
		h.writeExpenseError(w, err, "Error adding category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *ExpenseHandler) Categories(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	categories, err := h.expenseService.CategoriesByFamily(r.Context(), familyID)
	if err != nil {
		h.writeExpenseError(w, err, "Error listing categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (h *ExpenseHandler) UpsertBudget(w http.ResponseWriter, r *http.Request) {
	user, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	var req UpsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget, err := h.expenseService.UpsertBudget(r.Context(), user.ID, familyID, req.Category, req.Limit, req.Period)
	if err != nil {
		h.writeExpenseError(w, err, "Error saving budget")
		return
	}

	writeJSON(w, http.StatusOK, budget)
}

func (h *ExpenseHandler) Budgets(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	budgets, err := h.expenseService.BudgetsByFamily(r.Context(), familyID)
	if err != nil {
		h.writeExpenseError(w, err, "Error listing budgets")
		return
	}

	writeJSON(w, http.StatusOK, budgets)
}

func (h *ExpenseHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	_, familyID, ok := requireFamily(w, r)
	if !ok {
		return
	}

	budgetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	if err := h.expenseService.DeleteBudget(r.Context(), familyID, budgetID); err != nil {
		h.writeExpenseError(w, err, "Error deleting budget")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Budget deleted"})
}

func (h *ExpenseHandler) writeExpenseError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrCategoryRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrExpenseNotFound),
		errors.Is(err, services.ErrBudgetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s: %v", logMsg, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
