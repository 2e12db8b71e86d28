package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/oficinapro/api/internal/middleware"
	"github.com/shopspring/decimal"
)

// FinanceStore defines the database methods needed by the finance handlers.
type FinanceStore interface {
	SumAllPayments(ctx context.Context) (pgtype.Numeric, error)
	SumAllExpenses(ctx context.Context) (pgtype.Numeric, error)
	CreateExpense(ctx context.Context, arg database.CreateExpenseParams) (database.Expense, error)
	ListExpenses(ctx context.Context) ([]database.Expense, error)
	DeleteExpense(ctx context.Context, id int64) (int64, error)
}

// FinanceHandler handles the shop-wide financial summary and expenses.
type FinanceHandler struct {
	store FinanceStore
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(store FinanceStore) *FinanceHandler {
	return &FinanceHandler{store: store}
}

// RegisterRoutes registers finance endpoints on the given Chi router.
func (h *FinanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/expenses", h.ListExpenses)
	r.Post("/expenses", h.CreateExpense)
	r.Delete("/expenses/{id}", h.DeleteExpense)
}

// --- Request / Response types ---

type createExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	DueDate     string `json:"due_date"`
	PaidAt      string `json:"paid_at"`
}

type expenseResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Status      string  `json:"status"`
	DueDate     string  `json:"due_date"`
	PaidAt      *string `json:"paid_at"`
}

type summaryResponse struct {
	TotalReceived string `json:"total_received"`
	TotalExpenses string `json:"total_expenses"`
	NetResult     string `json:"net_result"`
}

func toExpenseResponse(e database.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      money(e.Amount),
		Status:      e.Status,
		DueDate:     e.DueDate.Format("2006-01-02"),
	}
	if e.PaidAt.Valid {
		paid := e.PaidAt.Time.Format("2006-01-02")
		resp.PaidAt = &paid
	}
	return resp
}

// --- Handlers ---

// Summary reports shop-wide received payments, booked expenses and the net.
func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	received, err := h.store.SumAllPayments(r.Context())
	if err != nil {
		log.Printf("ERROR: sum payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expenses, err := h.store.SumAllExpenses(r.Context())
	if err != nil {
		log.Printf("ERROR: sum expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rec, _ := decimal.NewFromString(money(received))
	exp, _ := decimal.NewFromString(money(expenses))

	writeJSON(w, http.StatusOK, summaryResponse{
		TotalReceived: rec.StringFixed(2),
		TotalExpenses: exp.StringFixed(2),
		NetResult:     rec.Sub(exp).StringFixed(2),
	})
}

// ListExpenses returns all booked expenses.
func (h *FinanceHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListExpenses(r.Context())
	if err != nil {
		log.Printf("ERROR: list expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateExpense books an expense. due_date and paid_at are "YYYY-MM-DD";
// due_date defaults to today.
func (h *FinanceHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}

	d, err := decimal.NewFromString(req.Amount)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be > 0"})
		return
	}
	var amount pgtype.Numeric
	if err := amount.Scan(d.StringFixed(2)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	status := req.Status
	if status == "" {
		status = enum.ExpenseStatusPending
	}
	if status != enum.ExpenseStatusPending && status != enum.ExpenseStatusPaid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	dueDate := pgtype.Date{Time: time.Now(), Valid: true}
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid due_date"})
			return
		}
		dueDate = pgtype.Date{Time: t, Valid: true}
	}

	paidAt := pgtype.Date{}
	if req.PaidAt != "" {
		t, err := time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid paid_at"})
			return
		}
		paidAt = pgtype.Date{Time: t, Valid: true}
	}

	expense, err := h.store.CreateExpense(r.Context(), database.CreateExpenseParams{
		Description: req.Description,
		Amount:      amount,
		Status:      status,
		DueDate:     dueDate,
		PaidAt:      paidAt,
	})
	if err != nil {
		log.Printf("ERROR: create expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

// DeleteExpense removes a booked expense.
func (h *FinanceHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense ID"})
		return
	}

	if _, err := h.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "expense not found"})
			return
		}
		log.Printf("ERROR: delete expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	actor := "unknown"
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		actor = claims.Username
	}
	log.Printf("AUDIT: user %s removed expense %d", actor, id)

	w.WriteHeader(http.StatusNoContent)
}
