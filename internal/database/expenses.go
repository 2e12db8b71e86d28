package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createExpense = `
INSERT INTO expenses (description, amount, status, due_date, paid_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, description, amount, status, due_date, paid_at
`

type CreateExpenseParams struct {
	Description string
	Amount      pgtype.Numeric
	Status      string
	DueDate     pgtype.Date
	PaidAt      pgtype.Date
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRow(ctx, createExpense,
		arg.Description, arg.Amount, arg.Status, arg.DueDate, arg.PaidAt)
	var e Expense
	err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Status, &e.DueDate, &e.PaidAt)
	return e, err
}

const listExpenses = `
SELECT id, description, amount, status, due_date, paid_at
FROM expenses
ORDER BY due_date DESC, id DESC
`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Status, &e.DueDate, &e.PaidAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const deleteExpense = `
DELETE FROM expenses
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, deleteExpense, id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

const sumAllExpenses = `
SELECT COALESCE(SUM(amount), 0)
FROM expenses
`

func (q *Queries) SumAllExpenses(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumAllExpenses)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
