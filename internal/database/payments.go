package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `
INSERT INTO payments (work_order_id, amount, method, installment, note)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, work_order_id, amount, method, installment, note, paid_at
`

type CreatePaymentParams struct {
	WorkOrderID int64
	Amount      pgtype.Numeric
	Method      string
	Installment int32
	Note        pgtype.Text
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.WorkOrderID, arg.Amount, arg.Method, arg.Installment, arg.Note)
	var p Payment
	err := row.Scan(&p.ID, &p.WorkOrderID, &p.Amount, &p.Method, &p.Installment, &p.Note, &p.PaidAt)
	return p, err
}

const getPayment = `
SELECT id, work_order_id, amount, method, installment, note, paid_at
FROM payments
WHERE id = $1
`

func (q *Queries) GetPayment(ctx context.Context, id int64) (Payment, error) {
	row := q.db.QueryRow(ctx, getPayment, id)
	var p Payment
	err := row.Scan(&p.ID, &p.WorkOrderID, &p.Amount, &p.Method, &p.Installment, &p.Note, &p.PaidAt)
	return p, err
}

const deletePayment = `
DELETE FROM payments
WHERE id = $1
RETURNING id
`

func (q *Queries) DeletePayment(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, deletePayment, id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

const listPayments = `
SELECT id, work_order_id, amount, method, installment, note, paid_at
FROM payments
ORDER BY paid_at DESC, id DESC
`

func (q *Queries) ListPayments(ctx context.Context) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPayments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

const listPaymentsByOrder = `
SELECT id, work_order_id, amount, method, installment, note, paid_at
FROM payments
WHERE work_order_id = $1
ORDER BY id
`

func (q *Queries) ListPaymentsByOrder(ctx context.Context, workOrderID int64) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByOrder, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

const sumPaymentsByOrder = `
SELECT COALESCE(SUM(amount), 0)
FROM payments
WHERE work_order_id = $1
`

func (q *Queries) SumPaymentsByOrder(ctx context.Context, workOrderID int64) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumPaymentsByOrder, workOrderID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const sumAllPayments = `
SELECT COALESCE(SUM(amount), 0)
FROM payments
`

func (q *Queries) SumAllPayments(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumAllPayments)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

func collectPayments(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]Payment, error) {
	var items []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.WorkOrderID, &p.Amount, &p.Method, &p.Installment, &p.Note, &p.PaidAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
