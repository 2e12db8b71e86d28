package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPart = `
INSERT INTO parts (code, name, sale_price, stock)
VALUES ($1, $2, $3, $4)
RETURNING id, code, name, sale_price, stock
`

type CreatePartParams struct {
	Code      string
	Name      string
	SalePrice pgtype.Numeric
	Stock     int32
}

func (q *Queries) CreatePart(ctx context.Context, arg CreatePartParams) (Part, error) {
	row := q.db.QueryRow(ctx, createPart, arg.Code, arg.Name, arg.SalePrice, arg.Stock)
	var p Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock)
	return p, err
}

const getPart = `
SELECT id, code, name, sale_price, stock
FROM parts
WHERE id = $1
`

func (q *Queries) GetPart(ctx context.Context, id int64) (Part, error) {
	row := q.db.QueryRow(ctx, getPart, id)
	var p Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock)
	return p, err
}

// getPartForUpdate takes an exclusive row lock so a concurrent check-and-debit
// against the same part serializes behind this transaction.
const getPartForUpdate = `
SELECT id, code, name, sale_price, stock
FROM parts
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetPartForUpdate(ctx context.Context, id int64) (Part, error) {
	row := q.db.QueryRow(ctx, getPartForUpdate, id)
	var p Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock)
	return p, err
}

const listParts = `
SELECT id, code, name, sale_price, stock
FROM parts
ORDER BY code
`

func (q *Queries) ListParts(ctx context.Context) ([]Part, error) {
	rows, err := q.db.Query(ctx, listParts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const updatePart = `
UPDATE parts
SET code = $2, name = $3, sale_price = $4, stock = $5
WHERE id = $1
RETURNING id, code, name, sale_price, stock
`

type UpdatePartParams struct {
	ID        int64
	Code      string
	Name      string
	SalePrice pgtype.Numeric
	Stock     int32
}

func (q *Queries) UpdatePart(ctx context.Context, arg UpdatePartParams) (Part, error) {
	row := q.db.QueryRow(ctx, updatePart, arg.ID, arg.Code, arg.Name, arg.SalePrice, arg.Stock)
	var p Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock)
	return p, err
}

const deletePart = `
DELETE FROM parts
WHERE id = $1
RETURNING id
`

func (q *Queries) DeletePart(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, deletePart, id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

// adjustPartStock applies a signed delta. The stock >= 0 CHECK constraint is
// the last line of defense; callers verify availability under the row lock.
const adjustPartStock = `
UPDATE parts
SET stock = stock + $2
WHERE id = $1
RETURNING id, code, name, sale_price, stock
`

type AdjustPartStockParams struct {
	ID    int64
	Delta int32
}

func (q *Queries) AdjustPartStock(ctx context.Context, arg AdjustPartStockParams) (Part, error) {
	row := q.db.QueryRow(ctx, adjustPartStock, arg.ID, arg.Delta)
	var p Part
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.Stock)
	return p, err
}

const countPartLinesByPart = `
SELECT COUNT(*)
FROM part_lines
WHERE part_id = $1
`

func (q *Queries) CountPartLinesByPart(ctx context.Context, partID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countPartLinesByPart, partID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
