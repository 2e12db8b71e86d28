package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCustomer = `
INSERT INTO customers (name, phone, email, tax_id, address)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, phone, email, tax_id, address
`

type CreateCustomerParams struct {
	Name    string
	Phone   string
	Email   pgtype.Text
	TaxID   string
	Address string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer, arg.Name, arg.Phone, arg.Email, arg.TaxID, arg.Address)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address)
	return c, err
}

const getCustomer = `
SELECT id, name, phone, email, tax_id, address
FROM customers
WHERE id = $1
`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomer, id)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address)
	return c, err
}

const listCustomers = `
SELECT id, name, phone, email, tax_id, address
FROM customers
ORDER BY id
LIMIT $1 OFFSET $2
`

type ListCustomersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateCustomer = `
UPDATE customers
SET name = $2, phone = $3, email = $4, tax_id = $5, address = $6
WHERE id = $1
RETURNING id, name, phone, email, tax_id, address
`

type UpdateCustomerParams struct {
	ID      int64
	Name    string
	Phone   string
	Email   pgtype.Text
	TaxID   string
	Address string
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, updateCustomer, arg.ID, arg.Name, arg.Phone, arg.Email, arg.TaxID, arg.Address)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.Address)
	return c, err
}

const deleteCustomer = `
DELETE FROM customers
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, deleteCustomer, id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

const countVehiclesByCustomer = `
SELECT COUNT(*)
FROM vehicles
WHERE customer_id = $1
`

func (q *Queries) CountVehiclesByCustomer(ctx context.Context, customerID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countVehiclesByCustomer, customerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
