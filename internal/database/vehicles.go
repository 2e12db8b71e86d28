package database

import "context"

const createVehicle = `
INSERT INTO vehicles (plate, model, brand, year, color, customer_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, plate, model, brand, year, color, customer_id
`

type CreateVehicleParams struct {
	Plate      string
	Model      string
	Brand      string
	Year       int32
	Color      string
	CustomerID int64
}

func (q *Queries) CreateVehicle(ctx context.Context, arg CreateVehicleParams) (Vehicle, error) {
	row := q.db.QueryRow(ctx, createVehicle, arg.Plate, arg.Model, arg.Brand, arg.Year, arg.Color, arg.CustomerID)
	var v Vehicle
	err := row.Scan(&v.ID, &v.Plate, &v.Model, &v.Brand, &v.Year, &v.Color, &v.CustomerID)
	return v, err
}

const getVehicle = `
SELECT id, plate, model, brand, year, color, customer_id
FROM vehicles
WHERE id = $1
`

func (q *Queries) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	row := q.db.QueryRow(ctx, getVehicle, id)
	var v Vehicle
	err := row.Scan(&v.ID, &v.Plate, &v.Model, &v.Brand, &v.Year, &v.Color, &v.CustomerID)
	return v, err
}

const listVehicles = `
SELECT id, plate, model, brand, year, color, customer_id
FROM vehicles
ORDER BY id
LIMIT $1 OFFSET $2
`

type ListVehiclesParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListVehicles(ctx context.Context, arg ListVehiclesParams) ([]Vehicle, error) {
	rows, err := q.db.Query(ctx, listVehicles, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Model, &v.Brand, &v.Year, &v.Color, &v.CustomerID); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const listVehiclesByCustomer = `
SELECT id, plate, model, brand, year, color, customer_id
FROM vehicles
WHERE customer_id = $1
ORDER BY id
`

func (q *Queries) ListVehiclesByCustomer(ctx context.Context, customerID int64) ([]Vehicle, error) {
	rows, err := q.db.Query(ctx, listVehiclesByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Plate, &v.Model, &v.Brand, &v.Year, &v.Color, &v.CustomerID); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}
