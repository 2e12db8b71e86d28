package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createService = `
INSERT INTO services (description, labor_price, estimated_minutes)
VALUES ($1, $2, $3)
RETURNING id, description, labor_price, estimated_minutes
`

type CreateServiceParams struct {
	Description      string
	LaborPrice       pgtype.Numeric
	EstimatedMinutes int32
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRow(ctx, createService, arg.Description, arg.LaborPrice, arg.EstimatedMinutes)
	var s Service
	err := row.Scan(&s.ID, &s.Description, &s.LaborPrice, &s.EstimatedMinutes)
	return s, err
}

const getService = `
SELECT id, description, labor_price, estimated_minutes
FROM services
WHERE id = $1
`

func (q *Queries) GetService(ctx context.Context, id int64) (Service, error) {
	row := q.db.QueryRow(ctx, getService, id)
	var s Service
	err := row.Scan(&s.ID, &s.Description, &s.LaborPrice, &s.EstimatedMinutes)
	return s, err
}

const listServices = `
SELECT id, description, labor_price, estimated_minutes
FROM services
ORDER BY id
`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.Query(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Description, &s.LaborPrice, &s.EstimatedMinutes); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateService = `
UPDATE services
SET description = $2, labor_price = $3, estimated_minutes = $4
WHERE id = $1
RETURNING id, description, labor_price, estimated_minutes
`

type UpdateServiceParams struct {
	ID               int64
	Description      string
	LaborPrice       pgtype.Numeric
	EstimatedMinutes int32
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRow(ctx, updateService, arg.ID, arg.Description, arg.LaborPrice, arg.EstimatedMinutes)
	var s Service
	err := row.Scan(&s.ID, &s.Description, &s.LaborPrice, &s.EstimatedMinutes)
	return s, err
}

const deleteService = `
DELETE FROM services
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteService(ctx context.Context, id int64) (int64, error) {
	row := q.db.QueryRow(ctx, deleteService, id)
	var deleted int64
	err := row.Scan(&deleted)
	return deleted, err
}

const countServiceLinesByService = `
SELECT COUNT(*)
FROM service_lines
WHERE service_id = $1
`

func (q *Queries) CountServiceLinesByService(ctx context.Context, serviceID int64) (int64, error) {
	row := q.db.QueryRow(ctx, countServiceLinesByService, serviceID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
