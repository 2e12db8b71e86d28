package database

import "context"

const createMechanic = `
INSERT INTO mechanics (name, specialty)
VALUES ($1, $2)
RETURNING id, name, specialty
`

type CreateMechanicParams struct {
	Name      string
	Specialty string
}

func (q *Queries) CreateMechanic(ctx context.Context, arg CreateMechanicParams) (Mechanic, error) {
	row := q.db.QueryRow(ctx, createMechanic, arg.Name, arg.Specialty)
	var m Mechanic
	err := row.Scan(&m.ID, &m.Name, &m.Specialty)
	return m, err
}

const getMechanic = `
SELECT id, name, specialty
FROM mechanics
WHERE id = $1
`

func (q *Queries) GetMechanic(ctx context.Context, id int64) (Mechanic, error) {
	row := q.db.QueryRow(ctx, getMechanic, id)
	var m Mechanic
	err := row.Scan(&m.ID, &m.Name, &m.Specialty)
	return m, err
}

const listMechanics = `
SELECT id, name, specialty
FROM mechanics
ORDER BY id
`

func (q *Queries) ListMechanics(ctx context.Context) ([]Mechanic, error) {
	rows, err := q.db.Query(ctx, listMechanics)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Mechanic
	for rows.Next() {
		var m Mechanic
		if err := rows.Scan(&m.ID, &m.Name, &m.Specialty); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
