package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createWorkOrder = `
INSERT INTO work_orders (status, odometer, complaint, customer_id, vehicle_id, mechanic_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
`

type CreateWorkOrderParams struct {
	Status     string
	Odometer   int32
	Complaint  string
	CustomerID int64
	VehicleID  int64
	MechanicID int64
}

func (q *Queries) CreateWorkOrder(ctx context.Context, arg CreateWorkOrderParams) (WorkOrder, error) {
	row := q.db.QueryRow(ctx, createWorkOrder,
		arg.Status, arg.Odometer, arg.Complaint, arg.CustomerID, arg.VehicleID, arg.MechanicID)
	return scanWorkOrder(row)
}

const getWorkOrder = `
SELECT id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
FROM work_orders
WHERE id = $1
`

func (q *Queries) GetWorkOrder(ctx context.Context, id int64) (WorkOrder, error) {
	return scanWorkOrder(q.db.QueryRow(ctx, getWorkOrder, id))
}

// getWorkOrderForUpdate locks the order row so concurrent settlement checks
// serialize. FOR NO KEY UPDATE keeps child-row inserts (payments, lines)
// unblocked on the FK reference.
const getWorkOrderForUpdate = `
SELECT id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
FROM work_orders
WHERE id = $1
FOR NO KEY UPDATE
`

func (q *Queries) GetWorkOrderForUpdate(ctx context.Context, id int64) (WorkOrder, error) {
	return scanWorkOrder(q.db.QueryRow(ctx, getWorkOrderForUpdate, id))
}

const listWorkOrders = `
SELECT id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
FROM work_orders
ORDER BY id
LIMIT $1 OFFSET $2
`

type ListWorkOrdersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListWorkOrders(ctx context.Context, arg ListWorkOrdersParams) ([]WorkOrder, error) {
	rows, err := q.db.Query(ctx, listWorkOrders, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkOrder
	for rows.Next() {
		var o WorkOrder
		if err := rows.Scan(&o.ID, &o.OpenedAt, &o.ClosedAt, &o.Status, &o.Odometer,
			&o.Complaint, &o.CustomerID, &o.VehicleID, &o.MechanicID); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// updateWorkOrderStatus sets the status and, when entering FINALIZED, stamps
// the close date if it is not already set. It never clears a close date.
const updateWorkOrderStatus = `
UPDATE work_orders
SET status = $2,
    closed_at = CASE
        WHEN $2 = 'FINALIZED' AND closed_at IS NULL THEN CURRENT_DATE
        ELSE closed_at
    END
WHERE id = $1
RETURNING id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
`

type UpdateWorkOrderStatusParams struct {
	ID     int64
	Status string
}

func (q *Queries) UpdateWorkOrderStatus(ctx context.Context, arg UpdateWorkOrderStatusParams) (WorkOrder, error) {
	return scanWorkOrder(q.db.QueryRow(ctx, updateWorkOrderStatus, arg.ID, arg.Status))
}

const finalizeWorkOrder = `
UPDATE work_orders
SET status = 'FINALIZED',
    closed_at = COALESCE(closed_at, CURRENT_DATE)
WHERE id = $1
RETURNING id, opened_at, closed_at, status, odometer, complaint, customer_id, vehicle_id, mechanic_id
`

func (q *Queries) FinalizeWorkOrder(ctx context.Context, id int64) (WorkOrder, error) {
	return scanWorkOrder(q.db.QueryRow(ctx, finalizeWorkOrder, id))
}

func scanWorkOrder(row interface{ Scan(dest ...interface{}) error }) (WorkOrder, error) {
	var o WorkOrder
	err := row.Scan(&o.ID, &o.OpenedAt, &o.ClosedAt, &o.Status, &o.Odometer,
		&o.Complaint, &o.CustomerID, &o.VehicleID, &o.MechanicID)
	return o, err
}

// --- Part lines ---

const createPartLine = `
INSERT INTO part_lines (work_order_id, part_id, name, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, work_order_id, part_id, name, quantity, unit_price
`

type CreatePartLineParams struct {
	WorkOrderID int64
	PartID      pgtype.Int8
	Name        string
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

func (q *Queries) CreatePartLine(ctx context.Context, arg CreatePartLineParams) (PartLine, error) {
	row := q.db.QueryRow(ctx, createPartLine,
		arg.WorkOrderID, arg.PartID, arg.Name, arg.Quantity, arg.UnitPrice)
	var l PartLine
	err := row.Scan(&l.ID, &l.WorkOrderID, &l.PartID, &l.Name, &l.Quantity, &l.UnitPrice)
	return l, err
}

const getPartLineByOrderAndPart = `
SELECT id, work_order_id, part_id, name, quantity, unit_price
FROM part_lines
WHERE work_order_id = $1 AND part_id = $2
`

type GetPartLineByOrderAndPartParams struct {
	WorkOrderID int64
	PartID      int64
}

func (q *Queries) GetPartLineByOrderAndPart(ctx context.Context, arg GetPartLineByOrderAndPartParams) (PartLine, error) {
	row := q.db.QueryRow(ctx, getPartLineByOrderAndPart, arg.WorkOrderID, arg.PartID)
	var l PartLine
	err := row.Scan(&l.ID, &l.WorkOrderID, &l.PartID, &l.Name, &l.Quantity, &l.UnitPrice)
	return l, err
}

const deletePartLine = `
DELETE FROM part_lines
WHERE id = $1
`

func (q *Queries) DeletePartLine(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deletePartLine, id)
	return err
}

const listPartLinesByOrder = `
SELECT id, work_order_id, part_id, name, quantity, unit_price
FROM part_lines
WHERE work_order_id = $1
ORDER BY id
`

func (q *Queries) ListPartLinesByOrder(ctx context.Context, workOrderID int64) ([]PartLine, error) {
	rows, err := q.db.Query(ctx, listPartLinesByOrder, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PartLine
	for rows.Next() {
		var l PartLine
		if err := rows.Scan(&l.ID, &l.WorkOrderID, &l.PartID, &l.Name, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// --- Service lines ---

const createServiceLine = `
INSERT INTO service_lines (work_order_id, service_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id, work_order_id, service_id, quantity, unit_price
`

type CreateServiceLineParams struct {
	WorkOrderID int64
	ServiceID   int64
	Quantity    int32
	UnitPrice   pgtype.Numeric
}

func (q *Queries) CreateServiceLine(ctx context.Context, arg CreateServiceLineParams) (ServiceLine, error) {
	row := q.db.QueryRow(ctx, createServiceLine,
		arg.WorkOrderID, arg.ServiceID, arg.Quantity, arg.UnitPrice)
	var l ServiceLine
	err := row.Scan(&l.ID, &l.WorkOrderID, &l.ServiceID, &l.Quantity, &l.UnitPrice)
	return l, err
}

const getServiceLineByOrderAndService = `
SELECT id, work_order_id, service_id, quantity, unit_price
FROM service_lines
WHERE work_order_id = $1 AND service_id = $2
`

type GetServiceLineByOrderAndServiceParams struct {
	WorkOrderID int64
	ServiceID   int64
}

func (q *Queries) GetServiceLineByOrderAndService(ctx context.Context, arg GetServiceLineByOrderAndServiceParams) (ServiceLine, error) {
	row := q.db.QueryRow(ctx, getServiceLineByOrderAndService, arg.WorkOrderID, arg.ServiceID)
	var l ServiceLine
	err := row.Scan(&l.ID, &l.WorkOrderID, &l.ServiceID, &l.Quantity, &l.UnitPrice)
	return l, err
}

const deleteServiceLine = `
DELETE FROM service_lines
WHERE id = $1
`

func (q *Queries) DeleteServiceLine(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteServiceLine, id)
	return err
}

const listServiceLinesByOrder = `
SELECT sl.id, sl.work_order_id, sl.service_id, sl.quantity, sl.unit_price, s.description
FROM service_lines sl
JOIN services s ON s.id = sl.service_id
WHERE sl.work_order_id = $1
ORDER BY sl.id
`

func (q *Queries) ListServiceLinesByOrder(ctx context.Context, workOrderID int64) ([]ServiceLineRow, error) {
	rows, err := q.db.Query(ctx, listServiceLinesByOrder, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ServiceLineRow
	for rows.Next() {
		var l ServiceLineRow
		if err := rows.Scan(&l.ID, &l.WorkOrderID, &l.ServiceID, &l.Quantity, &l.UnitPrice, &l.Description); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// --- Charge aggregates ---

const sumPartCharges = `
SELECT COALESCE(SUM(quantity * unit_price), 0)
FROM part_lines
WHERE work_order_id = $1
`

func (q *Queries) SumPartCharges(ctx context.Context, workOrderID int64) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumPartCharges, workOrderID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const sumServiceCharges = `
SELECT COALESCE(SUM(quantity * unit_price), 0)
FROM service_lines
WHERE work_order_id = $1
`

func (q *Queries) SumServiceCharges(ctx context.Context, workOrderID int64) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumServiceCharges, workOrderID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
