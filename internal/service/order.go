package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order and settlement services.
var (
	ErrOrderNotFound     = errors.New("work order not found")
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrMechanicNotFound  = errors.New("mechanic not found")
	ErrPartNotFound      = errors.New("part not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrLineNotFound      = errors.New("line item not found on this order")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrInvalidPrice      = errors.New("invalid unit price")
	ErrAdHocFields       = errors.New("ad-hoc line requires both name and unit price")
	ErrDuplicateLine     = errors.New("item already on this order")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order engine.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetVehicle(ctx context.Context, id int64) (database.Vehicle, error)
	GetMechanic(ctx context.Context, id int64) (database.Mechanic, error)
	CreateWorkOrder(ctx context.Context, arg database.CreateWorkOrderParams) (database.WorkOrder, error)
	GetWorkOrder(ctx context.Context, id int64) (database.WorkOrder, error)
	GetPartForUpdate(ctx context.Context, id int64) (database.Part, error)
	AdjustPartStock(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error)
	CreatePartLine(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error)
	GetPartLineByOrderAndPart(ctx context.Context, arg database.GetPartLineByOrderAndPartParams) (database.PartLine, error)
	DeletePartLine(ctx context.Context, id int64) error
	GetService(ctx context.Context, id int64) (database.Service, error)
	CreateServiceLine(ctx context.Context, arg database.CreateServiceLineParams) (database.ServiceLine, error)
	GetServiceLineByOrderAndService(ctx context.Context, arg database.GetServiceLineByOrderAndServiceParams) (database.ServiceLine, error)
	DeleteServiceLine(ctx context.Context, id int64) error
	ListPartLinesByOrder(ctx context.Context, workOrderID int64) ([]database.PartLine, error)
	ListServiceLinesByOrder(ctx context.Context, workOrderID int64) ([]database.ServiceLineRow, error)
	ListPaymentsByOrder(ctx context.Context, workOrderID int64) ([]database.Payment, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService owns a work order's line items: it freezes prices at the
// moment of addition and keeps part stock consistent with the lines that
// reference it. Every mutating operation runs in a single transaction.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// OpenOrderRequest is the validated input for opening a work order.
type OpenOrderRequest struct {
	VehicleID  int64
	MechanicID int64
	Complaint  string
	Odometer   int32
}

// OpenOrder creates a work order in QUOTE status. The owning customer is
// derived from the vehicle, never taken from the caller.
func (s *OrderService) OpenOrder(ctx context.Context, req OpenOrderRequest) (database.WorkOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.WorkOrder{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	vehicle, err := store.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.WorkOrder{}, ErrVehicleNotFound
		}
		return database.WorkOrder{}, fmt.Errorf("get vehicle: %w", err)
	}

	if _, err := store.GetMechanic(ctx, req.MechanicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.WorkOrder{}, ErrMechanicNotFound
		}
		return database.WorkOrder{}, fmt.Errorf("get mechanic: %w", err)
	}

	order, err := store.CreateWorkOrder(ctx, database.CreateWorkOrderParams{
		Status:     enum.OrderStatusQuote,
		Odometer:   req.Odometer,
		Complaint:  req.Complaint,
		CustomerID: vehicle.CustomerID,
		VehicleID:  vehicle.ID,
		MechanicID: req.MechanicID,
	})
	if err != nil {
		return database.WorkOrder{}, fmt.Errorf("create work order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.WorkOrder{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// AddPartLineRequest is the input for attaching a part line to an order.
// PartID == 0 means an ad-hoc line: AdHocName and AdHocPrice are required
// and no stock is touched.
type AddPartLineRequest struct {
	OrderID    int64
	PartID     int64
	Quantity   int32
	AdHocName  string
	AdHocPrice string
}

// AddPartLine attaches a part line to an order inside one transaction.
// For catalog parts the part row is locked, stock availability is verified,
// the stock is debited and the current sale price is frozen onto the line.
// A failed check rolls everything back: a stock debit is never observable
// without its line item.
func (s *OrderService) AddPartLine(ctx context.Context, req AddPartLineRequest) (database.PartLine, error) {
	if req.Quantity <= 0 {
		return database.PartLine{}, ErrInvalidQuantity
	}

	var adHocPrice decimal.Decimal
	if req.PartID == 0 {
		if req.AdHocName == "" || req.AdHocPrice == "" {
			return database.PartLine{}, ErrAdHocFields
		}
		p, err := decimal.NewFromString(req.AdHocPrice)
		if err != nil || p.IsNegative() {
			return database.PartLine{}, ErrInvalidPrice
		}
		adHocPrice = p
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.PartLine{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetWorkOrder(ctx, req.OrderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.PartLine{}, ErrOrderNotFound
		}
		return database.PartLine{}, fmt.Errorf("get work order: %w", err)
	}

	params := database.CreatePartLineParams{
		WorkOrderID: req.OrderID,
		Quantity:    req.Quantity,
	}

	if req.PartID != 0 {
		// Lock, verify, debit: the exclusive lock makes a concurrent debit
		// against the same part observe this transaction's decrement.
		part, err := store.GetPartForUpdate(ctx, req.PartID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return database.PartLine{}, ErrPartNotFound
			}
			return database.PartLine{}, fmt.Errorf("lock part: %w", err)
		}

		if part.Stock < req.Quantity {
			return database.PartLine{}, fmt.Errorf("%w: available %d", ErrInsufficientStock, part.Stock)
		}

		if _, err := store.AdjustPartStock(ctx, database.AdjustPartStockParams{
			ID:    part.ID,
			Delta: -req.Quantity,
		}); err != nil {
			return database.PartLine{}, fmt.Errorf("debit stock: %w", err)
		}

		params.PartID = pgtype.Int8{Int64: part.ID, Valid: true}
		params.Name = part.Name
		params.UnitPrice = part.SalePrice
	} else {
		params.Name = req.AdHocName
		params.UnitPrice = decimalToNumeric(adHocPrice)
	}

	line, err := store.CreatePartLine(ctx, params)
	if err != nil {
		if isPartLineConflict(err) {
			return database.PartLine{}, ErrDuplicateLine
		}
		return database.PartLine{}, fmt.Errorf("create part line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.PartLine{}, fmt.Errorf("commit tx: %w", err)
	}
	return line, nil
}

// RemovePartLine deletes the line matching (order, part) and credits the
// part's stock back by the removed quantity, atomically.
func (s *OrderService) RemovePartLine(ctx context.Context, orderID, partID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	line, err := store.GetPartLineByOrderAndPart(ctx, database.GetPartLineByOrderAndPartParams{
		WorkOrderID: orderID,
		PartID:      partID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLineNotFound
		}
		return fmt.Errorf("get part line: %w", err)
	}

	if err := store.DeletePartLine(ctx, line.ID); err != nil {
		return fmt.Errorf("delete part line: %w", err)
	}

	if line.PartID.Valid {
		if _, err := store.AdjustPartStock(ctx, database.AdjustPartStockParams{
			ID:    line.PartID.Int64,
			Delta: line.Quantity,
		}); err != nil {
			return fmt.Errorf("credit stock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// AddServiceLineRequest is the input for attaching a service line.
// PriceOverride, when non-empty, replaces the service's standard labor price
// as the frozen unit price.
type AddServiceLineRequest struct {
	OrderID       int64
	ServiceID     int64
	Quantity      int32
	PriceOverride string
}

// AddServiceLine attaches a service line with a frozen unit price. No stock
// is involved.
func (s *OrderService) AddServiceLine(ctx context.Context, req AddServiceLineRequest) (database.ServiceLine, error) {
	if req.Quantity <= 0 {
		return database.ServiceLine{}, ErrInvalidQuantity
	}

	var override decimal.Decimal
	hasOverride := req.PriceOverride != ""
	if hasOverride {
		p, err := decimal.NewFromString(req.PriceOverride)
		if err != nil || p.IsNegative() {
			return database.ServiceLine{}, ErrInvalidPrice
		}
		override = p
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.ServiceLine{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetWorkOrder(ctx, req.OrderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.ServiceLine{}, ErrOrderNotFound
		}
		return database.ServiceLine{}, fmt.Errorf("get work order: %w", err)
	}

	svc, err := store.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.ServiceLine{}, ErrServiceNotFound
		}
		return database.ServiceLine{}, fmt.Errorf("get service: %w", err)
	}

	unitPrice := svc.LaborPrice
	if hasOverride {
		unitPrice = decimalToNumeric(override)
	}

	line, err := store.CreateServiceLine(ctx, database.CreateServiceLineParams{
		WorkOrderID: req.OrderID,
		ServiceID:   svc.ID,
		Quantity:    req.Quantity,
		UnitPrice:   unitPrice,
	})
	if err != nil {
		if isServiceLineConflict(err) {
			return database.ServiceLine{}, ErrDuplicateLine
		}
		return database.ServiceLine{}, fmt.Errorf("create service line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.ServiceLine{}, fmt.Errorf("commit tx: %w", err)
	}
	return line, nil
}

// RemoveServiceLine deletes the line matching (order, service). No stock
// effect.
func (s *OrderService) RemoveServiceLine(ctx context.Context, orderID, serviceID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	line, err := store.GetServiceLineByOrderAndService(ctx, database.GetServiceLineByOrderAndServiceParams{
		WorkOrderID: orderID,
		ServiceID:   serviceID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLineNotFound
		}
		return fmt.Errorf("get service line: %w", err)
	}

	if err := store.DeleteServiceLine(ctx, line.ID); err != nil {
		return fmt.Errorf("delete service line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// PartLineDetail is a part line with its computed subtotal.
type PartLineDetail struct {
	Line     database.PartLine
	Subtotal decimal.Decimal
}

// ServiceLineDetail is a service line with its description and subtotal.
type ServiceLineDetail struct {
	Line     database.ServiceLineRow
	Subtotal decimal.Decimal
}

// OrderDetail is the full lifecycle view of a work order: lines with their
// frozen prices, payments, and the derived financial aggregates.
type OrderDetail struct {
	Order         database.WorkOrder
	Parts         []PartLineDetail
	Services      []ServiceLineDetail
	Payments      []database.Payment
	TotalParts    decimal.Decimal
	TotalServices decimal.Decimal
	GrandTotal    decimal.Decimal
	TotalPaid     decimal.Decimal
	Balance       decimal.Decimal
}

// Detail computes the order's full view. Pure read; runs in one transaction
// so the lines, payments and aggregates come from a consistent snapshot.
func (s *OrderService) Detail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetWorkOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}

	partLines, err := store.ListPartLinesByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list part lines: %w", err)
	}

	serviceLines, err := store.ListServiceLinesByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list service lines: %w", err)
	}

	payments, err := store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	detail := &OrderDetail{Order: order, Payments: payments}

	for _, l := range partLines {
		subtotal := numericToDecimal(l.UnitPrice).Mul(decimal.NewFromInt32(l.Quantity))
		detail.TotalParts = detail.TotalParts.Add(subtotal)
		detail.Parts = append(detail.Parts, PartLineDetail{Line: l, Subtotal: subtotal})
	}

	for _, l := range serviceLines {
		subtotal := numericToDecimal(l.UnitPrice).Mul(decimal.NewFromInt32(l.Quantity))
		detail.TotalServices = detail.TotalServices.Add(subtotal)
		detail.Services = append(detail.Services, ServiceLineDetail{Line: l, Subtotal: subtotal})
	}

	for _, p := range payments {
		detail.TotalPaid = detail.TotalPaid.Add(numericToDecimal(p.Amount))
	}

	detail.GrandTotal = detail.TotalParts.Add(detail.TotalServices)
	detail.Balance = detail.GrandTotal.Sub(detail.TotalPaid)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return detail, nil
}

// --- Helpers ---

func isPartLineConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "idx_part_lines_order_part"
	}
	return false
}

func isServiceLineConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "service_lines_work_order_id_service_id_key"
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
