package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount      = errors.New("amount must be > 0")
	ErrInvalidMethod      = errors.New("invalid payment method")
	ErrInvalidInstallment = errors.New("installment must be >= 1")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrPaymentNotFound    = errors.New("payment not found")
)

// settlementEpsilon absorbs rounding: an order counts as settled when
// total paid is within one cent of the total charge.
var settlementEpsilon = decimal.New(1, -2)

// SettlementStore defines the DB methods needed by the settlement engine.
// Satisfied by *database.Queries (and its WithTx variant).
type SettlementStore interface {
	GetWorkOrder(ctx context.Context, id int64) (database.WorkOrder, error)
	GetWorkOrderForUpdate(ctx context.Context, id int64) (database.WorkOrder, error)
	UpdateWorkOrderStatus(ctx context.Context, arg database.UpdateWorkOrderStatusParams) (database.WorkOrder, error)
	FinalizeWorkOrder(ctx context.Context, id int64) (database.WorkOrder, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	GetPayment(ctx context.Context, id int64) (database.Payment, error)
	DeletePayment(ctx context.Context, id int64) (int64, error)
	SumPaymentsByOrder(ctx context.Context, workOrderID int64) (pgtype.Numeric, error)
	SumPartCharges(ctx context.Context, workOrderID int64) (pgtype.Numeric, error)
	SumServiceCharges(ctx context.Context, workOrderID int64) (pgtype.Numeric, error)
}

// NewSettlementStore creates a SettlementStore from a DBTX (pool or tx).
type NewSettlementStore func(db database.DBTX) SettlementStore

// SettlementService applies payments to work orders and drives the status
// state machine. The transition into FINALIZED fires automatically, exactly
// once, when cumulative payments reach cumulative charges.
type SettlementService struct {
	pool     TxBeginner
	newStore NewSettlementStore
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(pool TxBeginner, newStore NewSettlementStore) *SettlementService {
	return &SettlementService{pool: pool, newStore: newStore}
}

// RegisterPaymentRequest is the validated input for registering a payment.
type RegisterPaymentRequest struct {
	OrderID     int64
	Amount      string
	Method      string
	Installment int32
	Note        string
}

// PaymentResult carries the created payment, the order as of commit, and
// whether this payment caused the FINALIZED transition. Callers use
// Finalized to fire transition events exactly once.
type PaymentResult struct {
	Payment   database.Payment
	Order     database.WorkOrder
	Finalized bool
}

// RegisterPayment inserts the payment and, within the same transaction,
// recomputes the totals and finalizes the order once paid in full. The order
// row is locked first so two concurrent "final" payments serialize their
// read-compare-finalize sequence; the transition never re-fires for an
// already FINALIZED order.
func (s *SettlementService) RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (PaymentResult, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return PaymentResult{}, ErrInvalidAmount
	}
	if !enum.IsValidPaymentMethod(req.Method) {
		return PaymentResult{}, ErrInvalidMethod
	}
	installment := req.Installment
	if installment == 0 {
		installment = 1
	}
	if installment < 1 {
		return PaymentResult{}, ErrInvalidInstallment
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetWorkOrderForUpdate(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PaymentResult{}, ErrOrderNotFound
		}
		return PaymentResult{}, fmt.Errorf("lock work order: %w", err)
	}

	note := pgtype.Text{}
	if req.Note != "" {
		note = pgtype.Text{String: req.Note, Valid: true}
	}

	payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
		WorkOrderID: order.ID,
		Amount:      decimalToNumeric(amount),
		Method:      req.Method,
		Installment: installment,
		Note:        note,
	})
	if err != nil {
		return PaymentResult{}, fmt.Errorf("create payment: %w", err)
	}

	totalPaid, totalCharge, err := s.totals(ctx, store, order.ID)
	if err != nil {
		return PaymentResult{}, err
	}

	// Settled when paid >= charge - ε. Already-FINALIZED orders are left
	// untouched so overpayment never moves the close date.
	finalized := false
	if order.Status != enum.OrderStatusFinalized &&
		totalPaid.GreaterThanOrEqual(totalCharge.Sub(settlementEpsilon)) {
		order, err = store.FinalizeWorkOrder(ctx, order.ID)
		if err != nil {
			return PaymentResult{}, fmt.Errorf("finalize work order: %w", err)
		}
		finalized = true
	}

	if err := tx.Commit(ctx); err != nil {
		return PaymentResult{}, fmt.Errorf("commit tx: %w", err)
	}
	return PaymentResult{Payment: payment, Order: order, Finalized: finalized}, nil
}

// UpdateStatus sets the order status to any known literal. Transitions are
// deliberately not validated against a table: the shop floor corrects
// statuses by hand and the legacy behavior is kept. Entering FINALIZED
// stamps the close date if unset.
func (s *SettlementService) UpdateStatus(ctx context.Context, orderID int64, status string) (database.WorkOrder, error) {
	if !enum.IsValidOrderStatus(status) {
		return database.WorkOrder{}, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.WorkOrder{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.UpdateWorkOrderStatus(ctx, database.UpdateWorkOrderStatusParams{
		ID:     orderID,
		Status: status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.WorkOrder{}, ErrOrderNotFound
		}
		return database.WorkOrder{}, fmt.Errorf("update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.WorkOrder{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// OrderBalance is the settlement view of an order.
type OrderBalance struct {
	TotalCharge decimal.Decimal
	TotalPaid   decimal.Decimal
	Balance     decimal.Decimal
}

// Balance recomputes (charge, paid, charge-paid) fresh. A negative balance
// denotes overpayment and is not an error.
func (s *SettlementService) Balance(ctx context.Context, orderID int64) (OrderBalance, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return OrderBalance{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.GetWorkOrder(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderBalance{}, ErrOrderNotFound
		}
		return OrderBalance{}, fmt.Errorf("get work order: %w", err)
	}

	totalPaid, totalCharge, err := s.totals(ctx, store, orderID)
	if err != nil {
		return OrderBalance{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return OrderBalance{}, fmt.Errorf("commit tx: %w", err)
	}
	return OrderBalance{
		TotalCharge: totalCharge,
		TotalPaid:   totalPaid,
		Balance:     totalCharge.Sub(totalPaid),
	}, nil
}

// DeletePayment removes a payment record as a pure correction: the order's
// status and close date are never reverted by it. Privileged; the caller's
// identity is written to the audit log.
func (s *SettlementService) DeletePayment(ctx context.Context, paymentID int64, actor string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	payment, err := store.GetPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("get payment: %w", err)
	}

	if _, err := store.DeletePayment(ctx, payment.ID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Printf("AUDIT: user %s removed payment %d (order %d, amount %s)",
		actor, payment.ID, payment.WorkOrderID, numericToDecimal(payment.Amount).StringFixed(2))
	return nil
}

func (s *SettlementService) totals(ctx context.Context, store SettlementStore, orderID int64) (paid, charge decimal.Decimal, err error) {
	paidN, err := store.SumPaymentsByOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	partsN, err := store.SumPartCharges(ctx, orderID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum part charges: %w", err)
	}
	servicesN, err := store.SumServiceCharges(ctx, orderID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sum service charges: %w", err)
	}
	return numericToDecimal(paidN), numericToDecimal(partsN).Add(numericToDecimal(servicesN)), nil
}
