package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	m.committed = true
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error {
	m.rolledBack = true
	return m.rollbackErr
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockOrderStore implements OrderStore with configurable behavior.
type mockOrderStore struct {
	getVehicleFn            func(ctx context.Context, id int64) (database.Vehicle, error)
	getMechanicFn           func(ctx context.Context, id int64) (database.Mechanic, error)
	createWorkOrderFn       func(ctx context.Context, arg database.CreateWorkOrderParams) (database.WorkOrder, error)
	getWorkOrderFn          func(ctx context.Context, id int64) (database.WorkOrder, error)
	getPartForUpdateFn      func(ctx context.Context, id int64) (database.Part, error)
	adjustPartStockFn       func(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error)
	createPartLineFn        func(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error)
	getPartLineFn           func(ctx context.Context, arg database.GetPartLineByOrderAndPartParams) (database.PartLine, error)
	deletePartLineFn        func(ctx context.Context, id int64) error
	getServiceFn            func(ctx context.Context, id int64) (database.Service, error)
	createServiceLineFn     func(ctx context.Context, arg database.CreateServiceLineParams) (database.ServiceLine, error)
	getServiceLineFn        func(ctx context.Context, arg database.GetServiceLineByOrderAndServiceParams) (database.ServiceLine, error)
	deleteServiceLineFn     func(ctx context.Context, id int64) error
	listPartLinesFn         func(ctx context.Context, workOrderID int64) ([]database.PartLine, error)
	listServiceLinesFn      func(ctx context.Context, workOrderID int64) ([]database.ServiceLineRow, error)
	listPaymentsByOrderFn   func(ctx context.Context, workOrderID int64) ([]database.Payment, error)
}

func (m *mockOrderStore) GetVehicle(ctx context.Context, id int64) (database.Vehicle, error) {
	return m.getVehicleFn(ctx, id)
}
func (m *mockOrderStore) GetMechanic(ctx context.Context, id int64) (database.Mechanic, error) {
	return m.getMechanicFn(ctx, id)
}
func (m *mockOrderStore) CreateWorkOrder(ctx context.Context, arg database.CreateWorkOrderParams) (database.WorkOrder, error) {
	return m.createWorkOrderFn(ctx, arg)
}
func (m *mockOrderStore) GetWorkOrder(ctx context.Context, id int64) (database.WorkOrder, error) {
	return m.getWorkOrderFn(ctx, id)
}
func (m *mockOrderStore) GetPartForUpdate(ctx context.Context, id int64) (database.Part, error) {
	return m.getPartForUpdateFn(ctx, id)
}
func (m *mockOrderStore) AdjustPartStock(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error) {
	return m.adjustPartStockFn(ctx, arg)
}
func (m *mockOrderStore) CreatePartLine(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error) {
	return m.createPartLineFn(ctx, arg)
}
func (m *mockOrderStore) GetPartLineByOrderAndPart(ctx context.Context, arg database.GetPartLineByOrderAndPartParams) (database.PartLine, error) {
	return m.getPartLineFn(ctx, arg)
}
func (m *mockOrderStore) DeletePartLine(ctx context.Context, id int64) error {
	return m.deletePartLineFn(ctx, id)
}
func (m *mockOrderStore) GetService(ctx context.Context, id int64) (database.Service, error) {
	return m.getServiceFn(ctx, id)
}
func (m *mockOrderStore) CreateServiceLine(ctx context.Context, arg database.CreateServiceLineParams) (database.ServiceLine, error) {
	return m.createServiceLineFn(ctx, arg)
}
func (m *mockOrderStore) GetServiceLineByOrderAndService(ctx context.Context, arg database.GetServiceLineByOrderAndServiceParams) (database.ServiceLine, error) {
	return m.getServiceLineFn(ctx, arg)
}
func (m *mockOrderStore) DeleteServiceLine(ctx context.Context, id int64) error {
	return m.deleteServiceLineFn(ctx, id)
}
func (m *mockOrderStore) ListPartLinesByOrder(ctx context.Context, workOrderID int64) ([]database.PartLine, error) {
	return m.listPartLinesFn(ctx, workOrderID)
}
func (m *mockOrderStore) ListServiceLinesByOrder(ctx context.Context, workOrderID int64) ([]database.ServiceLineRow, error) {
	return m.listServiceLinesFn(ctx, workOrderID)
}
func (m *mockOrderStore) ListPaymentsByOrder(ctx context.Context, workOrderID int64) ([]database.Payment, error) {
	return m.listPaymentsByOrderFn(ctx, workOrderID)
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

// newTestOrderService creates an OrderService with mocked dependencies.
func newTestOrderService(store *mockOrderStore) (*OrderService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) OrderStore { return store }
	return NewOrderService(pool, newStore), tx
}

// defaultOrderStore returns a mockOrderStore preloaded with one vehicle, one
// mechanic, one order, one part and one service. Tests override the
// functions they care about.
func defaultOrderStore() *mockOrderStore {
	return &mockOrderStore{
		getVehicleFn: func(ctx context.Context, id int64) (database.Vehicle, error) {
			if id == 1 {
				return database.Vehicle{ID: 1, Plate: "ABC1234", Model: "Gol", CustomerID: 7}, nil
			}
			return database.Vehicle{}, pgx.ErrNoRows
		},
		getMechanicFn: func(ctx context.Context, id int64) (database.Mechanic, error) {
			if id == 2 {
				return database.Mechanic{ID: 2, Name: "Jo"}, nil
			}
			return database.Mechanic{}, pgx.ErrNoRows
		},
		createWorkOrderFn: func(ctx context.Context, arg database.CreateWorkOrderParams) (database.WorkOrder, error) {
			return database.WorkOrder{
				ID:         10,
				Status:     arg.Status,
				Odometer:   arg.Odometer,
				Complaint:  arg.Complaint,
				CustomerID: arg.CustomerID,
				VehicleID:  arg.VehicleID,
				MechanicID: arg.MechanicID,
			}, nil
		},
		getWorkOrderFn: func(ctx context.Context, id int64) (database.WorkOrder, error) {
			if id == 10 {
				return database.WorkOrder{ID: 10, Status: enum.OrderStatusQuote}, nil
			}
			return database.WorkOrder{}, pgx.ErrNoRows
		},
		getPartForUpdateFn: func(ctx context.Context, id int64) (database.Part, error) {
			if id == 5 {
				return database.Part{ID: 5, Code: "OIL-5W30", Name: "Engine oil", SalePrice: makeNumeric("45.00"), Stock: 8}, nil
			}
			return database.Part{}, pgx.ErrNoRows
		},
		adjustPartStockFn: func(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error) {
			return database.Part{ID: arg.ID, Stock: 8 + arg.Delta}, nil
		},
		createPartLineFn: func(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error) {
			return database.PartLine{
				ID:          100,
				WorkOrderID: arg.WorkOrderID,
				PartID:      arg.PartID,
				Name:        arg.Name,
				Quantity:    arg.Quantity,
				UnitPrice:   arg.UnitPrice,
			}, nil
		},
		getServiceFn: func(ctx context.Context, id int64) (database.Service, error) {
			if id == 3 {
				return database.Service{ID: 3, Description: "Oil change", LaborPrice: makeNumeric("60.00")}, nil
			}
			return database.Service{}, pgx.ErrNoRows
		},
		createServiceLineFn: func(ctx context.Context, arg database.CreateServiceLineParams) (database.ServiceLine, error) {
			return database.ServiceLine{
				ID:          200,
				WorkOrderID: arg.WorkOrderID,
				ServiceID:   arg.ServiceID,
				Quantity:    arg.Quantity,
				UnitPrice:   arg.UnitPrice,
			}, nil
		},
	}
}

// --- OpenOrder ---

func TestOpenOrder_DerivesCustomerFromVehicle(t *testing.T) {
	store := defaultOrderStore()
	svc, tx := newTestOrderService(store)

	order, err := svc.OpenOrder(context.Background(), OpenOrderRequest{
		VehicleID:  1,
		MechanicID: 2,
		Complaint:  "engine noise",
		Odometer:   120000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CustomerID != 7 {
		t.Errorf("customer ID = %d, want 7 (derived from vehicle)", order.CustomerID)
	}
	if order.Status != enum.OrderStatusQuote {
		t.Errorf("status = %q, want %q", order.Status, enum.OrderStatusQuote)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}
}

func TestOpenOrder_VehicleNotFound(t *testing.T) {
	store := defaultOrderStore()
	svc, _ := newTestOrderService(store)

	_, err := svc.OpenOrder(context.Background(), OpenOrderRequest{VehicleID: 99, MechanicID: 2})
	if !errors.Is(err, ErrVehicleNotFound) {
		t.Errorf("error = %v, want ErrVehicleNotFound", err)
	}
}

func TestOpenOrder_MechanicNotFound(t *testing.T) {
	store := defaultOrderStore()
	svc, _ := newTestOrderService(store)

	_, err := svc.OpenOrder(context.Background(), OpenOrderRequest{VehicleID: 1, MechanicID: 99})
	if !errors.Is(err, ErrMechanicNotFound) {
		t.Errorf("error = %v, want ErrMechanicNotFound", err)
	}
}

// --- AddPartLine ---

func TestAddPartLine_FreezesCatalogPrice(t *testing.T) {
	store := defaultOrderStore()
	var createdPrice pgtype.Numeric
	store.createPartLineFn = func(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error) {
		createdPrice = arg.UnitPrice
		return database.PartLine{ID: 100, WorkOrderID: arg.WorkOrderID, PartID: arg.PartID, Name: arg.Name, Quantity: arg.Quantity, UnitPrice: arg.UnitPrice}, nil
	}
	svc, tx := newTestOrderService(store)

	line, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !numericEquals(createdPrice, "45.00") {
		t.Errorf("frozen unit price = %v, want 45.00", numericToDecimal(createdPrice))
	}
	if line.Name != "Engine oil" {
		t.Errorf("name snapshot = %q, want %q", line.Name, "Engine oil")
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}
}

func TestAddPartLine_DebitsStock(t *testing.T) {
	store := defaultOrderStore()
	var delta int32
	store.adjustPartStockFn = func(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error) {
		delta = arg.Delta
		return database.Part{ID: arg.ID, Stock: 8 + arg.Delta}, nil
	}
	svc, _ := newTestOrderService(store)

	if _, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delta != -3 {
		t.Errorf("stock delta = %d, want -3", delta)
	}
}

func TestAddPartLine_InsufficientStock(t *testing.T) {
	store := defaultOrderStore()
	svc, tx := newTestOrderService(store)

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 9})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("error = %v, want ErrInsufficientStock", err)
	}
	if !strings.Contains(err.Error(), "available 8") {
		t.Errorf("error %q should report the available quantity", err)
	}
	if tx.committed {
		t.Error("transaction must not commit on failed stock check")
	}
}

func TestAddPartLine_ExactStockSucceeds(t *testing.T) {
	store := defaultOrderStore()
	svc, _ := newTestOrderService(store)

	if _, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 8}); err != nil {
		t.Fatalf("quantity == stock must succeed, got: %v", err)
	}
}

func TestAddPartLine_ZeroQuantity(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 0})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("error = %v, want ErrInvalidQuantity", err)
	}
}

func TestAddPartLine_NegativeQuantity(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: -2})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("error = %v, want ErrInvalidQuantity", err)
	}
}

func TestAddPartLine_OrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 99, PartID: 5, Quantity: 1})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("error = %v, want ErrOrderNotFound", err)
	}
}

func TestAddPartLine_PartNotFound(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 99, Quantity: 1})
	if !errors.Is(err, ErrPartNotFound) {
		t.Errorf("error = %v, want ErrPartNotFound", err)
	}
}

func TestAddPartLine_AdHoc(t *testing.T) {
	store := defaultOrderStore()
	store.getPartForUpdateFn = func(ctx context.Context, id int64) (database.Part, error) {
		t.Fatal("ad-hoc line must not touch the parts catalog")
		return database.Part{}, nil
	}
	store.adjustPartStockFn = func(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error) {
		t.Fatal("ad-hoc line must not move stock")
		return database.Part{}, nil
	}
	svc, _ := newTestOrderService(store)

	line, err := svc.AddPartLine(context.Background(), AddPartLineRequest{
		OrderID:    10,
		Quantity:   1,
		AdHocName:  "Salvaged alternator",
		AdHocPrice: "180.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.PartID.Valid {
		t.Error("ad-hoc line must have NULL part_id")
	}
	if !numericEquals(line.UnitPrice, "180.00") {
		t.Errorf("unit price = %v, want 180.00", numericToDecimal(line.UnitPrice))
	}
}

func TestAddPartLine_AdHocMissingFields(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	cases := []AddPartLineRequest{
		{OrderID: 10, Quantity: 1, AdHocName: "Thing"},
		{OrderID: 10, Quantity: 1, AdHocPrice: "10.00"},
		{OrderID: 10, Quantity: 1},
	}
	for _, req := range cases {
		if _, err := svc.AddPartLine(context.Background(), req); !errors.Is(err, ErrAdHocFields) {
			t.Errorf("req %+v: error = %v, want ErrAdHocFields", req, err)
		}
	}
}

func TestAddPartLine_AdHocNegativePrice(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{
		OrderID: 10, Quantity: 1, AdHocName: "Thing", AdHocPrice: "-5.00",
	})
	if !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("error = %v, want ErrInvalidPrice", err)
	}
}

func TestAddPartLine_DuplicateConflict(t *testing.T) {
	store := defaultOrderStore()
	store.createPartLineFn = func(ctx context.Context, arg database.CreatePartLineParams) (database.PartLine, error) {
		return database.PartLine{}, &pgconn.PgError{Code: "23505", ConstraintName: "idx_part_lines_order_part"}
	}
	svc, _ := newTestOrderService(store)

	_, err := svc.AddPartLine(context.Background(), AddPartLineRequest{OrderID: 10, PartID: 5, Quantity: 1})
	if !errors.Is(err, ErrDuplicateLine) {
		t.Errorf("error = %v, want ErrDuplicateLine", err)
	}
}

// --- RemovePartLine ---

func TestRemovePartLine_CreditsStock(t *testing.T) {
	store := defaultOrderStore()
	store.getPartLineFn = func(ctx context.Context, arg database.GetPartLineByOrderAndPartParams) (database.PartLine, error) {
		return database.PartLine{ID: 100, WorkOrderID: arg.WorkOrderID, PartID: pgtype.Int8{Int64: arg.PartID, Valid: true}, Quantity: 4}, nil
	}
	var deleted int64
	store.deletePartLineFn = func(ctx context.Context, id int64) error {
		deleted = id
		return nil
	}
	var delta int32
	store.adjustPartStockFn = func(ctx context.Context, arg database.AdjustPartStockParams) (database.Part, error) {
		delta = arg.Delta
		return database.Part{ID: arg.ID}, nil
	}
	svc, tx := newTestOrderService(store)

	if err := svc.RemovePartLine(context.Background(), 10, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 100 {
		t.Errorf("deleted line ID = %d, want 100", deleted)
	}
	if delta != 4 {
		t.Errorf("stock credit = %d, want +4", delta)
	}
	if !tx.committed {
		t.Error("transaction was not committed")
	}
}

func TestRemovePartLine_NotFound(t *testing.T) {
	store := defaultOrderStore()
	store.getPartLineFn = func(ctx context.Context, arg database.GetPartLineByOrderAndPartParams) (database.PartLine, error) {
		return database.PartLine{}, pgx.ErrNoRows
	}
	svc, _ := newTestOrderService(store)

	if err := svc.RemovePartLine(context.Background(), 10, 5); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("error = %v, want ErrLineNotFound", err)
	}
}

// --- AddServiceLine ---

func TestAddServiceLine_FreezesLaborPrice(t *testing.T) {
	store := defaultOrderStore()
	svc, _ := newTestOrderService(store)

	line, err := svc.AddServiceLine(context.Background(), AddServiceLineRequest{OrderID: 10, ServiceID: 3, Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !numericEquals(line.UnitPrice, "60.00") {
		t.Errorf("unit price = %v, want 60.00 (catalog labor price)", numericToDecimal(line.UnitPrice))
	}
}

func TestAddServiceLine_PriceOverride(t *testing.T) {
	store := defaultOrderStore()
	svc, _ := newTestOrderService(store)

	line, err := svc.AddServiceLine(context.Background(), AddServiceLineRequest{
		OrderID: 10, ServiceID: 3, Quantity: 1, PriceOverride: "75.50",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !numericEquals(line.UnitPrice, "75.50") {
		t.Errorf("unit price = %v, want override 75.50", numericToDecimal(line.UnitPrice))
	}
}

func TestAddServiceLine_ServiceNotFound(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	_, err := svc.AddServiceLine(context.Background(), AddServiceLineRequest{OrderID: 10, ServiceID: 99, Quantity: 1})
	if !errors.Is(err, ErrServiceNotFound) {
		t.Errorf("error = %v, want ErrServiceNotFound", err)
	}
}

func TestAddServiceLine_DuplicateConflict(t *testing.T) {
	store := defaultOrderStore()
	store.createServiceLineFn = func(ctx context.Context, arg database.CreateServiceLineParams) (database.ServiceLine, error) {
		return database.ServiceLine{}, &pgconn.PgError{Code: "23505", ConstraintName: "service_lines_work_order_id_service_id_key"}
	}
	svc, _ := newTestOrderService(store)

	_, err := svc.AddServiceLine(context.Background(), AddServiceLineRequest{OrderID: 10, ServiceID: 3, Quantity: 1})
	if !errors.Is(err, ErrDuplicateLine) {
		t.Errorf("error = %v, want ErrDuplicateLine", err)
	}
}

// --- Detail ---

func TestDetail_ComputesTotals(t *testing.T) {
	store := defaultOrderStore()
	store.listPartLinesFn = func(ctx context.Context, workOrderID int64) ([]database.PartLine, error) {
		return []database.PartLine{
			{ID: 1, Quantity: 2, UnitPrice: makeNumeric("45.00")},
			{ID: 2, Quantity: 1, UnitPrice: makeNumeric("25.00"), Name: "Ad-hoc"},
		}, nil
	}
	store.listServiceLinesFn = func(ctx context.Context, workOrderID int64) ([]database.ServiceLineRow, error) {
		return []database.ServiceLineRow{
			{ServiceLine: database.ServiceLine{ID: 3, Quantity: 1, UnitPrice: makeNumeric("60.00")}, Description: "Oil change"},
		}, nil
	}
	store.listPaymentsByOrderFn = func(ctx context.Context, workOrderID int64) ([]database.Payment, error) {
		return []database.Payment{
			{ID: 1, Amount: makeNumeric("100.00")},
		}, nil
	}
	svc, _ := newTestOrderService(store)

	detail, err := svc.Detail(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := detail.TotalParts.StringFixed(2); got != "115.00" {
		t.Errorf("total parts = %s, want 115.00", got)
	}
	if got := detail.TotalServices.StringFixed(2); got != "60.00" {
		t.Errorf("total services = %s, want 60.00", got)
	}
	if got := detail.GrandTotal.StringFixed(2); got != "175.00" {
		t.Errorf("grand total = %s, want 175.00", got)
	}
	if got := detail.TotalPaid.StringFixed(2); got != "100.00" {
		t.Errorf("total paid = %s, want 100.00", got)
	}
	if got := detail.Balance.StringFixed(2); got != "75.00" {
		t.Errorf("balance = %s, want 75.00", got)
	}
}

func TestDetail_OrderNotFound(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore())

	if _, err := svc.Detail(context.Background(), 99); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("error = %v, want ErrOrderNotFound", err)
	}
}
