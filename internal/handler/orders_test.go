package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/oficinapro/api/internal/handler"
	"github.com/oficinapro/api/internal/service"
	"github.com/oficinapro/api/internal/ws"
	"github.com/shopspring/decimal"
)

// --- Mock engines ---

type mockOrderEngine struct {
	openOrderFn         func(ctx context.Context, req service.OpenOrderRequest) (database.WorkOrder, error)
	addPartLineFn       func(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error)
	removePartLineFn    func(ctx context.Context, orderID, partID int64) error
	addServiceLineFn    func(ctx context.Context, req service.AddServiceLineRequest) (database.ServiceLine, error)
	removeServiceLineFn func(ctx context.Context, orderID, serviceID int64) error
	detailFn            func(ctx context.Context, orderID int64) (*service.OrderDetail, error)
}

func (m *mockOrderEngine) OpenOrder(ctx context.Context, req service.OpenOrderRequest) (database.WorkOrder, error) {
	return m.openOrderFn(ctx, req)
}
func (m *mockOrderEngine) AddPartLine(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error) {
	return m.addPartLineFn(ctx, req)
}
func (m *mockOrderEngine) RemovePartLine(ctx context.Context, orderID, partID int64) error {
	return m.removePartLineFn(ctx, orderID, partID)
}
func (m *mockOrderEngine) AddServiceLine(ctx context.Context, req service.AddServiceLineRequest) (database.ServiceLine, error) {
	return m.addServiceLineFn(ctx, req)
}
func (m *mockOrderEngine) RemoveServiceLine(ctx context.Context, orderID, serviceID int64) error {
	return m.removeServiceLineFn(ctx, orderID, serviceID)
}
func (m *mockOrderEngine) Detail(ctx context.Context, orderID int64) (*service.OrderDetail, error) {
	return m.detailFn(ctx, orderID)
}

type mockSettlementEngine struct {
	registerPaymentFn func(ctx context.Context, req service.RegisterPaymentRequest) (service.PaymentResult, error)
	updateStatusFn    func(ctx context.Context, orderID int64, status string) (database.WorkOrder, error)
	balanceFn         func(ctx context.Context, orderID int64) (service.OrderBalance, error)
	deletePaymentFn   func(ctx context.Context, paymentID int64, actor string) error
}

func (m *mockSettlementEngine) RegisterPayment(ctx context.Context, req service.RegisterPaymentRequest) (service.PaymentResult, error) {
	return m.registerPaymentFn(ctx, req)
}
func (m *mockSettlementEngine) UpdateStatus(ctx context.Context, orderID int64, status string) (database.WorkOrder, error) {
	return m.updateStatusFn(ctx, orderID, status)
}
func (m *mockSettlementEngine) Balance(ctx context.Context, orderID int64) (service.OrderBalance, error) {
	return m.balanceFn(ctx, orderID)
}
func (m *mockSettlementEngine) DeletePayment(ctx context.Context, paymentID int64, actor string) error {
	return m.deletePaymentFn(ctx, paymentID, actor)
}

type mockOrderListStore struct {
	orders []database.WorkOrder
}

func (m *mockOrderListStore) ListWorkOrders(_ context.Context, arg database.ListWorkOrdersParams) ([]database.WorkOrder, error) {
	return m.orders, nil
}

// mockHub records broadcast events.
type mockHub struct {
	mu     sync.Mutex
	events []string
}

func (m *mockHub) Broadcast(eventType string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
}

func (m *mockHub) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

// --- Helpers ---

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func setupOrderRouter(engine *mockOrderEngine, settlement *mockSettlementEngine, store *mockOrderListStore, hub *mockHub) *chi.Mux {
	h := handler.NewOrderHandler(engine, settlement, store, hub)
	r := chi.NewRouter()
	r.Route("/orders", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestOpenOrder(t *testing.T) {
	hub := &mockHub{}
	engine := &mockOrderEngine{
		openOrderFn: func(ctx context.Context, req service.OpenOrderRequest) (database.WorkOrder, error) {
			return database.WorkOrder{
				ID:         3,
				Status:     enum.OrderStatusQuote,
				Odometer:   req.Odometer,
				Complaint:  req.Complaint,
				CustomerID: 7,
				VehicleID:  req.VehicleID,
				MechanicID: req.MechanicID,
			}, nil
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, hub)

	rr := doRequest(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"vehicle_id":  1,
		"mechanic_id": 2,
		"complaint":   "engine noise",
		"odometer":    120000,
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["order_number"] != float64(3) {
		t.Errorf("order_number = %v, want 3 (mirrors the ID)", resp["order_number"])
	}
	if resp["status"] != enum.OrderStatusQuote {
		t.Errorf("status = %v, want QUOTE", resp["status"])
	}
	if events := hub.Events(); len(events) != 1 || events[0] != ws.EventOrderOpened {
		t.Errorf("broadcast events = %v, want [order_opened]", events)
	}
}

func TestOpenOrder_MissingVehicle(t *testing.T) {
	router := setupOrderRouter(&mockOrderEngine{}, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"mechanic_id": 2,
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestOpenOrder_VehicleNotFound(t *testing.T) {
	engine := &mockOrderEngine{
		openOrderFn: func(ctx context.Context, req service.OpenOrderRequest) (database.WorkOrder, error) {
			return database.WorkOrder{}, service.ErrVehicleNotFound
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"vehicle_id": 99, "mechanic_id": 2,
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAddPartLine_InsufficientStockConflict(t *testing.T) {
	engine := &mockOrderEngine{
		addPartLineFn: func(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error) {
			return database.PartLine{}, service.ErrInsufficientStock
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPost, "/orders/10/parts", map[string]interface{}{
		"part_id": 5, "quantity": 99,
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestAddPartLine_DuplicateConflict(t *testing.T) {
	engine := &mockOrderEngine{
		addPartLineFn: func(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error) {
			return database.PartLine{}, service.ErrDuplicateLine
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPost, "/orders/10/parts", map[string]interface{}{
		"part_id": 5, "quantity": 1,
	})
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestAddPartLine_Created(t *testing.T) {
	engine := &mockOrderEngine{
		addPartLineFn: func(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error) {
			return database.PartLine{
				ID:          100,
				WorkOrderID: req.OrderID,
				Name:        "Engine oil",
				Quantity:    req.Quantity,
				UnitPrice:   makeNumeric("45.00"),
			}, nil
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPost, "/orders/10/parts", map[string]interface{}{
		"part_id": 5, "quantity": 2,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["unit_price"] != "45.00" {
		t.Errorf("unit_price = %v, want 45.00", resp["unit_price"])
	}
	if resp["subtotal"] != "90.00" {
		t.Errorf("subtotal = %v, want 90.00", resp["subtotal"])
	}
}

func TestRemovePartLine_NotFound(t *testing.T) {
	engine := &mockOrderEngine{
		removePartLineFn: func(ctx context.Context, orderID, partID int64) error {
			return service.ErrLineNotFound
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodDelete, "/orders/10/parts/5", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestUpdateStatus_BroadcastsChange(t *testing.T) {
	hub := &mockHub{}
	settlement := &mockSettlementEngine{
		updateStatusFn: func(ctx context.Context, orderID int64, status string) (database.WorkOrder, error) {
			return database.WorkOrder{ID: orderID, Status: status}, nil
		},
	}
	router := setupOrderRouter(&mockOrderEngine{}, settlement, &mockOrderListStore{}, hub)

	rr := doRequest(t, router, http.MethodPut, "/orders/10/status", map[string]interface{}{
		"status": enum.OrderStatusInProgress,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if events := hub.Events(); len(events) != 1 || events[0] != ws.EventOrderStatus {
		t.Errorf("broadcast events = %v, want [order_status_changed]", events)
	}
}

func TestUpdateStatus_InvalidLiteral(t *testing.T) {
	settlement := &mockSettlementEngine{
		updateStatusFn: func(ctx context.Context, orderID int64, status string) (database.WorkOrder, error) {
			return database.WorkOrder{}, service.ErrInvalidStatus
		},
	}
	router := setupOrderRouter(&mockOrderEngine{}, settlement, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodPut, "/orders/10/status", map[string]interface{}{
		"status": "DONE",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestOrderDetail_Totals(t *testing.T) {
	engine := &mockOrderEngine{
		detailFn: func(ctx context.Context, orderID int64) (*service.OrderDetail, error) {
			detail := &service.OrderDetail{
				Order: database.WorkOrder{ID: orderID, Status: enum.OrderStatusInProgress},
			}
			detail.TotalParts = mustDecimal(t, "115.00")
			detail.TotalServices = mustDecimal(t, "60.00")
			detail.GrandTotal = mustDecimal(t, "175.00")
			detail.TotalPaid = mustDecimal(t, "100.00")
			detail.Balance = mustDecimal(t, "75.00")
			return detail, nil
		},
	}
	router := setupOrderRouter(engine, &mockSettlementEngine{}, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodGet, "/orders/10", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["grand_total"] != "175.00" {
		t.Errorf("grand_total = %v, want 175.00", resp["grand_total"])
	}
	if resp["balance"] != "75.00" {
		t.Errorf("balance = %v, want 75.00", resp["balance"])
	}
	// Empty collections serialize as [] not null
	if _, ok := resp["parts"].([]interface{}); !ok {
		t.Errorf("parts = %v, want array", resp["parts"])
	}
}

func TestBalanceEndpoint(t *testing.T) {
	settlement := &mockSettlementEngine{
		balanceFn: func(ctx context.Context, orderID int64) (service.OrderBalance, error) {
			return service.OrderBalance{
				TotalCharge: mustDecimal(t, "200.00"),
				TotalPaid:   mustDecimal(t, "120.00"),
				Balance:     mustDecimal(t, "80.00"),
			}, nil
		},
	}
	router := setupOrderRouter(&mockOrderEngine{}, settlement, &mockOrderListStore{}, &mockHub{})

	rr := doRequest(t, router, http.MethodGet, "/orders/10/balance", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["balance"] != "80.00" {
		t.Errorf("balance = %v, want 80.00", resp["balance"])
	}
}

func TestListOrders(t *testing.T) {
	store := &mockOrderListStore{orders: []database.WorkOrder{
		{ID: 1, Status: enum.OrderStatusQuote},
		{ID: 2, Status: enum.OrderStatusFinalized},
	}}
	router := setupOrderRouter(&mockOrderEngine{}, &mockSettlementEngine{}, store, &mockHub{})

	rr := doRequest(t, router, http.MethodGet, "/orders", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len = %d, want 2", len(resp))
	}
}
