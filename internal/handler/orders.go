package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/service"
	"github.com/oficinapro/api/internal/ws"
	"github.com/shopspring/decimal"
)

// OrderEngine is the transactional order lifecycle surface the handlers
// drive. Satisfied by *service.OrderService.
type OrderEngine interface {
	OpenOrder(ctx context.Context, req service.OpenOrderRequest) (database.WorkOrder, error)
	AddPartLine(ctx context.Context, req service.AddPartLineRequest) (database.PartLine, error)
	RemovePartLine(ctx context.Context, orderID, partID int64) error
	AddServiceLine(ctx context.Context, req service.AddServiceLineRequest) (database.ServiceLine, error)
	RemoveServiceLine(ctx context.Context, orderID, serviceID int64) error
	Detail(ctx context.Context, orderID int64) (*service.OrderDetail, error)
}

// SettlementEngine is the payment/status surface. Satisfied by
// *service.SettlementService.
type SettlementEngine interface {
	UpdateStatus(ctx context.Context, orderID int64, status string) (database.WorkOrder, error)
	Balance(ctx context.Context, orderID int64) (service.OrderBalance, error)
}

// OrderListStore lists work orders directly; listing needs no transaction.
type OrderListStore interface {
	ListWorkOrders(ctx context.Context, arg database.ListWorkOrdersParams) ([]database.WorkOrder, error)
}

// Broadcaster pushes events to the shop board. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// OrderHandler handles the work order lifecycle endpoints.
type OrderHandler struct {
	engine     OrderEngine
	settlement SettlementEngine
	store      OrderListStore
	hub        Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(engine OrderEngine, settlement SettlementEngine, store OrderListStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{engine: engine, settlement: settlement, store: store, hub: hub}
}

// RegisterRoutes registers work order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Open)
	r.Get("/{id}", h.Detail)
	r.Put("/{id}/status", h.UpdateStatus)
	r.Get("/{id}/balance", h.Balance)
	r.Post("/{id}/parts", h.AddPartLine)
	r.Delete("/{id}/parts/{partID}", h.RemovePartLine)
	r.Post("/{id}/services", h.AddServiceLine)
	r.Delete("/{id}/services/{serviceID}", h.RemoveServiceLine)
}

// --- Request / Response types ---

type openOrderRequest struct {
	VehicleID  int64  `json:"vehicle_id"`
	MechanicID int64  `json:"mechanic_id"`
	Complaint  string `json:"complaint"`
	Odometer   int32  `json:"odometer"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type addPartLineRequest struct {
	PartID    int64  `json:"part_id"`
	Quantity  int32  `json:"quantity"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
}

type addServiceLineRequest struct {
	ServiceID int64  `json:"service_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// orderResponse exposes order_number as an alias of the row ID; sequential
// row IDs double as the shop's human-facing OS numbers.
type orderResponse struct {
	ID          int64   `json:"id"`
	OrderNumber int64   `json:"order_number"`
	OpenedAt    string  `json:"opened_at"`
	ClosedAt    *string `json:"closed_at"`
	Status      string  `json:"status"`
	Odometer    int32   `json:"odometer"`
	Complaint   string  `json:"complaint"`
	CustomerID  int64   `json:"customer_id"`
	VehicleID   int64   `json:"vehicle_id"`
	MechanicID  int64   `json:"mechanic_id"`
}

type partLineResponse struct {
	ID        int64  `json:"id"`
	PartID    *int64 `json:"part_id"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type serviceLineResponse struct {
	ID          int64  `json:"id"`
	ServiceID   int64  `json:"service_id"`
	Description string `json:"description"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type orderDetailResponse struct {
	orderResponse
	Parts         []partLineResponse    `json:"parts"`
	Services      []serviceLineResponse `json:"services"`
	Payments      []paymentResponse     `json:"payments"`
	TotalParts    string                `json:"total_parts"`
	TotalServices string                `json:"total_services"`
	GrandTotal    string                `json:"grand_total"`
	TotalPaid     string                `json:"total_paid"`
	Balance       string                `json:"balance"`
}

type balanceResponse struct {
	TotalCharge string `json:"total_charge"`
	TotalPaid   string `json:"total_paid"`
	Balance     string `json:"balance"`
}

func toOrderResponse(o database.WorkOrder) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		OrderNumber: o.ID,
		OpenedAt:    o.OpenedAt.Format("2006-01-02"),
		Status:      o.Status,
		Odometer:    o.Odometer,
		Complaint:   o.Complaint,
		CustomerID:  o.CustomerID,
		VehicleID:   o.VehicleID,
		MechanicID:  o.MechanicID,
	}
	if o.ClosedAt.Valid {
		closed := o.ClosedAt.Time.Format("2006-01-02")
		resp.ClosedAt = &closed
	}
	return resp
}

func toPartLineResponse(d service.PartLineDetail) partLineResponse {
	resp := partLineResponse{
		ID:        d.Line.ID,
		Name:      d.Line.Name,
		Quantity:  d.Line.Quantity,
		UnitPrice: money(d.Line.UnitPrice),
		Subtotal:  d.Subtotal.StringFixed(2),
	}
	if d.Line.PartID.Valid {
		id := d.Line.PartID.Int64
		resp.PartID = &id
	}
	return resp
}

func toServiceLineResponse(d service.ServiceLineDetail) serviceLineResponse {
	return serviceLineResponse{
		ID:          d.Line.ID,
		ServiceID:   d.Line.ServiceID,
		Description: d.Line.Description,
		Quantity:    d.Line.Quantity,
		UnitPrice:   money(d.Line.UnitPrice),
		Subtotal:    d.Subtotal.StringFixed(2),
	}
}

// --- Handlers ---

// List returns work orders, paginated via limit/offset query params.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListWorkOrders(r.Context(), database.ListWorkOrdersParams{
		Limit:  queryInt(r, "limit", 100),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		log.Printf("ERROR: list work orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Open creates a work order in QUOTE status.
func (h *OrderHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.VehicleID <= 0 || req.MechanicID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "vehicle_id and mechanic_id are required"})
		return
	}

	order, err := h.engine.OpenOrder(r.Context(), service.OpenOrderRequest{
		VehicleID:  req.VehicleID,
		MechanicID: req.MechanicID,
		Complaint:  req.Complaint,
		Odometer:   req.Odometer,
	})
	if err != nil {
		writeEngineError(w, "open order", err)
		return
	}

	resp := toOrderResponse(order)
	h.hub.Broadcast(ws.EventOrderOpened, resp)
	writeJSON(w, http.StatusCreated, resp)
}

// Detail returns the order with its lines, payments and computed totals.
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	detail, err := h.engine.Detail(r.Context(), id)
	if err != nil {
		writeEngineError(w, "order detail", err)
		return
	}

	resp := orderDetailResponse{
		orderResponse: toOrderResponse(detail.Order),
		Parts:         make([]partLineResponse, len(detail.Parts)),
		Services:      make([]serviceLineResponse, len(detail.Services)),
		Payments:      make([]paymentResponse, len(detail.Payments)),
		TotalParts:    detail.TotalParts.StringFixed(2),
		TotalServices: detail.TotalServices.StringFixed(2),
		GrandTotal:    detail.GrandTotal.StringFixed(2),
		TotalPaid:     detail.TotalPaid.StringFixed(2),
		Balance:       detail.Balance.StringFixed(2),
	}
	for i, p := range detail.Parts {
		resp.Parts[i] = toPartLineResponse(p)
	}
	for i, s := range detail.Services {
		resp.Services[i] = toServiceLineResponse(s)
	}
	for i, p := range detail.Payments {
		resp.Payments[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus sets the order status by hand.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.settlement.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeEngineError(w, "update order status", err)
		return
	}

	resp := toOrderResponse(order)
	h.hub.Broadcast(ws.EventOrderStatus, resp)
	writeJSON(w, http.StatusOK, resp)
}

// Balance returns the current settlement view of the order.
func (h *OrderHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	balance, err := h.settlement.Balance(r.Context(), id)
	if err != nil {
		writeEngineError(w, "order balance", err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		TotalCharge: balance.TotalCharge.StringFixed(2),
		TotalPaid:   balance.TotalPaid.StringFixed(2),
		Balance:     balance.Balance.StringFixed(2),
	})
}

// AddPartLine attaches a part to the order. part_id 0 (or absent) with name
// and unit_price set creates an ad-hoc line with no stock movement.
func (h *OrderHandler) AddPartLine(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addPartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	line, err := h.engine.AddPartLine(r.Context(), service.AddPartLineRequest{
		OrderID:    id,
		PartID:     req.PartID,
		Quantity:   req.Quantity,
		AdHocName:  req.Name,
		AdHocPrice: req.UnitPrice,
	})
	if err != nil {
		writeEngineError(w, "add part line", err)
		return
	}

	resp := partLineResponse{
		ID:        line.ID,
		Name:      line.Name,
		Quantity:  line.Quantity,
		UnitPrice: money(line.UnitPrice),
		Subtotal:  lineSubtotal(line.UnitPrice, line.Quantity),
	}
	if line.PartID.Valid {
		pid := line.PartID.Int64
		resp.PartID = &pid
	}

	writeJSON(w, http.StatusCreated, resp)
}

// RemovePartLine detaches the part from the order, crediting stock back for
// catalog lines.
func (h *OrderHandler) RemovePartLine(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	partID := urlID(r, "partID")
	if id == 0 || partID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return
	}

	if err := h.engine.RemovePartLine(r.Context(), id, partID); err != nil {
		writeEngineError(w, "remove part line", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddServiceLine attaches a labor service to the order. unit_price, when
// set, overrides the catalog labor price for this line.
func (h *OrderHandler) AddServiceLine(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addServiceLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ServiceID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "service_id is required"})
		return
	}

	line, err := h.engine.AddServiceLine(r.Context(), service.AddServiceLineRequest{
		OrderID:       id,
		ServiceID:     req.ServiceID,
		Quantity:      req.Quantity,
		PriceOverride: req.UnitPrice,
	})
	if err != nil {
		writeEngineError(w, "add service line", err)
		return
	}

	writeJSON(w, http.StatusCreated, serviceLineResponse{
		ID:        line.ID,
		ServiceID: line.ServiceID,
		Quantity:  line.Quantity,
		UnitPrice: money(line.UnitPrice),
		Subtotal:  lineSubtotal(line.UnitPrice, line.Quantity),
	})
}

// RemoveServiceLine detaches the service from the order.
func (h *OrderHandler) RemoveServiceLine(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	serviceID := urlID(r, "serviceID")
	if id == 0 || serviceID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ID"})
		return
	}

	if err := h.engine.RemoveServiceLine(r.Context(), id, serviceID); err != nil {
		writeEngineError(w, "remove service line", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func lineSubtotal(unitPrice pgtype.Numeric, quantity int32) string {
	d, err := decimal.NewFromString(money(unitPrice))
	if err != nil {
		return "0.00"
	}
	return d.Mul(decimal.NewFromInt32(quantity)).StringFixed(2)
}
