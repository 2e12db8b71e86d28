package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/oficinapro/api/internal/middleware"
	"github.com/oficinapro/api/internal/service"
	"github.com/oficinapro/api/internal/ws"
)

// PaymentEngine is the settlement surface the payment handlers drive.
// Satisfied by *service.SettlementService.
type PaymentEngine interface {
	RegisterPayment(ctx context.Context, req service.RegisterPaymentRequest) (service.PaymentResult, error)
	DeletePayment(ctx context.Context, paymentID int64, actor string) error
}

// PaymentListStore lists payments directly; listing needs no transaction.
type PaymentListStore interface {
	ListPayments(ctx context.Context) ([]database.Payment, error)
	ListPaymentsByOrder(ctx context.Context, workOrderID int64) ([]database.Payment, error)
}

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	engine PaymentEngine
	store  PaymentListStore
	hub    Broadcaster
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(engine PaymentEngine, store PaymentListStore, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{engine: engine, store: store, hub: hub}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Deletion is additionally gated to ADMIN by the router.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Register)
	r.With(middleware.RequireRole(enum.UserRoleAdmin)).Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type registerPaymentRequest struct {
	OrderID     int64  `json:"order_id"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	Installment int32  `json:"installment"`
	Note        string `json:"note"`
}

type paymentResponse struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	Amount      string  `json:"amount"`
	Method      string  `json:"method"`
	Installment int32   `json:"installment"`
	Note        *string `json:"note"`
	PaidAt      string  `json:"paid_at"`
}

type registerPaymentResponse struct {
	Payment paymentResponse `json:"payment"`
	Order   orderResponse   `json:"order"`
}

func toPaymentResponse(p database.Payment) paymentResponse {
	resp := paymentResponse{
		ID:          p.ID,
		OrderID:     p.WorkOrderID,
		Amount:      money(p.Amount),
		Method:      p.Method,
		Installment: p.Installment,
		PaidAt:      p.PaidAt.Format("2006-01-02"),
	}
	if p.Note.Valid {
		resp.Note = &p.Note.String
	}
	return resp
}

// --- Handlers ---

// List returns all payments, or the payments of one order when the order_id
// query param is present.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		payments []database.Payment
		err      error
	)
	if orderID := queryInt(r, "order_id", 0); orderID > 0 {
		payments, err = h.store.ListPaymentsByOrder(r.Context(), int64(orderID))
	} else {
		payments, err = h.store.ListPayments(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Register applies a payment against an order. The response carries the
// order back because the payment may have finalized it.
func (h *PaymentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrderID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id is required"})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}

	result, err := h.engine.RegisterPayment(r.Context(), service.RegisterPaymentRequest{
		OrderID:     req.OrderID,
		Amount:      req.Amount,
		Method:      req.Method,
		Installment: req.Installment,
		Note:        req.Note,
	})
	if err != nil {
		writeEngineError(w, "register payment", err)
		return
	}

	resp := registerPaymentResponse{
		Payment: toPaymentResponse(result.Payment),
		Order:   toOrderResponse(result.Order),
	}

	h.hub.Broadcast(ws.EventPaymentRegistered, resp.Payment)
	if result.Finalized {
		h.hub.Broadcast(ws.EventOrderFinalized, resp.Order)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Delete removes a payment record. ADMIN only; the order's status is left
// untouched, the removal is an audit correction.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	actor := "unknown"
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		actor = claims.Username
	}

	if err := h.engine.DeletePayment(r.Context(), id, actor); err != nil {
		writeEngineError(w, "delete payment", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
