package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/oficinapro/api/internal/database"
)

// ServiceStore defines the database methods needed by service catalog handlers.
type ServiceStore interface {
	CreateService(ctx context.Context, arg database.CreateServiceParams) (database.Service, error)
	GetService(ctx context.Context, id int64) (database.Service, error)
	ListServices(ctx context.Context) ([]database.Service, error)
	UpdateService(ctx context.Context, arg database.UpdateServiceParams) (database.Service, error)
	DeleteService(ctx context.Context, id int64) (int64, error)
	CountServiceLinesByService(ctx context.Context, serviceID int64) (int64, error)
}

// ServiceHandler handles the labor services catalog endpoints.
type ServiceHandler struct {
	store ServiceStore
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(store ServiceStore) *ServiceHandler {
	return &ServiceHandler{store: store}
}

// RegisterRoutes registers service catalog endpoints on the given Chi router.
func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type serviceRequest struct {
	Description      string `json:"description"`
	LaborPrice       string `json:"labor_price"`
	EstimatedMinutes int32  `json:"estimated_minutes"`
}

type serviceResponse struct {
	ID               int64  `json:"id"`
	Description      string `json:"description"`
	LaborPrice       string `json:"labor_price"`
	EstimatedMinutes int32  `json:"estimated_minutes"`
}

func toServiceResponse(s database.Service) serviceResponse {
	return serviceResponse{
		ID:               s.ID,
		Description:      s.Description,
		LaborPrice:       money(s.LaborPrice),
		EstimatedMinutes: s.EstimatedMinutes,
	}
}

func (h *ServiceHandler) parseRequest(w http.ResponseWriter, r *http.Request) (database.CreateServiceParams, bool) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return database.CreateServiceParams{}, false
	}

	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return database.CreateServiceParams{}, false
	}

	if req.LaborPrice == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "labor_price is required"})
		return database.CreateServiceParams{}, false
	}

	price, err := parsePrice(req.LaborPrice)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "labor_price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid labor_price"})
		}
		return database.CreateServiceParams{}, false
	}

	if req.EstimatedMinutes < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "estimated_minutes must be >= 0"})
		return database.CreateServiceParams{}, false
	}

	return database.CreateServiceParams{
		Description:      req.Description,
		LaborPrice:       price,
		EstimatedMinutes: req.EstimatedMinutes,
	}, true
}

// --- Handlers ---

// List returns the full services catalog.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.store.ListServices(r.Context())
	if err != nil {
		log.Printf("ERROR: list services: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]serviceResponse, len(services))
	for i, s := range services {
		resp[i] = toServiceResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single service by ID.
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	service, err := h.store.GetService(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: get service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(service))
}

// Create adds a service to the catalog.
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	service, err := h.store.CreateService(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(service))
}

// Update modifies a catalog service. Lines already attached to orders keep
// their frozen prices.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	params, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	service, err := h.store.UpdateService(r.Context(), database.UpdateServiceParams{
		ID:               id,
		Description:      params.Description,
		LaborPrice:       params.LaborPrice,
		EstimatedMinutes: params.EstimatedMinutes,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: update service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(service))
}

// Delete removes a service from the catalog. Refused while order lines still
// reference it.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	count, err := h.store.CountServiceLinesByService(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: count service lines: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if count > 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "service is referenced by order lines"})
		return
	}

	if _, err := h.store.DeleteService(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "service is referenced by order lines"})
			return
		}
		log.Printf("ERROR: delete service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
