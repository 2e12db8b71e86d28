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

// VehicleStore defines the database methods needed by vehicle handlers.
type VehicleStore interface {
	CreateVehicle(ctx context.Context, arg database.CreateVehicleParams) (database.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (database.Vehicle, error)
	ListVehicles(ctx context.Context, arg database.ListVehiclesParams) ([]database.Vehicle, error)
	GetCustomer(ctx context.Context, id int64) (database.Customer, error)
}

// VehicleHandler handles vehicle endpoints.
type VehicleHandler struct {
	store VehicleStore
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(store VehicleStore) *VehicleHandler {
	return &VehicleHandler{store: store}
}

// RegisterRoutes registers vehicle endpoints on the given Chi router.
func (h *VehicleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
}

// --- Request / Response types ---

type createVehicleRequest struct {
	Plate      string `json:"plate"`
	Model      string `json:"model"`
	Brand      string `json:"brand"`
	Year       int32  `json:"year"`
	Color      string `json:"color"`
	CustomerID int64  `json:"customer_id"`
}

type vehicleResponse struct {
	ID         int64  `json:"id"`
	Plate      string `json:"plate"`
	Model      string `json:"model"`
	Brand      string `json:"brand"`
	Year       int32  `json:"year"`
	Color      string `json:"color"`
	CustomerID int64  `json:"customer_id"`
}

func toVehicleResponse(v database.Vehicle) vehicleResponse {
	return vehicleResponse{
		ID:         v.ID,
		Plate:      v.Plate,
		Model:      v.Model,
		Brand:      v.Brand,
		Year:       v.Year,
		Color:      v.Color,
		CustomerID: v.CustomerID,
	}
}

// --- Handlers ---

// List returns vehicles, paginated via limit/offset query params.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.store.ListVehicles(r.Context(), database.ListVehiclesParams{
		Limit:  queryInt(r, "limit", 100),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		log.Printf("ERROR: list vehicles: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = toVehicleResponse(v)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single vehicle by ID.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vehicle ID"})
		return
	}

	vehicle, err := h.store.GetVehicle(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "vehicle not found"})
			return
		}
		log.Printf("ERROR: get vehicle: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

// Create registers a vehicle under an existing customer.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Plate == "" || req.Model == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "plate and model are required"})
		return
	}

	if req.CustomerID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
		return
	}

	if _, err := h.store.GetCustomer(r.Context(), req.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	vehicle, err := h.store.CreateVehicle(r.Context(), database.CreateVehicleParams{
		Plate:      req.Plate,
		Model:      req.Model,
		Brand:      req.Brand,
		Year:       req.Year,
		Color:      req.Color,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "plate already registered"})
			return
		}
		log.Printf("ERROR: create vehicle: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}
