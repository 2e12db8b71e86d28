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

// MechanicStore defines the database methods needed by mechanic handlers.
type MechanicStore interface {
	CreateMechanic(ctx context.Context, arg database.CreateMechanicParams) (database.Mechanic, error)
	GetMechanic(ctx context.Context, id int64) (database.Mechanic, error)
	ListMechanics(ctx context.Context) ([]database.Mechanic, error)
}

// MechanicHandler handles mechanic endpoints.
type MechanicHandler struct {
	store MechanicStore
}

// NewMechanicHandler creates a new MechanicHandler.
func NewMechanicHandler(store MechanicStore) *MechanicHandler {
	return &MechanicHandler{store: store}
}

// RegisterRoutes registers mechanic endpoints on the given Chi router.
func (h *MechanicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
}

type createMechanicRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

type mechanicResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

func toMechanicResponse(m database.Mechanic) mechanicResponse {
	return mechanicResponse{ID: m.ID, Name: m.Name, Specialty: m.Specialty}
}

// List returns all mechanics.
func (h *MechanicHandler) List(w http.ResponseWriter, r *http.Request) {
	mechanics, err := h.store.ListMechanics(r.Context())
	if err != nil {
		log.Printf("ERROR: list mechanics: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]mechanicResponse, len(mechanics))
	for i, m := range mechanics {
		resp[i] = toMechanicResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single mechanic by ID.
func (h *MechanicHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid mechanic ID"})
		return
	}

	mechanic, err := h.store.GetMechanic(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "mechanic not found"})
			return
		}
		log.Printf("ERROR: get mechanic: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toMechanicResponse(mechanic))
}

// Create adds a new mechanic.
func (h *MechanicHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	mechanic, err := h.store.CreateMechanic(r.Context(), database.CreateMechanicParams{
		Name:      req.Name,
		Specialty: req.Specialty,
	})
	if err != nil {
		log.Printf("ERROR: create mechanic: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toMechanicResponse(mechanic))
}
