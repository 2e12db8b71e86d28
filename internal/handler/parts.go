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

// PartStore defines the database methods needed by part handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type PartStore interface {
	CreatePart(ctx context.Context, arg database.CreatePartParams) (database.Part, error)
	GetPart(ctx context.Context, id int64) (database.Part, error)
	ListParts(ctx context.Context) ([]database.Part, error)
	UpdatePart(ctx context.Context, arg database.UpdatePartParams) (database.Part, error)
	DeletePart(ctx context.Context, id int64) (int64, error)
	CountPartLinesByPart(ctx context.Context, partID int64) (int64, error)
}

// PartHandler handles the parts catalog endpoints.
type PartHandler struct {
	store PartStore
}

// NewPartHandler creates a new PartHandler.
func NewPartHandler(store PartStore) *PartHandler {
	return &PartHandler{store: store}
}

// RegisterRoutes registers part endpoints on the given Chi router.
func (h *PartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type partRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	SalePrice string `json:"sale_price"`
	Stock     int32  `json:"stock"`
}

type partResponse struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	SalePrice string `json:"sale_price"`
	Stock     int32  `json:"stock"`
}

func toPartResponse(p database.Part) partResponse {
	return partResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		SalePrice: money(p.SalePrice),
		Stock:     p.Stock,
	}
}

func (h *PartHandler) parseRequest(w http.ResponseWriter, r *http.Request) (partRequest, database.CreatePartParams, bool) {
	var req partRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, database.CreatePartParams{}, false
	}

	if req.Code == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and name are required"})
		return req, database.CreatePartParams{}, false
	}

	if req.SalePrice == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sale_price is required"})
		return req, database.CreatePartParams{}, false
	}

	price, err := parsePrice(req.SalePrice)
	if err != nil {
		if errors.Is(err, errNegativePrice) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sale_price must be >= 0"})
		} else {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_price"})
		}
		return req, database.CreatePartParams{}, false
	}

	if req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stock must be >= 0"})
		return req, database.CreatePartParams{}, false
	}

	return req, database.CreatePartParams{
		Code:      req.Code,
		Name:      req.Name,
		SalePrice: price,
		Stock:     req.Stock,
	}, true
}

// --- Handlers ---

// List returns the full parts catalog.
func (h *PartHandler) List(w http.ResponseWriter, r *http.Request) {
	parts, err := h.store.ListParts(r.Context())
	if err != nil {
		log.Printf("ERROR: list parts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]partResponse, len(parts))
	for i, p := range parts {
		resp[i] = toPartResponse(p)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single part by ID.
func (h *PartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid part ID"})
		return
	}

	part, err := h.store.GetPart(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "part not found"})
			return
		}
		log.Printf("ERROR: get part: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPartResponse(part))
}

// Create adds a part to the catalog. Part codes are unique.
func (h *PartHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, params, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	part, err := h.store.CreatePart(r.Context(), params)
	if err != nil {
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "part code already exists"})
			return
		}
		log.Printf("ERROR: create part: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toPartResponse(part))
}

// Update modifies a catalog part. Changing sale_price does not touch lines
// already attached to orders; their prices were frozen at addition time.
func (h *PartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid part ID"})
		return
	}

	_, params, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	part, err := h.store.UpdatePart(r.Context(), database.UpdatePartParams{
		ID:        id,
		Code:      params.Code,
		Name:      params.Name,
		SalePrice: params.SalePrice,
		Stock:     params.Stock,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "part not found"})
			return
		}
		if isUniqueViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "part code already exists"})
			return
		}
		log.Printf("ERROR: update part: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toPartResponse(part))
}

// Delete removes a part from the catalog. Refused while order lines still
// reference it; the historical lines keep their snapshots either way.
func (h *PartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlID(r, "id")
	if id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid part ID"})
		return
	}

	count, err := h.store.CountPartLinesByPart(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: count part lines: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if count > 0 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "part is referenced by order lines"})
		return
	}

	if _, err := h.store.DeletePart(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "part not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "part is referenced by order lines"})
			return
		}
		log.Printf("ERROR: delete part: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
