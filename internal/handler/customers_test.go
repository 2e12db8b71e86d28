package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/handler"
)

// --- Mock store ---

type mockCustomerStore struct {
	customers map[int64]database.Customer
	vehicles  map[int64][]database.Vehicle // keyed by customer ID
	nextID    int64
}

func newMockCustomerStore() *mockCustomerStore {
	return &mockCustomerStore{
		customers: make(map[int64]database.Customer),
		vehicles:  make(map[int64][]database.Vehicle),
		nextID:    1,
	}
}

func (m *mockCustomerStore) CreateCustomer(_ context.Context, arg database.CreateCustomerParams) (database.Customer, error) {
	c := database.Customer{
		ID:      m.nextID,
		Name:    arg.Name,
		Phone:   arg.Phone,
		Email:   arg.Email,
		TaxID:   arg.TaxID,
		Address: arg.Address,
	}
	m.nextID++
	m.customers[c.ID] = c
	return c, nil
}

func (m *mockCustomerStore) GetCustomer(_ context.Context, id int64) (database.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return database.Customer{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCustomerStore) ListCustomers(_ context.Context, _ database.ListCustomersParams) ([]database.Customer, error) {
	out := make([]database.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCustomerStore) UpdateCustomer(_ context.Context, arg database.UpdateCustomerParams) (database.Customer, error) {
	c, ok := m.customers[arg.ID]
	if !ok {
		return database.Customer{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	c.Phone = arg.Phone
	c.Email = arg.Email
	c.TaxID = arg.TaxID
	c.Address = arg.Address
	m.customers[arg.ID] = c
	return c, nil
}

func (m *mockCustomerStore) DeleteCustomer(_ context.Context, id int64) (int64, error) {
	if _, ok := m.customers[id]; !ok {
		return 0, nil
	}
	delete(m.customers, id)
	return 1, nil
}

func (m *mockCustomerStore) CountVehiclesByCustomer(_ context.Context, customerID int64) (int64, error) {
	return int64(len(m.vehicles[customerID])), nil
}

func (m *mockCustomerStore) ListVehiclesByCustomer(_ context.Context, customerID int64) ([]database.Vehicle, error) {
	return m.vehicles[customerID], nil
}

func setupCustomerRouter(store *mockCustomerStore) *chi.Mux {
	h := handler.NewCustomerHandler(store)
	r := chi.NewRouter()
	r.Route("/customers", h.RegisterRoutes)
	return r
}

// --- Tests ---

func TestCreateCustomer(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doRequest(t, router, http.MethodPost, "/customers", map[string]interface{}{
		"name":  "Carlos Silva",
		"phone": "11987654321",
		"email": "carlos@example.com",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["name"] != "Carlos Silva" {
		t.Errorf("name = %v, want Carlos Silva", resp["name"])
	}
	if resp["email"] != "carlos@example.com" {
		t.Errorf("email = %v, want carlos@example.com", resp["email"])
	}
}

func TestCreateCustomer_MissingName(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doRequest(t, router, http.MethodPost, "/customers", map[string]interface{}{
		"phone": "11987654321",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestCreateCustomer_NoEmailIsNull(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doRequest(t, router, http.MethodPost, "/customers", map[string]interface{}{
		"name": "Ana",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["email"] != nil {
		t.Errorf("email = %v, want null", resp["email"])
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	router := setupCustomerRouter(newMockCustomerStore())

	rr := doRequest(t, router, http.MethodGet, "/customers/99", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestUpdateCustomer(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[1] = database.Customer{ID: 1, Name: "Old Name"}
	store.nextID = 2
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, http.MethodPut, "/customers/1", map[string]interface{}{
		"name":  "New Name",
		"phone": "11912341234",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["name"] != "New Name" {
		t.Errorf("name = %v, want New Name", resp["name"])
	}
}

func TestDeleteCustomer_WithVehiclesConflicts(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[1] = database.Customer{ID: 1, Name: "Carlos"}
	store.vehicles[1] = []database.Vehicle{{ID: 1, Plate: "ABC1D23", CustomerID: 1}}
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, http.MethodDelete, "/customers/1", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
	if _, ok := store.customers[1]; !ok {
		t.Error("customer was deleted despite registered vehicles")
	}
}

func TestDeleteCustomer(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[1] = database.Customer{ID: 1, Name: "Carlos"}
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, http.MethodDelete, "/customers/1", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rr.Code)
	}
	if _, ok := store.customers[1]; ok {
		t.Error("customer not deleted")
	}
}

func TestListCustomerVehicles(t *testing.T) {
	store := newMockCustomerStore()
	store.customers[1] = database.Customer{ID: 1, Name: "Carlos", Email: pgtype.Text{String: "c@x.com", Valid: true}}
	store.vehicles[1] = []database.Vehicle{
		{ID: 1, Plate: "ABC1D23", Model: "Fiat Uno", CustomerID: 1},
		{ID: 2, Plate: "XYZ9K88", Model: "VW Gol", CustomerID: 1},
	}
	router := setupCustomerRouter(store)

	rr := doRequest(t, router, http.MethodGet, "/customers/1/vehicles", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2", len(resp))
	}
	if resp[0]["plate"] != "ABC1D23" {
		t.Errorf("plate = %v, want ABC1D23", resp[0]["plate"])
	}
}
