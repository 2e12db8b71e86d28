package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oficinapro/api/internal/config"
	"github.com/oficinapro/api/internal/database"
	"github.com/oficinapro/api/internal/enum"
	"github.com/oficinapro/api/internal/handler"
	mw "github.com/oficinapro/api/internal/middleware"
	"github.com/oficinapro/api/internal/service"
	"github.com/oficinapro/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket shop board (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Engines share the pool; each transaction gets its own store.
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})
	settlementService := service.NewSettlementService(pool, func(db database.DBTX) service.SettlementStore {
		return database.New(db)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// User registration is ADMIN only
		r.With(mw.RequireRole(enum.UserRoleAdmin)).Post("/auth/register", authHandler.Register)

		customerHandler := handler.NewCustomerHandler(queries)
		r.Route("/customers", customerHandler.RegisterRoutes)

		vehicleHandler := handler.NewVehicleHandler(queries)
		r.Route("/vehicles", vehicleHandler.RegisterRoutes)

		mechanicHandler := handler.NewMechanicHandler(queries)
		r.Route("/mechanics", mechanicHandler.RegisterRoutes)

		partHandler := handler.NewPartHandler(queries)
		r.Route("/parts", partHandler.RegisterRoutes)

		serviceHandler := handler.NewServiceHandler(queries)
		r.Route("/services", serviceHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(orderService, settlementService, queries, hub)
		r.Route("/orders", orderHandler.RegisterRoutes)

		paymentHandler := handler.NewPaymentHandler(settlementService, queries, hub)
		r.Route("/payments", paymentHandler.RegisterRoutes)

		// Finance summary and expenses are ADMIN only
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin))
			financeHandler := handler.NewFinanceHandler(queries)
			r.Route("/finance", financeHandler.RegisterRoutes)
		})
	})

	return r
}
