package router

import (
	"net/http"

	"smartbin/internal/config"
	"smartbin/internal/handlers"
	"smartbin/internal/middleware"
	"smartbin/internal/models"
	"smartbin/internal/services"
	"smartbin/internal/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(st store.Store, cfg config.Config, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := services.NewUserService(st, logger)
	ledgerService := services.NewLedgerService(st, logger)
	wasteService := services.NewWasteService(ledgerService, logger)
	redeemService := services.NewRedeemService(ledgerService, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, wasteService, redeemService, logger)
	adminHandler := handlers.NewAdminHandler(ledgerService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(50), 100)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestValidation())
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.TokenAuth(authService, logger))
	protected.HandleFunc("/dashboard", ledgerHandler.Dashboard).Methods("GET")
	protected.HandleFunc("/add-waste", ledgerHandler.AddWaste).Methods("POST")
	protected.HandleFunc("/redeem", ledgerHandler.Redeem).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.TokenAuth(authService, logger))
	admin.Use(middleware.RequireRole(string(models.RoleAdmin)))
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
