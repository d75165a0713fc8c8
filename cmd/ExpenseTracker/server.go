package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Message string `json:"message"`
}

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router     *mux.Router
	logger     *logrus.Logger
	health     healthChecker
	corsOrigin string

	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.TransactionHandler
	dashboardHandler   *interfaces.DashboardHandler
}

func NewServer(
	log *logrus.Logger,
	health healthChecker,
	corsOrigin string,
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
	dashboardHandler *interfaces.DashboardHandler,
) *Server {
	return &Server{
		router:             mux.NewRouter(),
		logger:             log,
		health:             health,
		corsOrigin:         corsOrigin,
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
		dashboardHandler:   dashboardHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())

	status := http.StatusOK
	body := map[string]string{"status": "ready", "database": stats["status"]}
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
		logger.Component(s.logger, "server").WithField("error", stats["error"]).Warn("Readiness check failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) RegisterRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", s.userHandler.HandleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.authHandler.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	// Protected routes (using JWT Access Token Middleware)
	protected := api.NewRoute().Subrouter()
	protected.Use(mux.MiddlewareFunc(s.authService.JWTAccessTokenMiddleware()))

	protected.HandleFunc("/categories", s.categoryHandler.GetCategories).Methods(http.MethodGet)
	protected.HandleFunc("/categories", s.categoryHandler.CreateCategory).Methods(http.MethodPost)
	protected.HandleFunc("/categories/{id}", s.categoryHandler.DeleteCategory).Methods(http.MethodDelete)

	protected.HandleFunc("/transactions", s.transactionHandler.GetTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", s.transactionHandler.CreateTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id}", s.transactionHandler.UpdateTransaction).Methods(http.MethodPut)
	protected.HandleFunc("/transactions/{id}", s.transactionHandler.DeleteTransaction).Methods(http.MethodDelete)

	protected.HandleFunc("/dashboard/balance", s.dashboardHandler.GetBalance).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/expenses-by-category", s.dashboardHandler.GetExpensesByCategory).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/expenses-by-category/chart", s.dashboardHandler.GetExpensesChart).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
}

// Handler is the router wrapped in CORS and request logging. Both run for
// unmatched paths and preflight requests too.
func (s *Server) Handler() http.Handler {
	return logger.Middleware(s.logger)(s.corsMiddleware(s.router))
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+logger.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", logger.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
