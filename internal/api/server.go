package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hisaab-app/backend/internal/auth"
	"github.com/hisaab-app/backend/internal/middleware"
	"github.com/hisaab-app/backend/internal/service"
	"github.com/hisaab-app/backend/internal/storage"
)

// Server wires the application services to HTTP routes.
type Server struct {
	authSvc       *service.AuthService
	groupSvc      *service.GroupService
	expenseSvc    *service.ExpenseService
	balanceSvc    *service.BalanceService
	settlementSvc *service.SettlementService
	store         storage.Store
	jwtManager    *auth.JWTManager
}

// NewServer creates a Server from its collaborators.
func NewServer(
	authSvc *service.AuthService,
	groupSvc *service.GroupService,
	expenseSvc *service.ExpenseService,
	balanceSvc *service.BalanceService,
	settlementSvc *service.SettlementService,
	store storage.Store,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		authSvc:       authSvc,
		groupSvc:      groupSvc,
		expenseSvc:    expenseSvc,
		balanceSvc:    balanceSvc,
		settlementSvc: settlementSvc,
		store:         store,
		jwtManager:    jwtManager,
	}
}

// Router builds the full route table with the middleware stack applied.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuth(s.jwtManager))

	protected.HandleFunc("/groups", s.handleCreateGroup).Methods(http.MethodPost)
	protected.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{id}", s.handleGetGroup).Methods(http.MethodGet)
	protected.HandleFunc("/groups/{id}/members", s.handleAddGroupMembers).Methods(http.MethodPost)

	protected.HandleFunc("/groups/{id}/expenses", s.handleCreateExpense).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{id}/expenses", s.handleListExpenses).Methods(http.MethodGet)

	protected.HandleFunc("/groups/{id}/balances", s.handleGroupBalances).Methods(http.MethodGet)
	protected.HandleFunc("/balances", s.handleGlobalBalances).Methods(http.MethodGet)

	protected.HandleFunc("/groups/{id}/settlements", s.handleCreateSettlement).Methods(http.MethodPost)
	protected.HandleFunc("/groups/{id}/settlements", s.handleListSettlements).Methods(http.MethodGet)
	protected.HandleFunc("/settlements", s.handleCreateGlobalSettlement).Methods(http.MethodPost)
	protected.HandleFunc("/settlements/{id}/pay", s.handleMarkPaid).Methods(http.MethodPost)
	protected.HandleFunc("/settlements/{id}/confirm", s.handleConfirm).Methods(http.MethodPost)
	protected.HandleFunc("/settlements/{id}/cancel", s.handleCancel).Methods(http.MethodPost)
	protected.HandleFunc("/settlements/{id}/upi", s.handleUPILink).Methods(http.MethodGet)

	return middleware.Logging(r)
}
