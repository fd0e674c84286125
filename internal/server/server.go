package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"acai-pedidos/internal/config"
	"acai-pedidos/internal/middleware"
	"acai-pedidos/internal/model"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

type Storage interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (model.Order, error)
	GetOrders(ctx context.Context) ([]model.Order, error)
	GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	GetOrdersByPeriod(ctx context.Context, from, to time.Time) ([]model.Order, error)
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
	DailyReport(ctx context.Context, day time.Time) ([]model.ReportRow, error)
	ImportOrders(ctx context.Context, orders []model.ImportOrder) (model.ImportResult, error)

	CreateCustomer(ctx context.Context, req model.CustomerRequest) (model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req model.CustomerRequest) error
	GetCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (model.Customer, error)
	GetCustomersWithBalance(ctx context.Context) ([]model.Customer, error)
	RecordPayment(ctx context.Context, customerID int64, req model.PaymentRequest) (model.Payment, error)
	GetCustomerPayments(ctx context.Context, customerID int64) ([]model.Payment, error)
	DeleteCustomer(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
}

type Server struct {
	storage Storage
	config  *config.Config
}

func NewServer(storage Storage, config *config.Config) *Server {
	return &Server{
		storage: storage,
		config:  config,
	}
}

func (srv *Server) buildRouter() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LogMiddleware(srv.config.Logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware(srv.config.Logger))

	router.Route("/api/pedidos", func(r chi.Router) {
		r.Get("/", srv.ListOrdersHandler)
		r.Post("/novo", srv.CreateOrderHandler)
		r.Get("/status/{status}", srv.ListOrdersByStatusHandler)
		r.Get("/relatorio/diario", srv.DailyReportHandler)
		r.Get("/periodo/{inicio}/{fim}", srv.OrdersByPeriodHandler)
		r.Post("/importar/lote", srv.ImportOrdersHandler)
		r.Get("/teste/conexao", srv.HealthHandler)
		r.Get("/{id}", srv.GetOrderHandler)
		r.Put("/{id}/status", srv.UpdateOrderStatusHandler)
		r.Delete("/{id}", srv.DeleteOrderHandler)
	})

	router.Route("/api/clientes-fieis", func(r chi.Router) {
		r.Get("/", srv.ListCustomersHandler)
		r.Post("/novo", srv.CreateCustomerHandler)
		r.Get("/saldo/pendente", srv.PendingBalancesHandler)
		r.Get("/{id}", srv.GetCustomerHandler)
		r.Put("/{id}", srv.UpdateCustomerHandler)
		r.Delete("/{id}", srv.DeleteCustomerHandler)
		r.Post("/{id}/pagar", srv.RecordPaymentHandler)
		r.Get("/{id}/pagamentos", srv.PaymentHistoryHandler)
	})

	return router
}

func (srv *Server) Run(ctx context.Context) error {
	router := srv.buildRouter()

	server := &http.Server{
		Addr:    srv.config.RunAddress,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srv.config.Logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type errorResponse struct {
	Error     string `json:"erro"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     message,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func urlParamID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (srv *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := srv.storage.Ping(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "banco de dados indisponível")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"mensagem":  "API de pedidos funcionando corretamente",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
