package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"acai-pedidos/internal/errs"
	"acai-pedidos/internal/model"
	"acai-pedidos/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxImportBatch = 100

func (srv *Server) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, err := srv.storage.CreateOrder(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrCustomerNotFound) {
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
			return
		}
		srv.config.Logger.Errorf("create order: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao criar pedido")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": "Pedido criado com sucesso!",
		"pedido":   order,
	})
}

func (srv *Server) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := srv.storage.GetOrders(r.Context())
	if err != nil {
		srv.config.Logger.Errorf("list orders: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar pedidos")
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (srv *Server) ListOrdersByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := model.OrderStatus(chi.URLParam(r, "status"))
	if !status.Valid() {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("status inválido, use um de %v", model.ValidStatuses()))
		return
	}

	orders, err := srv.storage.GetOrdersByStatus(r.Context(), status)
	if err != nil {
		srv.config.Logger.Errorf("list orders by status: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar pedidos")
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (srv *Server) GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	order, err := srv.storage.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, r, http.StatusNotFound, "pedido não encontrado")
			return
		}
		srv.config.Logger.Errorf("get order: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar pedido")
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (srv *Server) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if !req.Status.Valid() {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("status inválido, use um de %v", model.ValidStatuses()))
		return
	}

	if err := srv.storage.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, r, http.StatusNotFound, "pedido não encontrado")
			return
		}
		srv.config.Logger.Errorf("update order status: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao atualizar status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": fmt.Sprintf("Status atualizado para: %s", req.Status),
	})
}

func (srv *Server) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	if err := srv.storage.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, errs.ErrOrderNotFound) {
			writeError(w, r, http.StatusNotFound, "pedido não encontrado")
			return
		}
		srv.config.Logger.Errorf("delete order: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao deletar pedido")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": "Pedido deletado com sucesso",
	})
}

func (srv *Server) DailyReportHandler(w http.ResponseWriter, r *http.Request) {
	dayParam := r.URL.Query().Get("data")
	day := time.Now()
	if dayParam != "" {
		parsed, err := utils.ParseDay(dayParam)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "data inválida, use o formato YYYY-MM-DD")
			return
		}
		day = parsed
	}

	report, err := srv.storage.DailyReport(r.Context(), day)
	if err != nil {
		srv.config.Logger.Errorf("daily report: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao gerar relatório")
		return
	}

	if report == nil {
		report = []model.ReportRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"data":      utils.FormatDay(day),
		"relatorio": report,
	})
}

func (srv *Server) OrdersByPeriodHandler(w http.ResponseWriter, r *http.Request) {
	from, err := utils.ParseDay(chi.URLParam(r, "inicio"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "data de início inválida, use o formato YYYY-MM-DD")
		return
	}
	to, err := utils.ParseDay(chi.URLParam(r, "fim"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "data de fim inválida, use o formato YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		writeError(w, r, http.StatusBadRequest, "data de fim anterior à data de início")
		return
	}

	orders, err := srv.storage.GetOrdersByPeriod(r.Context(), from, to)
	if err != nil {
		srv.config.Logger.Errorf("orders by period: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar pedidos")
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"periodo":     map[string]string{"inicio": utils.FormatDay(from), "fim": utils.FormatDay(to)},
		"total":       len(orders),
		"valor_total": total,
		"pedidos":     orders,
	})
}

func (srv *Server) ImportOrdersHandler(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if len(req.Orders) == 0 {
		writeError(w, r, http.StatusBadRequest, "é necessário enviar um array de pedidos para importação")
		return
	}
	if len(req.Orders) > maxImportBatch {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("limite de %d pedidos por importação", maxImportBatch))
		return
	}

	result, err := srv.storage.ImportOrders(r.Context(), req.Orders)
	if err != nil {
		srv.config.Logger.Errorf("import orders: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno na importação")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"mensagem":  fmt.Sprintf("Importação concluída com %d pedidos importados e %d erros", result.Imported, result.Failed),
		"resultado": result,
	})
}
