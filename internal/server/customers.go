package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"acai-pedidos/internal/errs"
	"acai-pedidos/internal/model"
)

func (srv *Server) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := srv.storage.CreateCustomer(r.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrPhoneAlreadyExists) {
			writeError(w, r, http.StatusConflict, "telefone já cadastrado para outro cliente")
			return
		}
		srv.config.Logger.Errorf("create customer: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao criar cliente")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": "Cliente fiel cadastrado com sucesso!",
		"cliente":  customer,
	})
}

func (srv *Server) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	var req model.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := srv.storage.UpdateCustomer(r.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, errs.ErrCustomerNotFound):
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
		case errors.Is(err, errs.ErrPhoneAlreadyExists):
			writeError(w, r, http.StatusConflict, "telefone já cadastrado para outro cliente")
		default:
			srv.config.Logger.Errorf("update customer: %v", err)
			writeError(w, r, http.StatusInternalServerError, "erro interno ao atualizar cliente")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": "Cliente fiel atualizado com sucesso!",
	})
}

func (srv *Server) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := srv.storage.GetCustomers(r.Context())
	if err != nil {
		srv.config.Logger.Errorf("list customers: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar clientes")
		return
	}

	if customers == nil {
		customers = []model.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (srv *Server) GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	customer, err := srv.storage.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrCustomerNotFound) {
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
			return
		}
		srv.config.Logger.Errorf("get customer: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar cliente")
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (srv *Server) PendingBalancesHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := srv.storage.GetCustomersWithBalance(r.Context())
	if err != nil {
		srv.config.Logger.Errorf("pending balances: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar clientes")
		return
	}

	if customers == nil {
		customers = []model.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (srv *Server) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	if err := srv.storage.DeleteCustomer(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, errs.ErrCustomerNotFound):
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
		case errors.Is(err, errs.ErrCustomerHasBalance):
			writeError(w, r, http.StatusConflict, "não é possível deletar cliente com saldo pendente")
		default:
			srv.config.Logger.Errorf("delete customer: %v", err)
			writeError(w, r, http.StatusInternalServerError, "erro interno ao deletar cliente")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"mensagem": "Cliente fiel deletado com sucesso",
	})
}

func (srv *Server) RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// pre-check against the current balance so the caller gets the amounts
	// back; the storage transaction re-checks under lock
	customer, err := srv.storage.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrCustomerNotFound) {
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
			return
		}
		srv.config.Logger.Errorf("get customer for payment: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao verificar cliente")
		return
	}

	if req.Amount.GreaterThan(customer.Balance) {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("valor do pagamento (R$ %s) excede o saldo devido (R$ %s)", req.Amount, customer.Balance))
		return
	}

	payment, err := srv.storage.RecordPayment(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrCustomerNotFound):
			writeError(w, r, http.StatusNotFound, "cliente fiel não encontrado")
		case errors.Is(err, errs.ErrPaymentExceedsBalance):
			writeError(w, r, http.StatusBadRequest, "valor do pagamento excede o saldo devido")
		default:
			srv.config.Logger.Errorf("record payment: %v", err)
			writeError(w, r, http.StatusInternalServerError, "erro interno ao registrar pagamento")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"mensagem":       fmt.Sprintf("Pagamento de R$ %s registrado com sucesso!", payment.Amount),
		"pagamento":      payment,
		"saldo_anterior": customer.Balance,
		"saldo_atual":    customer.Balance.Sub(payment.Amount),
	})
}

func (srv *Server) PaymentHistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "id inválido")
		return
	}

	payments, err := srv.storage.GetCustomerPayments(r.Context(), id)
	if err != nil {
		srv.config.Logger.Errorf("payment history: %v", err)
		writeError(w, r, http.StatusInternalServerError, "erro interno ao buscar pagamentos")
		return
	}

	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
