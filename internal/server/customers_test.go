package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"acai-pedidos/internal/errs"
	"acai-pedidos/internal/model"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
)

func TestCreateCustomerHandler(t *testing.T) {
	router, mock := setup(t)

	customer := model.Customer{
		ID:          1,
		Name:        "Ana",
		CreditLimit: decimal.NewFromInt(200),
		CreatedAt:   time.Now(),
	}
	mock.EXPECT().
		CreateCustomer(gomock.Any(), gomock.Any()).
		Return(customer, nil)

	payload := `{"nome":"Ana","limite_credito":200}`
	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/novo", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"saldo_atual":0`) {
		t.Errorf("new customer should start with zero balance: %s", w.Body.String())
	}
}

func TestCreateCustomerHandlerMissingName(t *testing.T) {
	router, _ := setup(t)

	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/novo", `{"telefone":"11999990000"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreateCustomerHandlerDuplicatePhone(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		CreateCustomer(gomock.Any(), gomock.Any()).
		Return(model.Customer{}, errs.ErrPhoneAlreadyExists)

	payload := `{"nome":"Ana","telefone":"11999990000"}`
	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/novo", payload)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestGetCustomerHandlerNotFound(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetCustomer(gomock.Any(), int64(99)).
		Return(model.Customer{}, errs.ErrCustomerNotFound)

	w := doRequest(t, router, http.MethodGet, "/api/clientes-fieis/99", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateCustomerHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		UpdateCustomer(gomock.Any(), int64(1), gomock.Any()).
		Return(nil)

	payload := `{"nome":"Ana Maria","limite_credito":300}`
	w := doRequest(t, router, http.MethodPut, "/api/clientes-fieis/1", payload)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestDeleteCustomerHandlerGuarded(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		DeleteCustomer(gomock.Any(), int64(1)).
		Return(errs.ErrCustomerHasBalance)

	w := doRequest(t, router, http.MethodDelete, "/api/clientes-fieis/1", "")

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "saldo pendente") {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}
}

func TestDeleteCustomerHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		DeleteCustomer(gomock.Any(), int64(1)).
		Return(nil)

	w := doRequest(t, router, http.MethodDelete, "/api/clientes-fieis/1", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRecordPaymentHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetCustomer(gomock.Any(), int64(1)).
		Return(model.Customer{ID: 1, Name: "Ana", Balance: decimal.NewFromInt(50)}, nil)

	mock.EXPECT().
		RecordPayment(gomock.Any(), int64(1), gomock.Any()).
		Return(model.Payment{
			ID:         3,
			CustomerID: 1,
			Amount:     decimal.NewFromInt(20),
			Method:     model.PaymentCash,
			PaidAt:     time.Now(),
		}, nil)

	payload := `{"valor":20}`
	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/1/pagar", payload)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"saldo_anterior":50`) {
		t.Errorf("missing previous balance: %s", body)
	}
	if !strings.Contains(body, `"saldo_atual":30`) {
		t.Errorf("missing new balance: %s", body)
	}
}

func TestRecordPaymentHandlerExceedsBalance(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetCustomer(gomock.Any(), int64(1)).
		Return(model.Customer{ID: 1, Name: "Ana", Balance: decimal.NewFromInt(10)}, nil)

	// RecordPayment must not be called: the cap is checked before any write
	payload := `{"valor":20}`
	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/1/pagar", payload)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRecordPaymentHandlerInvalidAmount(t *testing.T) {
	router, _ := setup(t)

	w := doRequest(t, router, http.MethodPost, "/api/clientes-fieis/1/pagar", `{"valor":0}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestPaymentHistoryHandler(t *testing.T) {
	router, mock := setup(t)

	now := time.Now()
	mock.EXPECT().
		GetCustomerPayments(gomock.Any(), int64(1)).
		Return([]model.Payment{
			{ID: 2, CustomerID: 1, Amount: decimal.NewFromInt(20), PaidAt: now},
			{ID: 1, CustomerID: 1, Amount: decimal.NewFromInt(10), PaidAt: now.Add(-time.Hour)},
		}, nil)

	w := doRequest(t, router, http.MethodGet, "/api/clientes-fieis/1/pagamentos", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestPendingBalancesHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetCustomersWithBalance(gomock.Any()).
		Return([]model.Customer{
			{ID: 2, Name: "Bruno", Balance: decimal.NewFromInt(80)},
			{ID: 1, Name: "Ana", Balance: decimal.NewFromInt(20)},
		}, nil)

	w := doRequest(t, router, http.MethodGet, "/api/clientes-fieis/saldo/pendente", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Index(body, "Bruno") > strings.Index(body, "Ana") {
		t.Errorf("expected descending balance order: %s", body)
	}
}

func TestListCustomersHandler(t *testing.T) {
	router, mock := setup(t)

	mock.EXPECT().
		GetCustomers(gomock.Any()).
		Return(nil, nil)

	w := doRequest(t, router, http.MethodGet, "/api/clientes-fieis", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty list should encode as []: %s", w.Body.String())
	}
}
