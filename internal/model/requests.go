package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	CustomerName    string          `json:"cliente_nome"`
	CustomerPhone   string          `json:"cliente_telefone"`
	CustomerID      *int64          `json:"cliente_fiel_id"`
	Items           []Item          `json:"itens"`
	Total           decimal.Decimal `json:"valor_total"`
	PaymentMethod   PaymentMethod   `json:"forma_pagamento"`
	Notes           string          `json:"observacoes"`
	DeliveryAddress string          `json:"endereco_entrega"`
}

var (
	ErrMissingFields         = errors.New("cliente_nome, itens e valor_total são obrigatórios")
	ErrInvalidPaymentMethod  = errors.New("forma de pagamento inválida")
	ErrDeferredNeedsCustomer = errors.New("para pedidos a prazo é necessário informar um cliente fiel")
	ErrMissingCustomerName   = errors.New("nome do cliente é obrigatório")
	ErrInvalidPaymentAmount  = errors.New("valor do pagamento é obrigatório e deve ser maior que zero")
)

// Validate checks required fields and fills defaults. The total comes from the
// caller and is not recomputed from the items.
func (r *CreateOrderRequest) Validate() error {
	if r.CustomerName == "" || len(r.Items) == 0 || !r.Total.IsPositive() {
		return ErrMissingFields
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentCash
	}
	if !r.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	if r.PaymentMethod == PaymentDeferred && r.CustomerID == nil {
		return ErrDeferredNeedsCustomer
	}
	return nil
}

type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

type CustomerRequest struct {
	Name        string          `json:"nome"`
	Phone       string          `json:"telefone"`
	CreditLimit decimal.Decimal `json:"limite_credito"`
	Notes       string          `json:"observacoes"`
}

func (r *CustomerRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingCustomerName
	}
	if r.CreditLimit.IsZero() {
		r.CreditLimit = DefaultCreditLimit
	}
	return nil
}

type PaymentRequest struct {
	Amount         decimal.Decimal `json:"valor"`
	Method         PaymentMethod   `json:"forma_pagamento"`
	ReferenceMonth string          `json:"mes_referencia"`
	Notes          string          `json:"observacoes"`
}

func (r *PaymentRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidPaymentAmount
	}
	if r.Method == "" {
		r.Method = PaymentCash
	}
	if !r.Method.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// ImportOrder is one row of a bulk import of past sales. Missing fields get
// placeholder defaults instead of failing the row.
type ImportOrder struct {
	CustomerName  string          `json:"cliente_nome"`
	CustomerPhone string          `json:"cliente_telefone"`
	Items         []Item          `json:"itens"`
	Total         decimal.Decimal `json:"valor_total"`
	PaymentMethod PaymentMethod   `json:"forma_pagamento"`
	Status        OrderStatus     `json:"status"`
	Notes         string          `json:"observacoes"`
	CreatedAt     *time.Time      `json:"data_criacao"`
}

type ImportRequest struct {
	Orders []ImportOrder `json:"pedidos"`
}
