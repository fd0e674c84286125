package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// os valores monetários vão na resposta como números JSON, não strings
	decimal.MarshalJSONWithoutQuotes = true
}

type OrderStatus string

const (
	StatusNew        OrderStatus = "novo"
	StatusProduction OrderStatus = "producao"
	StatusReady      OrderStatus = "pronto"
	StatusDelivered  OrderStatus = "entregue"
	StatusCancelled  OrderStatus = "cancelado"
)

func ValidStatuses() []OrderStatus {
	return []OrderStatus{StatusNew, StatusProduction, StatusReady, StatusDelivered, StatusCancelled}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusProduction, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "dinheiro"
	PaymentPix      PaymentMethod = "pix"
	PaymentCard     PaymentMethod = "cartao"
	PaymentDeferred PaymentMethod = "a_prazo"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard, PaymentDeferred:
		return true
	}
	return false
}

type Item struct {
	Name  string          `json:"nome"`
	Price decimal.Decimal `json:"preco"`
}

type Order struct {
	ID              int64           `json:"id"`
	Number          string          `json:"numero_pedido"`
	CustomerName    string          `json:"cliente_nome"`
	CustomerPhone   string          `json:"cliente_telefone,omitempty"`
	CustomerID      *int64          `json:"cliente_fiel_id,omitempty"`
	Items           []Item          `json:"itens"`
	Total           decimal.Decimal `json:"valor_total"`
	PaymentMethod   PaymentMethod   `json:"forma_pagamento"`
	Status          OrderStatus     `json:"status"`
	Notes           string          `json:"observacoes,omitempty"`
	DeliveryAddress string          `json:"endereco_entrega,omitempty"`
	CreatedAt       time.Time       `json:"data_criacao"`
	DeliveredAt     *time.Time      `json:"data_entregue,omitempty"`
}

type Customer struct {
	ID             int64           `json:"id"`
	Name           string          `json:"nome"`
	Phone          string          `json:"telefone,omitempty"`
	CreditLimit    decimal.Decimal `json:"limite_credito"`
	Balance        decimal.Decimal `json:"saldo_atual"`
	TotalPurchases decimal.Decimal `json:"total_compras"`
	LastPurchase   *time.Time      `json:"ultima_compra,omitempty"`
	Notes          string          `json:"observacoes,omitempty"`
	CreatedAt      time.Time       `json:"data_cadastro"`
}

// DefaultCreditLimit applies when a customer is registered without an explicit limit.
var DefaultCreditLimit = decimal.NewFromInt(200)

type Payment struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"cliente_fiel_id"`
	Amount         decimal.Decimal `json:"valor"`
	Method         PaymentMethod   `json:"forma_pagamento"`
	ReferenceMonth string          `json:"mes_referencia,omitempty"`
	Notes          string          `json:"observacoes,omitempty"`
	PaidAt         time.Time       `json:"data_pagamento"`
}

// BalanceOp is the direction of a customer balance adjustment. Adding tracks
// money ever charged (raises total_compras too); subtracting only lowers the
// amount currently owed.
type BalanceOp string

const (
	BalanceAdd BalanceOp = "adicionar"
	BalanceSub BalanceOp = "subtrair"
)

type ReportRow struct {
	Method PaymentMethod   `json:"forma_pagamento"`
	Count  int             `json:"quantidade"`
	Total  decimal.Decimal `json:"valor_total"`
}

type ImportRowResult struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ImportResult struct {
	Total    int               `json:"total"`
	Imported int               `json:"importados"`
	Failed   int               `json:"erros"`
	Rows     []ImportRowResult `json:"resultados"`
}

// FormatOrderNumber renders the human-facing order number: AC prefix, day and
// month of creation, then the sequence value. The sequence makes it unique,
// the date prefix keeps it readable for the counter staff.
func FormatOrderNumber(seq int64, t time.Time) string {
	return fmt.Sprintf("AC%s-%04d", t.Format("0201"), seq)
}

// FormatImportNumber renders numbers for orders brought in through the bulk
// import endpoint, visually distinct from live ones.
func FormatImportNumber(seq int64) string {
	return fmt.Sprintf("IMP%04d", seq)
}
