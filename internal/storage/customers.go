package storage

import (
	"context"
	"errors"
	"fmt"

	"acai-pedidos/internal/errs"
	"acai-pedidos/internal/model"
	"acai-pedidos/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// telefone is stored as NULL when absent so the unique index only applies to
// real numbers.
const customerColumns = `id, nome, COALESCE(telefone, ''), limite_credito, saldo_atual, total_compras,
		ultima_compra, observacoes, data_cadastro`

func scanCustomer(row pgx.Row) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CreditLimit, &c.Balance,
		&c.TotalPurchases, &c.LastPurchase, &c.Notes, &c.CreatedAt)
	return c, err
}

func (s *PostgresStorage) CreateCustomer(ctx context.Context, req model.CustomerRequest) (model.Customer, error) {
	query := fmt.Sprintf(`
		INSERT INTO clientes_fieis (nome, telefone, limite_credito, observacoes)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING %s`, customerColumns)

	customer, err := scanCustomer(s.db.QueryRow(ctx, query, req.Name, req.Phone, req.CreditLimit, req.Notes))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Customer{}, errs.ErrPhoneAlreadyExists
		}
		return model.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	return customer, nil
}

func (s *PostgresStorage) UpdateCustomer(ctx context.Context, id int64, req model.CustomerRequest) error {
	const query = `
		UPDATE clientes_fieis
		SET nome = $1, telefone = NULLIF($2, ''), limite_credito = $3, observacoes = $4
		WHERE id = $5`

	cmdTag, err := s.db.Exec(ctx, query, req.Name, req.Phone, req.CreditLimit, req.Notes, id)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.ErrPhoneAlreadyExists
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrCustomerNotFound
	}

	return nil
}

func (s *PostgresStorage) GetCustomers(ctx context.Context) ([]model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM clientes_fieis ORDER BY nome`, customerColumns)

	return s.queryCustomers(ctx, query)
}

// GetCustomersWithBalance lists everyone still owing money, biggest debt first.
func (s *PostgresStorage) GetCustomersWithBalance(ctx context.Context) ([]model.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM clientes_fieis
		WHERE saldo_atual > 0
		ORDER BY saldo_atual DESC`, customerColumns)

	return s.queryCustomers(ctx, query)
}

func (s *PostgresStorage) queryCustomers(ctx context.Context, query string, args ...any) ([]model.Customer, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return customers, nil
}

func (s *PostgresStorage) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM clientes_fieis WHERE id = $1`, customerColumns)

	customer, err := scanCustomer(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Customer{}, errs.ErrCustomerNotFound
		}
		return model.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	return customer, nil
}

// adjustBalance is the balance-adjustment primitive. Adding charges the
// customer: balance and lifetime purchase total both go up and the purchase
// timestamp is refreshed. Subtracting only lowers the balance — the purchase
// total keeps recording money ever charged.
func adjustBalance(ctx context.Context, q pgxExecutor, customerID int64, amount decimal.Decimal, op model.BalanceOp) error {
	const addQuery = `
		UPDATE clientes_fieis
		SET saldo_atual = saldo_atual + $1,
		    total_compras = total_compras + $1,
		    ultima_compra = NOW()
		WHERE id = $2`

	const subQuery = `
		UPDATE clientes_fieis
		SET saldo_atual = saldo_atual - $1
		WHERE id = $2`

	query := addQuery
	if op == model.BalanceSub {
		query = subQuery
	}

	cmdTag, err := q.Exec(ctx, query, amount.Abs(), customerID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrCustomerNotFound
	}

	return nil
}

func (s *PostgresStorage) AdjustCustomerBalance(ctx context.Context, customerID int64, amount decimal.Decimal, op model.BalanceOp) error {
	return adjustBalance(ctx, s.db, customerID, amount, op)
}

// RecordPayment appends the payment record and lowers the balance in one
// transaction, re-checking the cap under a row lock.
func (s *PostgresStorage) RecordPayment(ctx context.Context, customerID int64, req model.PaymentRequest) (model.Payment, error) {
	const lockBalanceQuery = `SELECT saldo_atual FROM clientes_fieis WHERE id = $1 FOR UPDATE`

	const insertPaymentQuery = `
		INSERT INTO pagamentos (cliente_fiel_id, valor, forma_pagamento, mes_referencia, observacoes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, data_pagamento`

	if req.ReferenceMonth == "" {
		req.ReferenceMonth = utils.CurrentMonthRef()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.Payment{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, lockBalanceQuery, customerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Payment{}, errs.ErrCustomerNotFound
		}
		return model.Payment{}, fmt.Errorf("check balance: %w", err)
	}

	if req.Amount.GreaterThan(balance) {
		return model.Payment{}, errs.ErrPaymentExceedsBalance
	}

	payment := model.Payment{
		CustomerID:     customerID,
		Amount:         req.Amount,
		Method:         req.Method,
		ReferenceMonth: req.ReferenceMonth,
		Notes:          req.Notes,
	}

	err = tx.QueryRow(ctx, insertPaymentQuery,
		customerID, req.Amount, req.Method, req.ReferenceMonth, req.Notes,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return model.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	if err := adjustBalance(ctx, tx, customerID, req.Amount, model.BalanceSub); err != nil {
		return model.Payment{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Payment{}, fmt.Errorf("commit: %w", err)
	}

	return payment, nil
}

func (s *PostgresStorage) GetCustomerPayments(ctx context.Context, customerID int64) ([]model.Payment, error) {
	const query = `
		SELECT id, cliente_fiel_id, valor, forma_pagamento, mes_referencia, observacoes, data_pagamento
		FROM pagamentos
		WHERE cliente_fiel_id = $1
		ORDER BY data_pagamento DESC`

	rows, err := s.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		err := rows.Scan(&p.ID, &p.CustomerID, &p.Amount, &p.Method, &p.ReferenceMonth, &p.Notes, &p.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return payments, nil
}

// DeleteCustomer refuses to remove anyone still owing money.
func (s *PostgresStorage) DeleteCustomer(ctx context.Context, id int64) error {
	const lockBalanceQuery = `SELECT saldo_atual FROM clientes_fieis WHERE id = $1 FOR UPDATE`
	const deleteQuery = `DELETE FROM clientes_fieis WHERE id = $1`

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, lockBalanceQuery, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrCustomerNotFound
		}
		return fmt.Errorf("check balance: %w", err)
	}

	if balance.IsPositive() {
		return errs.ErrCustomerHasBalance
	}

	if _, err := tx.Exec(ctx, deleteQuery, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	return tx.Commit(ctx)
}
