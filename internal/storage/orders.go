package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"acai-pedidos/internal/errs"
	"acai-pedidos/internal/model"

	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, numero_pedido, cliente_nome, cliente_telefone, cliente_fiel_id,
		itens, valor_total, forma_pagamento, status, observacoes, endereco_entrega,
		data_criacao, data_entregue`

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	var items []byte

	err := row.Scan(&o.ID, &o.Number, &o.CustomerName, &o.CustomerPhone, &o.CustomerID,
		&items, &o.Total, &o.PaymentMethod, &o.Status, &o.Notes, &o.DeliveryAddress,
		&o.CreatedAt, &o.DeliveredAt)
	if err != nil {
		return model.Order{}, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		// a row with unreadable itens still lists, just without the line items
		o.Items = []model.Item{}
	}

	return o, nil
}

// CreateOrder inserts the order and, for deferred payment, raises the
// customer's balance in the same transaction. Either both rows change or
// neither does.
func (s *PostgresStorage) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (model.Order, error) {
	const insertOrderQuery = `
		INSERT INTO pedidos
		(numero_pedido, cliente_nome, cliente_telefone, cliente_fiel_id, itens, valor_total,
		 forma_pagamento, observacoes, endereco_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, status, data_criacao`

	items, err := json.Marshal(req.Items)
	if err != nil {
		return model.Order{}, fmt.Errorf("marshal items: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := s.nextOrderNumber(ctx, tx, time.Now())
	if err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		Number:          number,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
	}

	err = tx.QueryRow(ctx, insertOrderQuery,
		order.Number, order.CustomerName, order.CustomerPhone, order.CustomerID,
		items, order.Total, order.PaymentMethod, order.Notes, order.DeliveryAddress,
	).Scan(&order.ID, &order.Status, &order.CreatedAt)
	if err != nil {
		// the cliente_fiel_id foreign key fires at the INSERT itself
		if isForeignKeyViolation(err) {
			return model.Order{}, errs.ErrCustomerNotFound
		}
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if order.PaymentMethod == model.PaymentDeferred && order.CustomerID != nil {
		if err := adjustBalance(ctx, tx, *order.CustomerID, order.Total, model.BalanceAdd); err != nil {
			return model.Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("commit: %w", err)
	}

	return order, nil
}

func (s *PostgresStorage) nextOrderNumber(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('pedido_numero_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return model.FormatOrderNumber(seq, now), nil
}

func (s *PostgresStorage) GetOrders(ctx context.Context) ([]model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM pedidos ORDER BY data_criacao DESC`, orderColumns)

	return s.queryOrders(ctx, query)
}

// GetOrdersByStatus lists oldest first: the kitchen works the queue in the
// order it came in.
func (s *PostgresStorage) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM pedidos WHERE status = $1 ORDER BY data_criacao`, orderColumns)

	return s.queryOrders(ctx, query, status)
}

func (s *PostgresStorage) GetOrdersByPeriod(ctx context.Context, from, to time.Time) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pedidos
		WHERE data_criacao::date BETWEEN $1::date AND $2::date
		ORDER BY data_criacao DESC`, orderColumns)

	return s.queryOrders(ctx, query, from, to)
}

func (s *PostgresStorage) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return orders, nil
}

func (s *PostgresStorage) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM pedidos WHERE id = $1`, orderColumns)

	order, err := scanOrder(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, errs.ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

// orderStatusUpdateQuery picks the statement for a status transition. Moving
// to entregue stamps data_entregue in the same UPDATE; any other status
// leaves the stamp alone, so it is never cleared afterwards.
func orderStatusUpdateQuery(status model.OrderStatus) string {
	if status == model.StatusDelivered {
		return `UPDATE pedidos SET status = $1, data_entregue = NOW() WHERE id = $2`
	}
	return `UPDATE pedidos SET status = $1 WHERE id = $2`
}

// UpdateOrderStatus moves an order through the pipeline.
func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	cmdTag, err := s.db.Exec(ctx, orderStatusUpdateQuery(status), status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrOrderNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteOrder(ctx context.Context, id int64) error {
	const query = `DELETE FROM pedidos WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrOrderNotFound
	}

	return nil
}

func (s *PostgresStorage) DailyReport(ctx context.Context, day time.Time) ([]model.ReportRow, error) {
	const query = `
		SELECT forma_pagamento, COUNT(*), COALESCE(SUM(valor_total), 0)
		FROM pedidos
		WHERE data_criacao::date = $1::date
		GROUP BY forma_pagamento`

	rows, err := s.db.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("daily report: %w", err)
	}
	defer rows.Close()

	var report []model.ReportRow
	for rows.Next() {
		var row model.ReportRow
		if err := rows.Scan(&row.Method, &row.Count, &row.Total); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		report = append(report, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return report, nil
}

// ImportOrders inserts past sales one row at a time. A failed row is reported
// in the result and must not abort the rest of the batch, so the loop runs
// outside a transaction on purpose.
func (s *PostgresStorage) ImportOrders(ctx context.Context, orders []model.ImportOrder) (model.ImportResult, error) {
	const insertQuery = `
		INSERT INTO pedidos
		(numero_pedido, cliente_nome, cliente_telefone, itens, valor_total,
		 forma_pagamento, status, observacoes, data_criacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	result := model.ImportResult{Total: len(orders)}

	for i, imp := range orders {
		if imp.CustomerName == "" {
			imp.CustomerName = "Cliente Importado"
		}
		if len(imp.Items) == 0 {
			imp.Items = []model.Item{{Name: "Importado"}}
		}
		if imp.PaymentMethod == "" || !imp.PaymentMethod.Valid() {
			imp.PaymentMethod = model.PaymentCash
		}
		if imp.Status == "" || !imp.Status.Valid() {
			imp.Status = model.StatusDelivered
		}
		if imp.Notes == "" {
			imp.Notes = "Importado"
		}
		createdAt := time.Now()
		if imp.CreatedAt != nil {
			createdAt = *imp.CreatedAt
		}

		items, err := json.Marshal(imp.Items)
		if err != nil {
			result.Failed++
			result.Rows = append(result.Rows, model.ImportRowResult{Index: i, Error: err.Error()})
			continue
		}

		var seq int64
		if err := s.db.QueryRow(ctx, `SELECT nextval('pedido_numero_seq')`).Scan(&seq); err != nil {
			return result, fmt.Errorf("next import number: %w", err)
		}

		var id int64
		err = s.db.QueryRow(ctx, insertQuery,
			model.FormatImportNumber(seq), imp.CustomerName, imp.CustomerPhone, items,
			imp.Total, imp.PaymentMethod, imp.Status, imp.Notes, createdAt,
		).Scan(&id)
		if err != nil {
			result.Failed++
			result.Rows = append(result.Rows, model.ImportRowResult{Index: i, Error: err.Error()})
			continue
		}

		result.Imported++
		result.Rows = append(result.Rows, model.ImportRowResult{Index: i, Success: true, ID: id})
	}

	return result, nil
}
