package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	db *pgxpool.Pool
}

func (store *PostgresStorage) initSchema(ctx context.Context) error {
	const initSchemaQuery = `
	CREATE TABLE IF NOT EXISTS clientes_fieis (
		id BIGSERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		telefone TEXT UNIQUE,
		limite_credito NUMERIC(12,2) NOT NULL DEFAULT 200.00,
		saldo_atual NUMERIC(12,2) NOT NULL DEFAULT 0.00,
		total_compras NUMERIC(12,2) NOT NULL DEFAULT 0.00,
		ultima_compra TIMESTAMPTZ,
		observacoes TEXT NOT NULL DEFAULT '',
		data_cadastro TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS pedidos (
		id BIGSERIAL PRIMARY KEY,
		numero_pedido TEXT UNIQUE NOT NULL,
		cliente_nome TEXT NOT NULL,
		cliente_telefone TEXT NOT NULL DEFAULT '',
		cliente_fiel_id BIGINT REFERENCES clientes_fieis(id),
		itens JSONB NOT NULL,
		valor_total NUMERIC(12,2) NOT NULL,
		forma_pagamento TEXT NOT NULL DEFAULT 'dinheiro',
		status TEXT NOT NULL DEFAULT 'novo',
		observacoes TEXT NOT NULL DEFAULT '',
		endereco_entrega TEXT NOT NULL DEFAULT '',
		data_criacao TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		data_entregue TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS pagamentos (
		id BIGSERIAL PRIMARY KEY,
		cliente_fiel_id BIGINT NOT NULL REFERENCES clientes_fieis(id),
		valor NUMERIC(12,2) NOT NULL,
		forma_pagamento TEXT NOT NULL DEFAULT 'dinheiro',
		mes_referencia TEXT NOT NULL DEFAULT '',
		observacoes TEXT NOT NULL DEFAULT '',
		data_pagamento TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE SEQUENCE IF NOT EXISTS pedido_numero_seq;`

	_, err := store.db.Exec(ctx, initSchemaQuery)
	return err
}

func NewPostgresStorage(ctx context.Context, databaseURI string) (*PostgresStorage, error) {
	db, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, err
	}

	storage := &PostgresStorage{db: db}

	if err := storage.Ping(ctx); err != nil {
		return nil, err
	}

	if err := storage.initSchema(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

func (store *PostgresStorage) Ping(ctx context.Context) error {
	return store.db.Ping(ctx)
}

func (store *PostgresStorage) Close() {
	store.db.Close()
}

// pgxExecutor is satisfied by both *pgxpool.Pool and pgx.Tx, so balance
// adjustments can run standalone or inside the order-creation transaction.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func isUniqueViolation(err error) bool {
	// 23505 — unique constraint violated
	pgErr, ok := err.(*pgconn.PgError)
	return ok && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	// 23503 — referenced row does not exist
	pgErr, ok := err.(*pgconn.PgError)
	return ok && pgErr.Code == "23503"
}
