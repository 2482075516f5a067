package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema DDL idempotente del coordinador de compras. El índice único parcial
// sobre (product_id) WHERE status = 'Pendiente' materializa el invariante de
// una sola fila pendiente por producto: dos upserts concurrentes sobre el
// mismo producto serializan contra él.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id           UUID PRIMARY KEY,
	name         TEXT UNIQUE NOT NULL,
	category     TEXT NOT NULL DEFAULT 'General',
	brand        TEXT NOT NULL DEFAULT '',
	unit_measure TEXT NOT NULL DEFAULT 'Unidad',
	last_price   NUMERIC(12,2) NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS shopping_items (
	id                 UUID PRIMARY KEY,
	product_id         UUID NOT NULL REFERENCES products(id),
	requester_id       UUID NOT NULL REFERENCES users(id),
	quantity_requested NUMERIC(10,2) NOT NULL,
	quantity_approved  NUMERIC(10,2),
	status             TEXT NOT NULL DEFAULT 'Pendiente',
	price_real         NUMERIC(12,2),
	shopping_date      TIMESTAMPTZ,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS shopping_items_one_pending
	ON shopping_items (product_id) WHERE status = 'Pendiente';

CREATE INDEX IF NOT EXISTS shopping_items_status_idx
	ON shopping_items (status);
`

// EnsureSchema crea las tablas e índices si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
