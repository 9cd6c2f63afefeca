package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Folio store.
var Migrations = migrate.NewGroup("folio")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_folio_products",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_products (
    code        TEXT PRIMARY KEY,
    id          TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL DEFAULT '',
    unit_price  TEXT NOT NULL DEFAULT '0',
    unit        TEXT NOT NULL DEFAULT 'unidad',
    stock_milli BIGINT NOT NULL DEFAULT 0 CHECK (stock_milli >= 0),
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_folio_products_name ON folio_products (LOWER(name));
CREATE INDEX IF NOT EXISTS idx_folio_products_stock ON folio_products (stock_milli);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_products`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_quotations",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_quotations (
    number         TEXT PRIMARY KEY,
    id             TEXT NOT NULL DEFAULT '',
    customer       TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT '',
    items          JSONB NOT NULL DEFAULT '[]',
    currency       TEXT NOT NULL DEFAULT '',
    subtotal       BIGINT NOT NULL DEFAULT 0,
    total          BIGINT NOT NULL DEFAULT 0,
    status         TEXT NOT NULL DEFAULT 'pending',
    invoice_number TEXT NOT NULL DEFAULT '',
    invoiced_at    TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_folio_quotations_status ON folio_quotations (status, created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_quotations`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_invoices",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_invoices (
    number           TEXT PRIMARY KEY,
    id               TEXT NOT NULL DEFAULT '',
    customer         TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    items            JSONB NOT NULL DEFAULT '[]',
    currency         TEXT NOT NULL DEFAULT '',
    subtotal         BIGINT NOT NULL DEFAULT 0,
    tax_rate         TEXT NOT NULL DEFAULT '0',
    tax_amount       BIGINT NOT NULL DEFAULT 0,
    total            BIGINT NOT NULL DEFAULT 0,
    source_quotation TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_folio_invoices_created ON folio_invoices (created_at);
CREATE INDEX IF NOT EXISTS idx_folio_invoices_customer ON folio_invoices (LOWER(customer));
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_invoices`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_counters_and_settings",
			Version: "20260101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_counters (
    kind        TEXT PRIMARY KEY,
    last_issued BIGINT NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS folio_settings (
    id         INT PRIMARY KEY CHECK (id = 1),
    data       JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_settings; DROP TABLE IF EXISTS folio_counters`)
				return err
			},
		},
	)
}
