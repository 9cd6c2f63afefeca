package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/folio"
	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	folstore "github.com/xraph/folio/store"
	"github.com/xraph/folio/types"
)

// compile-time interface check
var _ folstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("folio/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("folio/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Catalog Store ====================

func (s *Store) GetProduct(ctx context.Context, code string) (*catalog.Product, error) {
	m := new(productModel)
	err := s.pg.NewSelect(m).
		Where("code = $1", code).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrProductNotFound
		}
		return nil, fmt.Errorf("folio/postgres: get product: %w", err)
	}
	return fromProductModel(m)
}

func (s *Store) ListProducts(ctx context.Context, opts catalog.ListOpts) ([]*catalog.Product, error) {
	var models []productModel
	q := s.pg.NewSelect(&models)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("code ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/postgres: list products: %w", err)
	}
	return fromProductModels(models)
}

func (s *Store) SearchProducts(ctx context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error) {
	var models []productModel
	q := s.pg.NewSelect(&models).
		Where("(name ILIKE $1 OR code ILIKE $1)", likePattern(term))
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("code ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/postgres: search products: %w", err)
	}
	return fromProductModels(models)
}

func (s *Store) UpsertProduct(ctx context.Context, p *catalog.Product) error {
	m, err := toProductModel(p)
	if err != nil {
		return fmt.Errorf("folio/postgres: upsert product: %w", err)
	}
	m.UpdatedAt = now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}
	_, err = s.pg.NewInsert(m).
		OnConflict("(code) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("unit_price = EXCLUDED.unit_price").
		Set("unit = EXCLUDED.unit").
		Set("stock_milli = EXCLUDED.stock_milli").
		Set("description = EXCLUDED.description").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: upsert product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	res, err := s.pg.NewDelete((*productModel)(nil)).
		Where("code = $1", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: delete product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return folio.ErrProductNotFound
	}
	return nil
}

// TryDecrementStock subtracts qty in a single conditional UPDATE so two
// concurrent sales can never both pass the availability check.
func (s *Store) TryDecrementStock(ctx context.Context, code string, qty decimal.Decimal) error {
	milli, err := types.ToMilli(qty)
	if err != nil {
		return fmt.Errorf("folio/postgres: decrement stock: %w", err)
	}
	res, err := s.pg.NewUpdate((*productModel)(nil)).
		Set("stock_milli = stock_milli - $1", milli).
		Set("updated_at = $2", now()).
		Where("code = $3", code).
		Where("stock_milli >= $4", milli).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: decrement stock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetProduct(ctx, code); err != nil {
			return err
		}
		return folio.ErrInsufficientStock
	}
	return nil
}

func (s *Store) IncrementStock(ctx context.Context, code string, qty decimal.Decimal) error {
	milli, err := types.ToMilli(qty)
	if err != nil {
		return fmt.Errorf("folio/postgres: increment stock: %w", err)
	}
	res, err := s.pg.NewUpdate((*productModel)(nil)).
		Set("stock_milli = stock_milli + $1", milli).
		Set("updated_at = $2", now()).
		Where("code = $3", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: increment stock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return folio.ErrProductNotFound
	}
	return nil
}

func (s *Store) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]*catalog.Product, error) {
	limit, err := types.ToMilli(threshold)
	if err != nil {
		return nil, fmt.Errorf("folio/postgres: list low stock: %w", err)
	}
	var models []productModel
	err = s.pg.NewSelect(&models).
		Where("stock_milli <= $1", limit).
		OrderExpr("code ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("folio/postgres: list low stock: %w", err)
	}
	return fromProductModels(models)
}

// ==================== Quotation Store ====================

func (s *Store) CreateQuotation(ctx context.Context, q *quotation.Quotation) error {
	m, err := toQuotationModel(q)
	if err != nil {
		return err
	}
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/postgres: create quotation: %w", err)
	}
	return nil
}

func (s *Store) GetQuotation(ctx context.Context, number string) (*quotation.Quotation, error) {
	m := new(quotationModel)
	err := s.pg.NewSelect(m).
		Where("number = $1", number).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrQuotationNotFound
		}
		return nil, fmt.Errorf("folio/postgres: get quotation: %w", err)
	}
	return fromQuotationModel(m)
}

func (s *Store) ListQuotations(ctx context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error) {
	var models []quotationModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if opts.Status != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("status = $%d", argIdx), string(opts.Status))
	}
	if opts.Customer != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("customer ILIKE $%d", argIdx), likePattern(opts.Customer))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, number DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/postgres: list quotations: %w", err)
	}

	result := make([]*quotation.Quotation, len(models))
	for i := range models {
		qt, err := fromQuotationModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = qt
	}
	return result, nil
}

func (s *Store) MarkQuotationInvoiced(ctx context.Context, number, invoiceNumber string, at time.Time) error {
	res, err := s.pg.NewUpdate((*quotationModel)(nil)).
		Set("status = $1", string(quotation.StatusInvoiced)).
		Set("invoice_number = $2", invoiceNumber).
		Set("invoiced_at = $3", at).
		Set("updated_at = $4", at).
		Where("number = $5", number).
		Where("status = $6", string(quotation.StatusPending)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: mark quotation invoiced: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.GetQuotation(ctx, number); err != nil {
			return err
		}
		return folio.ErrAlreadyInvoiced
	}
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m, err := toInvoiceModel(inv)
	if err != nil {
		return err
	}
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/postgres: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, number string) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.pg.NewSelect(m).
		Where("number = $1", number).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("folio/postgres: get invoice: %w", err)
	}
	return fromInvoiceModel(m)
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.pg.NewSelect(&models)

	argIdx := 0
	if opts.Customer != "" {
		argIdx++
		q = q.Where(fmt.Sprintf("customer ILIKE $%d", argIdx), likePattern(opts.Customer))
	}
	if !opts.Start.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("created_at >= $%d", argIdx), opts.Start)
	}
	if !opts.End.IsZero() {
		argIdx++
		q = q.Where(fmt.Sprintf("created_at < $%d", argIdx), opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, number DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/postgres: list invoices: %w", err)
	}

	result := make([]*invoice.Invoice, len(models))
	for i := range models {
		inv, err := fromInvoiceModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = inv
	}
	return result, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, number string) error {
	res, err := s.pg.NewDelete((*invoiceModel)(nil)).
		Where("number = $1", number).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: delete invoice: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return folio.ErrInvoiceNotFound
	}
	return nil
}

// ==================== Numbering Store ====================

func (s *Store) LastIssued(ctx context.Context, kind numbering.Kind) (int64, error) {
	var last int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(MAX(last_issued), 0) FROM folio_counters WHERE kind = $1
	`, string(kind)).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("folio/postgres: read counter: %w", err)
	}
	return last, nil
}

// AdvanceCounter upserts and increments the counter row atomically; the row
// lock taken by ON CONFLICT serializes concurrent issuers.
func (s *Store) AdvanceCounter(ctx context.Context, kind numbering.Kind) (int64, error) {
	var next int64
	err := s.pg.NewRaw(`
		INSERT INTO folio_counters (kind, last_issued, updated_at) VALUES ($1, 1, $2)
		ON CONFLICT (kind) DO UPDATE
		SET last_issued = folio_counters.last_issued + 1, updated_at = EXCLUDED.updated_at
		RETURNING last_issued
	`, string(kind), now()).Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("folio/postgres: advance counter: %w", err)
	}
	return next, nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	m := new(settingsModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("folio/postgres: get settings: %w", err)
	}
	return fromSettingsModel(m)
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	m, err := toSettingsModel(st)
	if err != nil {
		return err
	}
	_, err = s.pg.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/postgres: save settings: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

func fromProductModels(models []productModel) ([]*catalog.Product, error) {
	result := make([]*catalog.Product, len(models))
	for i := range models {
		p, err := fromProductModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern for ILIKE; backslash is the
// default escape character in PostgreSQL.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
