package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
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

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("folio/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("folio/sqlite: migration failed: %w", err)
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
	err := s.sdb.NewSelect(m).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrProductNotFound
		}
		return nil, fmt.Errorf("folio/sqlite: get product: %w", err)
	}
	return fromProductModel(m)
}

func (s *Store) ListProducts(ctx context.Context, opts catalog.ListOpts) ([]*catalog.Product, error) {
	var models []productModel
	q := s.sdb.NewSelect(&models)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("code ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/sqlite: list products: %w", err)
	}
	return fromProductModels(models)
}

func (s *Store) SearchProducts(ctx context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error) {
	pattern := likePattern(term)
	var models []productModel
	q := s.sdb.NewSelect(&models).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(code) LIKE ? ESCAPE '\')`, pattern, pattern)
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("code ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/sqlite: search products: %w", err)
	}
	return fromProductModels(models)
}

func (s *Store) UpsertProduct(ctx context.Context, p *catalog.Product) error {
	m, err := toProductModel(p)
	if err != nil {
		return fmt.Errorf("folio/sqlite: upsert product: %w", err)
	}
	m.UpdatedAt = now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}
	_, err = s.sdb.NewInsert(m).
		OnConflict("(code) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("unit_price = EXCLUDED.unit_price").
		Set("unit = EXCLUDED.unit").
		Set("stock_milli = EXCLUDED.stock_milli").
		Set("description = EXCLUDED.description").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: upsert product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	res, err := s.sdb.NewDelete((*productModel)(nil)).
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: delete product: %w", err)
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

// TryDecrementStock subtracts qty only while enough stock remains; the
// check and the write are one statement.
func (s *Store) TryDecrementStock(ctx context.Context, code string, qty decimal.Decimal) error {
	milli, err := types.ToMilli(qty)
	if err != nil {
		return fmt.Errorf("folio/sqlite: decrement stock: %w", err)
	}
	res, err := s.sdb.NewUpdate((*productModel)(nil)).
		Set("stock_milli = stock_milli - ?", milli).
		Set("updated_at = ?", now()).
		Where("code = ?", code).
		Where("stock_milli >= ?", milli).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: decrement stock: %w", err)
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
		return fmt.Errorf("folio/sqlite: increment stock: %w", err)
	}
	res, err := s.sdb.NewUpdate((*productModel)(nil)).
		Set("stock_milli = stock_milli + ?", milli).
		Set("updated_at = ?", now()).
		Where("code = ?", code).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: increment stock: %w", err)
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
		return nil, fmt.Errorf("folio/sqlite: list low stock: %w", err)
	}
	var models []productModel
	err = s.sdb.NewSelect(&models).
		Where("stock_milli <= ?", limit).
		OrderExpr("code ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("folio/sqlite: list low stock: %w", err)
	}
	return fromProductModels(models)
}

// ==================== Quotation Store ====================

func (s *Store) CreateQuotation(ctx context.Context, q *quotation.Quotation) error {
	m, err := toQuotationModel(q)
	if err != nil {
		return err
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/sqlite: create quotation: %w", err)
	}
	return nil
}

func (s *Store) GetQuotation(ctx context.Context, number string) (*quotation.Quotation, error) {
	m := new(quotationModel)
	err := s.sdb.NewSelect(m).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrQuotationNotFound
		}
		return nil, fmt.Errorf("folio/sqlite: get quotation: %w", err)
	}
	return fromQuotationModel(m)
}

func (s *Store) ListQuotations(ctx context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error) {
	var models []quotationModel
	q := s.sdb.NewSelect(&models)

	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Customer != "" {
		q = q.Where(`LOWER(customer) LIKE ? ESCAPE '\'`, likePattern(opts.Customer))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, number DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/sqlite: list quotations: %w", err)
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
	res, err := s.sdb.NewUpdate((*quotationModel)(nil)).
		Set("status = ?", string(quotation.StatusInvoiced)).
		Set("invoice_number = ?", invoiceNumber).
		Set("invoiced_at = ?", at).
		Set("updated_at = ?", at).
		Where("number = ?", number).
		Where("status = ?", string(quotation.StatusPending)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: mark quotation invoiced: %w", err)
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
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/sqlite: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, number string) (*invoice.Invoice, error) {
	m := new(invoiceModel)
	err := s.sdb.NewSelect(m).
		Where("number = ?", number).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("folio/sqlite: get invoice: %w", err)
	}
	return fromInvoiceModel(m)
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel
	q := s.sdb.NewSelect(&models)

	if opts.Customer != "" {
		q = q.Where(`LOWER(customer) LIKE ? ESCAPE '\'`, likePattern(opts.Customer))
	}
	if !opts.Start.IsZero() {
		q = q.Where("created_at >= ?", opts.Start)
	}
	if !opts.End.IsZero() {
		q = q.Where("created_at < ?", opts.End)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at DESC, number DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/sqlite: list invoices: %w", err)
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
	res, err := s.sdb.NewDelete((*invoiceModel)(nil)).
		Where("number = ?", number).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: delete invoice: %w", err)
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
	err := s.sdb.NewRaw(`
		SELECT COALESCE(MAX(last_issued), 0) FROM folio_counters WHERE kind = ?
	`, string(kind)).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("folio/sqlite: read counter: %w", err)
	}
	return last, nil
}

// AdvanceCounter creates or increments the counter row in one statement and
// returns the value it now holds.
func (s *Store) AdvanceCounter(ctx context.Context, kind numbering.Kind) (int64, error) {
	var next int64
	err := s.sdb.NewRaw(`
		INSERT INTO folio_counters (kind, last_issued, updated_at) VALUES (?, 1, ?)
		ON CONFLICT (kind) DO UPDATE
		SET last_issued = folio_counters.last_issued + 1, updated_at = EXCLUDED.updated_at
		RETURNING last_issued
	`, string(kind), now()).Scan(ctx, &next)
	if err != nil {
		return 0, fmt.Errorf("folio/sqlite: advance counter: %w", err)
	}
	return next, nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	m := new(settingsModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", 1).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("folio/sqlite: get settings: %w", err)
	}
	return fromSettingsModel(m)
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	m, err := toSettingsModel(st)
	if err != nil {
		return err
	}
	_, err = s.sdb.NewInsert(m).
		OnConflict("(id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/sqlite: save settings: %w", err)
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

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
