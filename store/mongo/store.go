package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/folio"
	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	folstore "github.com/xraph/folio/store"
	"github.com/xraph/folio/types"
)

// Collection name constants.
const (
	colProducts   = "folio_products"
	colQuotations = "folio_quotations"
	colInvoices   = "folio_invoices"
	colCounters   = "folio_counters"
	colSettings   = "folio_settings"
)

// compile-time interface check
var _ folstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all folio collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("folio/mongo: migrate %s indexes: %w", col, err)
		}
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
	var m productModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": code}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrProductNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get product: %w", err)
	}
	return fromProductModel(&m)
}

func (s *Store) ListProducts(ctx context.Context, opts catalog.ListOpts) ([]*catalog.Product, error) {
	return s.findProducts(ctx, bson.M{}, opts, "list products")
}

func (s *Store) SearchProducts(ctx context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error) {
	pattern := containsRegex(term)
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"_id": pattern},
	}}
	return s.findProducts(ctx, filter, opts, "search products")
}

func (s *Store) findProducts(ctx context.Context, filter bson.M, opts catalog.ListOpts, op string) ([]*catalog.Product, error) {
	var models []productModel

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/mongo: %s: %w", op, err)
	}
	return fromProductModels(models)
}

// UpsertProduct replaces the mutable fields and keeps id and created_at from
// the first insert.
func (s *Store) UpsertProduct(ctx context.Context, p *catalog.Product) error {
	m, err := toProductModel(p)
	if err != nil {
		return fmt.Errorf("folio/mongo: upsert product: %w", err)
	}
	t := now()
	created := m.CreatedAt
	if created.IsZero() {
		created = t
	}

	_, err = s.mdb.NewUpdate((*productModel)(nil)).
		Filter(bson.M{"_id": m.Code}).
		SetUpdate(bson.M{
			"$set": bson.M{
				"name":        m.Name,
				"unit_price":  m.UnitPrice,
				"unit":        m.Unit,
				"stock_milli": m.StockMilli,
				"description": m.Description,
				"updated_at":  t,
			},
			"$setOnInsert": bson.M{
				"id":         m.ID,
				"created_at": created,
			},
		}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: upsert product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	res, err := s.mdb.NewDelete((*productModel)(nil)).
		Filter(bson.M{"_id": code}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: delete product: %w", err)
	}
	if res.DeletedCount() == 0 {
		return folio.ErrProductNotFound
	}
	return nil
}

// TryDecrementStock matches the product only while stock_milli covers qty, so
// the check and the $inc are applied to the document atomically.
func (s *Store) TryDecrementStock(ctx context.Context, code string, qty decimal.Decimal) error {
	milli, err := types.ToMilli(qty)
	if err != nil {
		return fmt.Errorf("folio/mongo: decrement stock: %w", err)
	}
	res, err := s.mdb.NewUpdate((*productModel)(nil)).
		Filter(bson.M{"_id": code, "stock_milli": bson.M{"$gte": milli}}).
		SetUpdate(bson.M{
			"$inc": bson.M{"stock_milli": -milli},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: decrement stock: %w", err)
	}
	if res.MatchedCount() == 0 {
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
		return fmt.Errorf("folio/mongo: increment stock: %w", err)
	}
	res, err := s.mdb.NewUpdate((*productModel)(nil)).
		Filter(bson.M{"_id": code}).
		SetUpdate(bson.M{
			"$inc": bson.M{"stock_milli": milli},
			"$set": bson.M{"updated_at": now()},
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: increment stock: %w", err)
	}
	if res.MatchedCount() == 0 {
		return folio.ErrProductNotFound
	}
	return nil
}

func (s *Store) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]*catalog.Product, error) {
	limit, err := types.ToMilli(threshold)
	if err != nil {
		return nil, fmt.Errorf("folio/mongo: list low stock: %w", err)
	}
	filter := bson.M{"stock_milli": bson.M{"$lte": limit}}
	return s.findProducts(ctx, filter, catalog.ListOpts{}, "list low stock")
}

// ==================== Quotation Store ====================

func (s *Store) CreateQuotation(ctx context.Context, q *quotation.Quotation) error {
	m := toQuotationModel(q)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/mongo: create quotation: %w", err)
	}
	return nil
}

func (s *Store) GetQuotation(ctx context.Context, number string) (*quotation.Quotation, error) {
	var m quotationModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": number}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrQuotationNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get quotation: %w", err)
	}
	return fromQuotationModel(&m)
}

func (s *Store) ListQuotations(ctx context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error) {
	var models []quotationModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if opts.Customer != "" {
		filter["customer"] = containsRegex(opts.Customer)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/mongo: list quotations: %w", err)
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
	res, err := s.mdb.NewUpdate((*quotationModel)(nil)).
		Filter(bson.M{"_id": number, "status": string(quotation.StatusPending)}).
		Set("status", string(quotation.StatusInvoiced)).
		Set("invoice_number", invoiceNumber).
		Set("invoiced_at", at).
		Set("updated_at", at).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: mark quotation invoiced: %w", err)
	}
	if res.MatchedCount() == 0 {
		if _, err := s.GetQuotation(ctx, number); err != nil {
			return err
		}
		return folio.ErrAlreadyInvoiced
	}
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	m := toInvoiceModel(inv)
	_, err := s.mdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return folio.ErrAlreadyExists
		}
		return fmt.Errorf("folio/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, number string) (*invoice.Invoice, error) {
	var m invoiceModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": number}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get invoice: %w", err)
	}
	return fromInvoiceModel(&m)
}

func (s *Store) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	var models []invoiceModel

	filter := bson.M{}
	if opts.Customer != "" {
		filter["customer"] = containsRegex(opts.Customer)
	}
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		created := bson.M{}
		if !opts.Start.IsZero() {
			created["$gte"] = opts.Start
		}
		if !opts.End.IsZero() {
			created["$lt"] = opts.End
		}
		filter["created_at"] = created
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("folio/mongo: list invoices: %w", err)
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
	res, err := s.mdb.NewDelete((*invoiceModel)(nil)).
		Filter(bson.M{"_id": number}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("folio/mongo: delete invoice: %w", err)
	}
	if res.DeletedCount() == 0 {
		return folio.ErrInvoiceNotFound
	}
	return nil
}

// ==================== Numbering Store ====================

func (s *Store) LastIssued(ctx context.Context, kind numbering.Kind) (int64, error) {
	var m counterModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": string(kind)}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("folio/mongo: read counter: %w", err)
	}
	return m.LastIssued, nil
}

// AdvanceCounter increments the counter document and returns the value after
// the update, creating the document on first use.
func (s *Store) AdvanceCounter(ctx context.Context, kind numbering.Kind) (int64, error) {
	var m counterModel
	err := s.mdb.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": string(kind)},
		bson.M{
			"$inc": bson.M{"last_issued": int64(1)},
			"$set": bson.M{"updated_at": now()},
		},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return 0, fmt.Errorf("folio/mongo: advance counter: %w", err)
	}
	return m.LastIssued, nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var m settingsModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": settingsDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, folio.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("folio/mongo: get settings: %w", err)
	}
	return fromSettingsModel(&m)
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	m := toSettingsModel(st)
	_, err := s.mdb.Collection(colSettings).ReplaceOne(ctx,
		bson.M{"_id": settingsDocID},
		m,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("folio/mongo: save settings: %w", err)
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

// containsRegex matches term as a case-insensitive literal substring.
func containsRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all folio collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colProducts: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "stock_milli", Value: 1}}},
		},
		colQuotations: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "customer", Value: 1}}},
			{Keys: bson.D{{Key: "source_quotation", Value: 1}}},
		},
		colCounters: {},
		colSettings: {},
	}
}
