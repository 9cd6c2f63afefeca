package folio

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/store"
)

// Folio is the document lifecycle engine: it turns requested line items into
// quotations and invoices, keeping stock and numbering consistent.
type Folio struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	defaults settings.Settings
	settings *settings.Provider
	numbers  *numbering.Service
	locks    *keyedLocker
}

// New creates a new Folio instance.
func New(s store.Store, opts ...Option) *Folio {
	f := &Folio{
		store:    s,
		plugins:  plugin.NewRegistry(),
		logger:   slog.Default(),
		clock:    time.Now,
		defaults: settings.Defaults(),
		locks:    newKeyedLocker(),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.settings = settings.NewProvider(s, f.defaults)
	f.numbers = numbering.NewService(s, f.settings, numbering.WithClock(f.clock))

	return f
}

// Option configures a Folio instance.
type Option func(*Folio)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Folio) {
		f.logger = logger
		f.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(f *Folio) {
		_ = f.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source for document dates and the {year}
// numbering placeholder.
func WithClock(clock func() time.Time) Option {
	return func(f *Folio) { f.clock = clock }
}

// WithDefaultSettings sets the settings used until UpdateSettings stores a
// record.
func WithDefaultSettings(s settings.Settings) Option {
	return func(f *Folio) { f.defaults = s }
}

// Start migrates the store and initializes plugins.
func (f *Folio) Start(ctx context.Context) error {
	if err := f.store.Migrate(ctx); err != nil {
		return err
	}

	f.plugins.EmitInit(ctx, f)

	f.logger.Info("folio started",
		"plugins", f.plugins.Count(),
		"currency", f.defaults.Currency,
	)
	return nil
}

// Stop shuts down plugins and closes the store.
func (f *Folio) Stop() error {
	f.plugins.EmitShutdown(context.Background())
	return f.store.Close()
}

// Store returns the underlying store.
func (f *Folio) Store() store.Store { return f.store }

// Plugins returns the plugin registry.
func (f *Folio) Plugins() *plugin.Registry { return f.plugins }

func (f *Folio) now() time.Time { return f.clock().UTC() }

// fail classifies err and reports storage failures to plugins.
func (f *Folio) fail(ctx context.Context, kind numbering.Kind, op string, err error) error {
	e := classify(op, err)
	if KindOf(e) == KindStorage {
		f.plugins.EmitDocumentFailed(ctx, kind, op, e)
	}
	return e
}
