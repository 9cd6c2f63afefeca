// Package extension provides the Forge extension adapter for Folio.
//
// It implements the forge.Extension interface to integrate Folio
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.folio" or "folio" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/folio"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "folio"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Invoicing and quotation engine with stock control"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Folio as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config    Config
	engine    *folio.Folio
	store     store.Store
	folioOpts []folio.Option
}

// New creates a new Folio Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Folio instance.
// This is nil until Register is called.
func (e *Extension) Engine() *folio.Folio { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the folio engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}
	if err := numbering.Template(e.config.NumberTemplate).Validate(); err != nil {
		return fmt.Errorf("folio: number_template %q: %w", e.config.NumberTemplate, err)
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	e.engine = folio.New(e.store, e.buildFolioOpts()...)

	return vessel.Provide(fapp.Container(), func() (*folio.Folio, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("folio: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("folio: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildFolioOpts constructs folio.Option values from the resolved config.
// Pass-through options come last so they win over config-derived ones.
func (e *Extension) buildFolioOpts() []folio.Option {
	opts := make([]folio.Option, 0, len(e.folioOpts)+1)
	opts = append(opts, folio.WithDefaultSettings(e.config.Settings()))
	return append(opts, e.folioOpts...)
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("folio: configuration is required but not found in config files; " +
				"ensure 'extensions.folio' or 'folio' key exists in your config")
		}
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("folio: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("currency", e.config.Currency),
		forge.F("number_template", e.config.NumberTemplate),
		forge.F("apply_invoice_tax", e.config.ApplyInvoiceTax),
		forge.F("default_tax_rate", e.config.DefaultTaxRate),
		forge.F("low_stock_threshold", e.config.LowStockThreshold),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.folio", "folio"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("folio: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("folio: loaded config from file", forge.F("key", key))
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.InvoicePrefix == "" {
		cfg.InvoicePrefix = defaults.InvoicePrefix
	}
	if cfg.QuotationPrefix == "" {
		cfg.QuotationPrefix = defaults.QuotationPrefix
	}
	if cfg.NumberTemplate == "" {
		cfg.NumberTemplate = defaults.NumberTemplate
	}
	if cfg.DefaultTaxRate == 0 {
		cfg.DefaultTaxRate = defaults.DefaultTaxRate
	}
	if cfg.LowStockThreshold == 0 {
		cfg.LowStockThreshold = defaults.LowStockThreshold
	}
	if cfg.CompanyName == "" {
		cfg.CompanyName = defaults.CompanyName
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps and
// programmatic bool flags override when true.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.ApplyInvoiceTax {
		yamlConfig.ApplyInvoiceTax = true
	}

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&yamlConfig.Currency, programmaticConfig.Currency)
	fill(&yamlConfig.InvoicePrefix, programmaticConfig.InvoicePrefix)
	fill(&yamlConfig.QuotationPrefix, programmaticConfig.QuotationPrefix)
	fill(&yamlConfig.NumberTemplate, programmaticConfig.NumberTemplate)
	fill(&yamlConfig.CompanyName, programmaticConfig.CompanyName)

	if yamlConfig.DefaultTaxRate == 0 && programmaticConfig.DefaultTaxRate != 0 {
		yamlConfig.DefaultTaxRate = programmaticConfig.DefaultTaxRate
	}
	if yamlConfig.LowStockThreshold == 0 && programmaticConfig.LowStockThreshold != 0 {
		yamlConfig.LowStockThreshold = programmaticConfig.LowStockThreshold
	}

	return mergeWithDefaults(yamlConfig)
}
