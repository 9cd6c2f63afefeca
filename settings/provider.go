package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/numbering"
)

// Provider reads the effective settings: the stored record when one
// exists, otherwise the configured defaults.
type Provider struct {
	store    Store
	defaults Settings
}

var _ numbering.TemplateSource = (*Provider)(nil)

// NewProvider creates a provider over store falling back to defaults.
func NewProvider(store Store, defaults Settings) *Provider {
	return &Provider{store: store, defaults: defaults}
}

// Current returns the effective settings.
func (p *Provider) Current(ctx context.Context) (*Settings, error) {
	s, err := p.store.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		d := p.defaults
		return &d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}
	return s, nil
}

// NumberingTemplate implements numbering.TemplateSource.
func (p *Provider) NumberingTemplate(ctx context.Context, kind numbering.Kind) (string, numbering.Template, error) {
	s, err := p.Current(ctx)
	if err != nil {
		return "", "", err
	}
	return s.Numbering(kind)
}

func (p *Provider) DefaultTaxRate(ctx context.Context) (decimal.Decimal, error) {
	s, err := p.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.DefaultTaxRate, nil
}
