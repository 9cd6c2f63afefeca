package audithook

import "log/slog"

// Option configures an Extension.
type Option func(*Extension)

// WithLogger sets the logger used when the recorder fails.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extension) {
		e.logger = logger
	}
}

// WithEnabledActions restricts auditing to actions. Without it every
// action is recorded.
func WithEnabledActions(actions ...string) Option {
	return func(e *Extension) {
		e.enabled = make(map[string]bool, len(actions))
		for _, action := range actions {
			e.enabled[action] = true
		}
	}
}

// WithDisabledActions records everything except actions.
func WithDisabledActions(actions ...string) Option {
	return func(e *Extension) {
		if e.enabled == nil {
			e.enabled = make(map[string]bool)
			for _, action := range allActions() {
				e.enabled[action] = true
			}
		}
		for _, action := range actions {
			delete(e.enabled, action)
		}
	}
}

// WithMetadata adds fixed key/value pairs to every event, e.g. the
// issuing company or system name.
func WithMetadata(kvPairs ...any) Option {
	return func(e *Extension) {
		e.static = append(e.static, kvPairs...)
	}
}

// allActions returns all known audit actions.
func allActions() []string {
	return []string{
		ActionProductSaved,
		ActionProductDeleted,
		ActionStockLow,
		ActionQuotationCreated,
		ActionQuotationConverted,
		ActionInvoiceIssued,
		ActionDocumentFailed,
		ActionNumberIssued,
		ActionSettingsUpdated,
	}
}
