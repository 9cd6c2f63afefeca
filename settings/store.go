package settings

import "context"

// Store persists the single settings record. GetSettings returns
// ErrNotFound until SaveSettings has been called once.
type Store interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error
}
