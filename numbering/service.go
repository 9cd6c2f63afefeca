// Package numbering issues human-readable document identifiers from a
// template and a persisted per-kind counter.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Kind names an independent numbering sequence.
type Kind string

const (
	KindInvoice   Kind = "invoice"
	KindQuotation Kind = "quotation"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	return k == KindInvoice || k == KindQuotation
}

var (
	ErrMissingSequence = errors.New("folio: numbering template has no sequence placeholder")
	ErrUnknownKind     = errors.New("folio: unknown document kind")
	ErrCounter         = errors.New("folio: numbering counter unavailable")
)

// State is the numbering configuration and position for one kind.
type State struct {
	Kind       Kind     `json:"kind"`
	Prefix     string   `json:"prefix"`
	Template   Template `json:"template"`
	LastIssued int64    `json:"last_issued"`
}

// Service produces identifiers. Issue is serialized per kind in-process and
// relies on Store.AdvanceCounter for atomicity across processes.
type Service struct {
	store  Store
	source TemplateSource
	clock  func() time.Time

	mu    sync.Mutex
	locks map[Kind]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for the {year} placeholder.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a numbering service.
func NewService(store Store, source TemplateSource, opts ...Option) *Service {
	s := &Service{
		store:  store,
		source: source,
		clock:  time.Now,
		locks:  make(map[Kind]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the configuration and last issued value for kind.
func (s *Service) State(ctx context.Context, kind Kind) (*State, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	prefix, tmpl, err := s.source.NumberingTemplate(ctx, kind)
	if err != nil {
		return nil, err
	}
	last, err := s.store.LastIssued(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s counter: %w", ErrCounter, kind, err)
	}
	return &State{Kind: kind, Prefix: prefix, Template: tmpl, LastIssued: last}, nil
}

// PeekNext returns the identifier the next Issue would produce if nothing
// else issues first. It never changes state.
func (s *Service) PeekNext(ctx context.Context, kind Kind) (string, error) {
	st, err := s.State(ctx, kind)
	if err != nil {
		return "", err
	}
	return st.Template.Format(st.Prefix, s.clock().Year(), st.LastIssued+1)
}

// Issue advances the counter for kind and returns the formatted identifier.
// The template is validated before the counter moves, and no identifier is
// returned unless the advance was stored.
func (s *Service) Issue(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	prefix, tmpl, err := s.source.NumberingTemplate(ctx, kind)
	if err != nil {
		return "", err
	}
	if err := tmpl.Validate(); err != nil {
		return "", err
	}

	lock := s.kindLock(kind)
	lock.Lock()
	defer lock.Unlock()

	seq, err := s.store.AdvanceCounter(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("%w: advance %s counter: %w", ErrCounter, kind, err)
	}
	return tmpl.Format(prefix, s.clock().Year(), seq)
}

func (s *Service) kindLock(kind Kind) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[kind]
	if !ok {
		l = new(sync.Mutex)
		s.locks[kind] = l
	}
	return l
}
