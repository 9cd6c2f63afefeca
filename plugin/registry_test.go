package plugin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/render"
)

type recorder struct {
	name string

	mu     sync.Mutex
	issued []string
	fail   error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnNumberIssued(_ context.Context, _ numbering.Kind, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued = append(r.issued, number)
	return r.fail
}

type slowPlugin struct{}

func (slowPlugin) Name() string { return "slow" }

func (slowPlugin) OnInvoiceIssued(ctx context.Context, _ *invoice.Invoice) error {
	time.Sleep(200 * time.Millisecond)
	return nil
}

type csvFormatter struct{ name string }

func (f csvFormatter) Name() string   { return f.name }
func (f csvFormatter) Format() string { return "csv" }
func (f csvFormatter) Render(context.Context, render.Document, render.Paper, io.Writer) error {
	return nil
}

func quietRegistry() *Registry {
	return NewRegistry().WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterDuplicateName(t *testing.T) {
	r := quietRegistry()
	if err := r.Register(&recorder{name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&recorder{name: "a"}); err == nil {
		t.Error("duplicate name accepted")
	}
	if r.Count() != 1 {
		t.Errorf("count = %d", r.Count())
	}
}

func TestEmitReachesImplementers(t *testing.T) {
	r := quietRegistry()
	a := &recorder{name: "a"}
	b := &recorder{name: "b", fail: errors.New("ignored")}
	_ = r.Register(a)
	_ = r.Register(b)
	_ = r.Register(slowPlugin{})

	r.EmitNumberIssued(context.Background(), numbering.KindInvoice, "FAC-2026-0001")

	if len(a.issued) != 1 || len(b.issued) != 1 {
		t.Errorf("a=%v b=%v", a.issued, b.issued)
	}
}

func TestEmitTimeout(t *testing.T) {
	r := quietRegistry().WithTimeout(10 * time.Millisecond)
	_ = r.Register(slowPlugin{})

	start := time.Now()
	r.EmitInvoiceIssued(context.Background(), &invoice.Invoice{})
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("emit blocked for %v", elapsed)
	}
}

func TestFormatterRegistration(t *testing.T) {
	r := quietRegistry()
	if err := r.Register(csvFormatter{name: "csv-1"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(csvFormatter{name: "csv-2"}); err == nil {
		t.Error("second csv formatter accepted")
	}
	if r.Formatter("csv") == nil {
		t.Error("csv formatter not found")
	}
	if r.Formatter("pdf") != nil {
		t.Error("unexpected pdf formatter")
	}
}

func TestImplementedInterfaces(t *testing.T) {
	got := implementedInterfaces(&recorder{name: "x"})
	if len(got) != 1 || got[0] != "OnNumberIssued" {
		t.Errorf("got %v", got)
	}
}
