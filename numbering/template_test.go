package numbering

import (
	"errors"
	"reflect"
	"testing"
)

func TestTemplateFormat(t *testing.T) {
	tests := []struct {
		name   string
		tmpl   Template
		prefix string
		year   int
		seq    int64
		want   string
	}{
		{"default first invoice", DefaultTemplate, "FAC", 2026, 1, "FAC-2026-0001"},
		{"quotation prefix", DefaultTemplate, "COT", 2026, 42, "COT-2026-0042"},
		{"wider than padding", DefaultTemplate, "FAC", 2026, 123456, "FAC-2026-123456"},
		{"unpadded sequence", "{prefix}{sequence}", "F", 2025, 7, "F7"},
		{"custom padding", "{year}/{sequence:06d}", "", 2024, 15, "2024/000015"},
		{"unknown placeholder kept", "{prefix}-{branch}-{sequence}", "FAC", 2026, 3, "FAC-{branch}-3"},
		{"prefix with braces not re-expanded", "{prefix}-{sequence}", "{year}", 2026, 1, "{year}-1"},
		{"repeated placeholder", "{sequence}-{sequence:02d}", "", 2026, 5, "5-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.tmpl.Format(tt.prefix, tt.year, tt.seq)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateMissingSequence(t *testing.T) {
	for _, tmpl := range []Template{"", "{prefix}-{year}", "{sequence:abc}", "sequence"} {
		t.Run(string(tmpl), func(t *testing.T) {
			if err := tmpl.Validate(); !errors.Is(err, ErrMissingSequence) {
				t.Errorf("Validate() = %v, want ErrMissingSequence", err)
			}
			if _, err := tmpl.Format("FAC", 2026, 1); !errors.Is(err, ErrMissingSequence) {
				t.Errorf("Format() = %v, want ErrMissingSequence", err)
			}
		})
	}
}

func TestTemplateUnknownPlaceholders(t *testing.T) {
	got := Template("{prefix}-{branch}-{year}-{sequence:04d}-{x}").UnknownPlaceholders()
	want := []string{"{branch}", "{x}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := DefaultTemplate.UnknownPlaceholders(); len(got) != 0 {
		t.Errorf("default template reported %v", got)
	}
}
