package numbering

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultTemplate renders FAC-2026-0001 style identifiers.
const DefaultTemplate Template = "{prefix}-{year}-{sequence:04d}"

var (
	placeholderRE = regexp.MustCompile(`\{([^{}]*)\}`)
	paddedSeqRE   = regexp.MustCompile(`^sequence:0([1-9])d$`)
)

// Template is a document number layout. Recognized placeholders are
// {prefix}, {year}, {sequence} and {sequence:0Nd} (zero padded to at least
// N digits). Anything else in braces is copied through untouched.
type Template string

// Validate reports ErrMissingSequence when the template cannot produce
// distinct identifiers.
func (t Template) Validate() error {
	for _, name := range t.placeholders() {
		if name == "sequence" || paddedSeqRE.MatchString(name) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrMissingSequence, string(t))
}

// UnknownPlaceholders lists brace expressions Format leaves as literal text.
func (t Template) UnknownPlaceholders() []string {
	var unknown []string
	for _, name := range t.placeholders() {
		switch {
		case name == "prefix", name == "year", name == "sequence":
		case paddedSeqRE.MatchString(name):
		default:
			unknown = append(unknown, "{"+name+"}")
		}
	}
	return unknown
}

// Format substitutes every placeholder in a single pass, so values that
// themselves contain braces are never expanded again.
func (t Template) Format(prefix string, year int, seq int64) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	out := placeholderRE.ReplaceAllStringFunc(string(t), func(match string) string {
		name := match[1 : len(match)-1]
		switch name {
		case "prefix":
			return prefix
		case "year":
			return strconv.Itoa(year)
		case "sequence":
			return strconv.FormatInt(seq, 10)
		}
		if m := paddedSeqRE.FindStringSubmatch(name); m != nil {
			width, _ := strconv.Atoi(m[1]) //nolint:errcheck // single digit guaranteed by the pattern
			return fmt.Sprintf("%0*d", width, seq)
		}
		return match
	})
	return out, nil
}

func (t Template) placeholders() []string {
	matches := placeholderRE.FindAllStringSubmatch(string(t), -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
