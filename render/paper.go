// Package render produces plain-text documents for printing and preview.
package render

import (
	"errors"
	"strings"
)

var ErrUnknownPaper = errors.New("folio: unknown paper format")

type Margins struct {
	Top, Bottom, Left, Right float64
}

// Paper is a printable page size in millimetres.
type Paper struct {
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Margins  Margins `json:"margins"`
}

var (
	PaperNormal = Paper{
		Name: "normal", Label: "Papel Normal (A4)",
		WidthMM: 210, HeightMM: 297,
		Margins: Margins{Top: 15, Bottom: 15, Left: 15, Right: 15},
	}
	PaperThermal = Paper{
		Name: "thermal", Label: "Papel Térmico (80mm)",
		WidthMM: 80, HeightMM: 297,
		Margins: Margins{Top: 10, Bottom: 10, Left: 5, Right: 5},
	}
	PaperLetter = Paper{
		Name: "letter", Label: "Papel Carta (8.5x11)",
		WidthMM: 216, HeightMM: 279,
		Margins: Margins{Top: 25, Bottom: 25, Left: 25, Right: 25},
	}
)

// Papers lists the supported formats.
func Papers() []Paper {
	return []Paper{PaperNormal, PaperThermal, PaperLetter}
}

// PaperByName returns the paper called name. An empty name selects
// PaperNormal.
func PaperByName(name string) (Paper, error) {
	if name == "" {
		return PaperNormal, nil
	}
	for _, p := range Papers() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Paper{}, ErrUnknownPaper
}

// Columns is the printable width in characters, two millimetres per
// character.
func (p Paper) Columns() int {
	return int((p.WidthMM - p.Margins.Left - p.Margins.Right) / 2)
}
