package converters

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const upstreamDateLayout = "2/1/2006"

// ParseDate converts a DD/MM/YYYY date into midnight UTC of that calendar
// day. Blank, malformed or impossible dates (31/02/2024) yield nil.
func ParseDate(cell string) *time.Time {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.Count(cell, "/") != 2 {
		return nil
	}
	t, err := time.ParseInLocation(upstreamDateLayout, cell, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ParseLocaleDecimal parses a pt-BR formatted number ("1.234,56") into a
// decimal. Blank or unparseable input yields exactly zero.
func ParseLocaleDecimal(cell string) decimal.Decimal {
	d, err := ParseLocale(cell)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseLocale is ParseLocaleDecimal with the failure reported. A value
// without a comma is read as a plain decimal ("12.5").
func ParseLocale(cell string) (decimal.Decimal, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return decimal.Zero, errors.New("empty number")
	}
	if strings.Contains(cell, ",") {
		cell = strings.ReplaceAll(cell, ".", "")
		cell = strings.Replace(cell, ",", ".", 1)
	}
	return decimal.NewFromString(cell)
}

// FormatDate renders a validity date the way the API serves it, empty for
// a missing date.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
