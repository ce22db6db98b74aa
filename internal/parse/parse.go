// Package parse converts loosely-typed spreadsheet text into numbers and
// dates. Every parser fails open: unparsable input yields a safe zero value
// (or nil for dates), never an error, because upstream sheets are messy and
// a bad cell must not take down a whole report.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var currencySymbols = regexp.MustCompile(`(?i)(R\$|US\$|\$|€|£|BRL|USD)`)

// Currency parses a currency amount from loose text. Strips currency
// symbols and thousands separators and accepts comma as the decimal
// separator ("R$ 1.234,56" → 1234.56, "$1,234.56" → 1234.56).
// Unparsable input yields 0.
func Currency(text string) float64 {
	s := currencySymbols.ReplaceAllString(strings.TrimSpace(text), "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// Comma decimal: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma:
		// Dot decimal: commas are thousands separators.
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.ReplaceAll(s, " ", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Percentage parses a percentage from loose text ("85%", "85,5 %").
// Unparsable input yields 0.
func Percentage(text string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	return Currency(s)
}

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/06",
}

// FlexibleDate parses DD/MM/YYYY, ISO YYYY-MM-DD, or DD/MM/YY. Ambiguous or
// unparsable text returns nil; callers must treat nil as "pass date filter"
// so a malformed cell never silently drops a record.
func FlexibleDate(text string) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	// Datetime cells: keep only the date part.
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
