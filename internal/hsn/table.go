// Package hsn holds the static HSN rate table used as the guaranteed fallback
// for GST rate resolution.
package hsn

import (
	"log"
	"sort"
	"strings"

	"gstrate/internal/domain"
	"gstrate/internal/port"
)

type rateEntry struct {
	rate        float64
	description string
}

// Table provides in-memory lookups of GST rates by HSN code or product
// category. It is immutable after construction and safe for concurrent access.
type Table struct {
	byCode         map[string]rateEntry
	categories     map[string]categoryEntry
	prefixFallback bool
}

// Option configures a Table.
type Option func(*Table)

// WithPrefixFallback makes Lookup fall back from an 8 or 6 digit code to its
// 6 and 4 digit headings when the exact code is absent. Off by default:
// absent codes otherwise get the default rate.
func WithPrefixFallback() Option {
	return func(t *Table) {
		t.prefixFallback = true
	}
}

type categoryEntry struct {
	name string
	code string
}

// CategoryMismatch reports a category mapped to an HSN code that the rate
// table does not contain.
type CategoryMismatch struct {
	Category string `json:"category"`
	HSNCode  string `json:"hsn_code"`
}

// NewTable builds a Table. The first entry for a code wins; later duplicates
// are ignored.
func NewTable(entries []port.HSNEntry, categories []port.CategoryMapping, opts ...Option) *Table {
	t := &Table{
		byCode:     make(map[string]rateEntry, len(entries)),
		categories: make(map[string]categoryEntry, len(categories)),
	}
	for _, opt := range opts {
		opt(t)
	}
	dupes := 0
	for idx := range entries {
		e := &entries[idx]
		code := strings.TrimSpace(e.Code)
		if _, ok := t.byCode[code]; ok {
			dupes++
			continue
		}
		t.byCode[code] = rateEntry{rate: e.GSTRate, description: e.Description}
	}
	if dupes > 0 {
		log.Printf("hsn.NewTable: ignored %d duplicate HSN entries", dupes)
	}
	for idx := range categories {
		c := &categories[idx]
		t.categories[normalizeCategory(c.Category)] = categoryEntry{
			name: strings.TrimSpace(c.Category),
			code: strings.TrimSpace(c.HSNCode),
		}
	}
	return t
}

// Default returns a Table over the compiled-in HSN master and category mapping.
func Default(opts ...Option) *Table {
	return NewTable(defaultEntries, defaultCategories, opts...)
}

// Len returns the number of HSN codes in the table.
func (t *Table) Len() int {
	return len(t.byCode)
}

// Lookup returns the rate entry for code. Codes not in the table get the
// default 18% entry carrying the input code, unless the table was built
// WithPrefixFallback and a shorter heading matches.
func (t *Table) Lookup(code string) domain.HSNRateEntry {
	if e, ok := t.find(code); ok {
		return domain.HSNRateEntry{
			HSN:         code,
			Rate:        e.rate,
			Description: e.description,
			Source:      domain.RateSourceTable,
		}
	}
	return defaultEntry(code)
}

// LookupByCategory maps category to its HSN code and looks that up.
// Unmapped categories get the default entry with a placeholder HSN code.
func (t *Table) LookupByCategory(category string) domain.HSNRateEntry {
	code, ok := t.CategoryHSN(category)
	if !ok {
		return defaultEntry(domain.PlaceholderHSN)
	}
	return t.Lookup(code)
}

// CategoryHSN returns the HSN code mapped to category (case-insensitive).
func (t *Table) CategoryHSN(category string) (string, bool) {
	c, ok := t.categories[normalizeCategory(category)]
	return c.code, ok
}

// ValidateCategories returns every category whose HSN code cannot be found in
// the table, sorted by category name.
func (t *Table) ValidateCategories() []CategoryMismatch {
	var out []CategoryMismatch
	for _, c := range t.categories {
		if _, ok := t.find(c.code); !ok {
			out = append(out, CategoryMismatch{Category: c.name, HSNCode: c.code})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func (t *Table) find(code string) (rateEntry, bool) {
	if len(t.byCode) == 0 || code == "" {
		return rateEntry{}, false
	}
	if e, ok := t.byCode[code]; ok {
		return e, true
	}
	if !t.prefixFallback {
		return rateEntry{}, false
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if e, ok := t.byCode[code[:prefixLen]]; ok {
				return e, true
			}
		}
	}
	return rateEntry{}, false
}

func defaultEntry(code string) domain.HSNRateEntry {
	return domain.HSNRateEntry{
		HSN:         code,
		Rate:        domain.DefaultGSTRate,
		Description: domain.DefaultDescription,
		Source:      domain.RateSourceDefault,
	}
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
