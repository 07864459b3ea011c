// Package hsnimport reads the GST HSN/SAC rate workbook published by CBIC
// and renders it as seed SQL for the hsn_codes and category_hsn tables.
package hsnimport

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"gstrate/internal/port"
)

// SACSheet is the name of the services sheet. The goods sheet is always the
// first sheet in the workbook.
const SACSheet = "SAC_Master"

// Goods sheet layout: F=4-digit code, H=4-digit desc, I=6-digit code,
// J=6-digit desc, K=8-digit code, M=8-digit desc, N=GST rate.
const (
	hsnFirstRow  = 5
	hsnCol4      = 5
	hsnDesc4     = 7
	hsnCol6      = 8
	hsnDesc6     = 9
	hsnCol8      = 10
	hsnDesc8     = 12
	hsnRateCol   = 13
	sacFirstRow  = 3
	sacCol4      = 0
	sacDesc4     = 1
	sacCol6      = 2
	sacDesc6     = 3
	sacRateCol   = 4
	effectiveDay = "2017-07-01"
)

var (
	codePattern = regexp.MustCompile(`^[0-9]{4,8}$`)
	ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
)

// Open reads the workbook at path.
func Open(path string) ([]port.HSNEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse extracts HSN and SAC entries from an open workbook. Each code is kept
// once; the most specific row seen first wins. The SAC sheet is optional.
func Parse(f *excelize.File) ([]port.HSNEntry, error) {
	seen := make(map[string]bool)

	entries, err := parseHSNSheet(f, seen)
	if err != nil {
		return nil, fmt.Errorf("parse HSN sheet: %w", err)
	}

	if idx, _ := f.GetSheetIndex(SACSheet); idx >= 0 {
		sac, err := parseSACSheet(f, seen)
		if err != nil {
			return nil, fmt.Errorf("parse SAC sheet: %w", err)
		}
		entries = append(entries, sac...)
	}
	return entries, nil
}

func parseHSNSheet(f *excelize.File, seen map[string]bool) ([]port.HSNEntry, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var entries []port.HSNEntry
	for i := hsnFirstRow; i < len(rows); i++ {
		row := rows[i]
		rate, ok := goodsRate(f, sheet, i, cellVal(row, hsnRateCol))
		if !ok {
			continue
		}
		entries = addEntry(entries, seen, cellVal(row, hsnCol8), cellVal(row, hsnDesc8), rate)
		entries = addEntry(entries, seen, cellVal(row, hsnCol6), cellVal(row, hsnDesc6), rate)
		entries = addEntry(entries, seen, cellVal(row, hsnCol4), cellVal(row, hsnDesc4), rate)
	}
	return entries, nil
}

func parseSACSheet(f *excelize.File, seen map[string]bool) ([]port.HSNEntry, error) {
	rows, err := f.GetRows(SACSheet)
	if err != nil {
		return nil, err
	}

	var entries []port.HSNEntry
	for i := sacFirstRow; i < len(rows); i++ {
		row := rows[i]
		rates := ParseSACRate(cellVal(row, sacRateCol))
		if len(rates) == 0 {
			continue
		}
		// Conditional SAC rates list the standard rate first.
		entries = addEntry(entries, seen, cellVal(row, sacCol6), cellVal(row, sacDesc6), rates[0])
		entries = addEntry(entries, seen, cellVal(row, sacCol4), cellVal(row, sacDesc4), rates[0])
	}
	return entries, nil
}

// goodsRate reads the rate cell of row rowIdx. Numeric cells with a percent
// number format store a fraction (0.18 for 18%) and are read raw; everything
// else is taken as written, with or without a "%" suffix.
func goodsRate(f *excelize.File, sheet string, rowIdx int, display string) (float64, bool) {
	cell, err := excelize.CoordinatesToCellName(hsnRateCol+1, rowIdx+1)
	if err != nil || !isPercentFormat(f, sheet, cell) {
		return parseGoodsRate(display, false)
	}
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, false
	}
	if strings.HasSuffix(strings.TrimSpace(raw), "%") {
		return parseGoodsRate(raw, false)
	}
	return parseGoodsRate(raw, true)
}

func isPercentFormat(f *excelize.File, sheet, cell string) bool {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	// Built-in formats 9 and 10 are "0%" and "0.00%".
	if style.NumFmt == 9 || style.NumFmt == 10 {
		return true
	}
	return style.CustomNumFmt != nil && strings.Contains(*style.CustomNumFmt, "%")
}

func parseGoodsRate(s string, fraction bool) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0, false
	}
	rate, err := strconv.ParseFloat(s, 64)
	if err != nil || rate < 0 {
		return 0, false
	}
	if fraction {
		rate *= 100
	}
	if rate > 100 {
		return 0, false
	}
	return rate, true
}

// ParseSACRate extracts GST rates from the free-text SAC rate column.
//
//	"18%"                                   -> [18]
//	"Exempt", "Nil"                         -> [0]
//	"12%-18%"                               -> [12 18]
//	"1% (without ITC) or 5% (without ITC)" -> [1 5]
func ParseSACRate(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	switch strings.ToLower(s) {
	case "exempt", "nil":
		return []float64{0}
	}

	matches := ratePattern.FindAllStringSubmatch(s, -1)
	seen := make(map[float64]bool, len(matches))
	var rates []float64
	for _, m := range matches {
		rate, err := strconv.ParseFloat(m[1], 64)
		if err != nil || seen[rate] {
			continue
		}
		seen[rate] = true
		rates = append(rates, rate)
	}
	return rates
}

func addEntry(entries []port.HSNEntry, seen map[string]bool, code, description string, rate float64) []port.HSNEntry {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) || seen[code] {
		return entries
	}
	seen[code] = true
	return append(entries, port.HSNEntry{
		Code:        code,
		Description: strings.TrimSpace(description),
		GSTRate:     rate,
	})
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// WriteSQL renders entries and category mappings as idempotent INSERT
// statements in batches of batchSize rows.
func WriteSQL(w io.Writer, entries []port.HSNEntry, categories []port.CategoryMapping, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- HSN seed data: %d codes, %d category mappings.\n", len(entries), len(categories))
	b.WriteString("BEGIN;\n")

	for i := 0; i < len(entries); i += batchSize {
		end := min(i+batchSize, len(entries))
		b.WriteString("\nINSERT INTO hsn_codes (code, description, gst_rate, effective_from) VALUES\n")
		for j, e := range entries[i:end] {
			if j > 0 {
				b.WriteString(",\n")
			}
			fmt.Fprintf(&b, "  ('%s', '%s', %.2f, '%s')",
				escapeSQL(e.Code), escapeSQL(e.Description), e.GSTRate, effectiveDay)
		}
		b.WriteString("\nON CONFLICT (code, effective_from) DO NOTHING;\n")
	}

	if len(categories) > 0 {
		b.WriteString("\nINSERT INTO category_hsn (category, hsn_code) VALUES\n")
		for j, c := range categories {
			if j > 0 {
				b.WriteString(",\n")
			}
			fmt.Fprintf(&b, "  ('%s', '%s')", escapeSQL(c.Category), escapeSQL(c.HSNCode))
		}
		b.WriteString("\nON CONFLICT (category) DO UPDATE SET hsn_code = EXCLUDED.hsn_code;\n")
	}

	b.WriteString("\nCOMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
