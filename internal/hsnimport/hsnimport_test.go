package hsnimport_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gstrate/internal/hsnimport"
	"gstrate/internal/port"
)

func goodsRow(code4, desc4, code6, desc6, code8, desc8 string, rate interface{}) []interface{} {
	row := make([]interface{}, 14)
	row[5], row[7] = code4, desc4
	row[8], row[9] = code6, desc6
	row[10], row[12] = code8, desc8
	row[13] = rate
	return row
}

func newWorkbook(t *testing.T, withSAC bool) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	goods := f.GetSheetName(0)

	rows := [][]interface{}{
		goodsRow("8471", "Computers", "847130", "Portable computers", "84713010", "Laptops", "18%"),
		goodsRow("4901", "Printed books", "", "", "", "", "0%"),
		goodsRow("0902", "Tea", "", "", "", "", 0.05),
		goodsRow("7102", "Diamonds", "", "", "", "", "0.25%"),
		goodsRow("ABCD", "Not a code", "", "", "", "", "18%"),
		goodsRow("3004", "Medicaments", "", "", "", "", ""),
		goodsRow("8471", "Duplicate", "", "", "", "", "28%"),
		goodsRow("7108", "Gold", "", "", "", "", "0.25"),
		goodsRow("6109", "T-shirts", "", "", "", "", 5),
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, 6+i)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(goods, cell, &row))
	}

	// Tea's rate is a numeric fraction shown through a percent format.
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 9})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(goods, "N8", "N8", pct))

	if withSAC {
		_, err := f.NewSheet(hsnimport.SACSheet)
		require.NoError(t, err)
		sacRows := [][]interface{}{
			{"9954", "Construction services", "995411", "Residential construction", "12%-18%"},
			{"9992", "Education services", "", "", "Exempt"},
			{"9997", "Other services", "", "", "see notification"},
		}
		for i, row := range sacRows {
			cell, err := excelize.CoordinatesToCellName(1, 4+i)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(hsnimport.SACSheet, cell, &row))
		}
	}
	return f
}

func byCode(entries []port.HSNEntry) map[string]port.HSNEntry {
	out := make(map[string]port.HSNEntry, len(entries))
	for _, e := range entries {
		out[e.Code] = e
	}
	return out
}

func TestParse_GoodsSheet(t *testing.T) {
	entries, err := hsnimport.Parse(newWorkbook(t, false))
	require.NoError(t, err)

	codes := byCode(entries)
	assert.Len(t, entries, 8)

	assert.Equal(t, 18.0, codes["84713010"].GSTRate)
	assert.Equal(t, "Laptops", codes["84713010"].Description)
	assert.Equal(t, 18.0, codes["847130"].GSTRate)
	assert.Equal(t, "Computers", codes["8471"].Description, "first row for a code wins")
	assert.Equal(t, 18.0, codes["8471"].GSTRate)
	assert.Equal(t, 0.0, codes["4901"].GSTRate)
	assert.Equal(t, 5.0, codes["0902"].GSTRate, "percent-formatted fractions are scaled")
	assert.Equal(t, 0.25, codes["7102"].GSTRate)
	assert.Equal(t, 0.25, codes["7108"].GSTRate, "plain text rates are taken as written")
	assert.Equal(t, 5.0, codes["6109"].GSTRate)

	_, ok := codes["ABCD"]
	assert.False(t, ok)
	_, ok = codes["3004"]
	assert.False(t, ok, "rows without a rate are skipped")
}

func TestParse_SACSheet(t *testing.T) {
	entries, err := hsnimport.Parse(newWorkbook(t, true))
	require.NoError(t, err)

	codes := byCode(entries)
	assert.Equal(t, 12.0, codes["995411"].GSTRate)
	assert.Equal(t, 12.0, codes["9954"].GSTRate)
	assert.Equal(t, 0.0, codes["9992"].GSTRate)
	_, ok := codes["9997"]
	assert.False(t, ok)
}

func TestParseSACRate(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
	}{
		{"18%", []float64{18}},
		{"Exempt", []float64{0}},
		{"nil", []float64{0}},
		{"0%", []float64{0}},
		{"12%-18%", []float64{12, 18}},
		{"1% (without ITC) or 5% (without ITC)", []float64{1, 5}},
		{"5% or 5%", []float64{5}},
		{"", nil},
		{"see notification", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, hsnimport.ParseSACRate(tt.in))
		})
	}
}

func TestWriteSQL(t *testing.T) {
	entries := []port.HSNEntry{
		{Code: "8471", Description: "Computers", GSTRate: 18},
		{Code: "6203", Description: "Men's suits", GSTRate: 12},
		{Code: "4901", Description: "Books", GSTRate: 0},
	}
	categories := []port.CategoryMapping{{Category: "Laptops", HSNCode: "8471"}}

	var buf bytes.Buffer
	require.NoError(t, hsnimport.WriteSQL(&buf, entries, categories, 2))
	sql := buf.String()

	assert.Contains(t, sql, "BEGIN;")
	assert.Contains(t, sql, "COMMIT;")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("INSERT INTO hsn_codes")))
	assert.Contains(t, sql, "('8471', 'Computers', 18.00, '2017-07-01')")
	assert.Contains(t, sql, "'Men''s suits'")
	assert.Contains(t, sql, "INSERT INTO category_hsn (category, hsn_code) VALUES\n  ('Laptops', '8471')")
	assert.Contains(t, sql, "ON CONFLICT (code, effective_from) DO NOTHING;")
}
