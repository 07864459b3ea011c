package csvexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrate/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 6)
	assert.Equal(t, "GST Rate", row[0])
	assert.Equal(t, "Tax Amount", row[5])
}

func TestWriteBreakdown(t *testing.T) {
	view := domain.TaxBreakdownView{
		Buckets: []domain.TaxBucketView{
			{Rate: 5, Amount: 25, Taxable: 500, HSN: "1006", Description: "Rice", Lines: 2},
			{Rate: 18, Amount: 180, Taxable: 1000, HSN: "8471", Description: "Computers, laptops", Lines: 1},
		},
		TotalTax: 205,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteBreakdown(view))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"5%", "1006", "Rice", "2", "500.00", "25.00"}, records[1])
	assert.Equal(t, []string{"18%", "8471", "Computers, laptops", "1", "1000.00", "180.00"}, records[2])
	assert.Equal(t, []string{"Total", "", "", "3", "1500.00", "205.00"}, records[3])
}

func TestWriteBreakdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteBreakdown(domain.TaxBreakdownView{Buckets: []domain.TaxBucketView{}}))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Total", "", "", "0", "0.00", "0.00"}, records[0])
}

func TestWriteBreakdown_FractionalRate(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteBreakdown(domain.TaxBreakdownView{
		Buckets:  []domain.TaxBucketView{{Rate: 0.25, Amount: 2.5, Taxable: 1000, HSN: "7102", Lines: 1}},
		TotalTax: 2.5,
	}))
	w.Flush()

	assert.True(t, strings.HasPrefix(buf.String(), "0.25%,7102,"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "order-42", "order-42"},
		{"spaces", "Order 42 March", "Order_42_March"},
		{"special chars", "Order #42 (draft)!", "Order_42_draft"},
		{"consecutive specials", "a///b", "a_b"},
		{"only specials", "!!!", ""},
		{"truncation", strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "order_42_2025-03-09.csv", BuildFilename("order 42", now))
	assert.Equal(t, "gst_breakdown_2025-03-09.csv", BuildFilename("", now))
}
