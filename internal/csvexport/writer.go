package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gstrate/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"GST Rate",
	"HSN Code",
	"Description",
	"Lines",
	"Taxable Amount",
	"Tax Amount",
}

// Writer wraps csv.Writer for exporting GST breakdowns as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteBreakdown writes one row per rate bucket followed by a total row.
// Amounts come from the rounded view so the file matches the JSON response.
func (w *Writer) WriteBreakdown(view domain.TaxBreakdownView) error {
	var taxable float64
	lines := 0
	for i := range view.Buckets {
		b := &view.Buckets[i]
		if err := w.csv.Write(bucketToRow(b)); err != nil {
			return err
		}
		taxable += b.Taxable
		lines += b.Lines
	}
	total := make([]string, len(columns))
	total[0] = "Total"
	total[3] = strconv.Itoa(lines)
	total[4] = formatMoney(domain.RoundPaise(taxable))
	total[5] = formatMoney(view.TotalTax)
	return w.csv.Write(total)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func bucketToRow(b *domain.TaxBucketView) []string {
	row := make([]string, len(columns))
	row[0] = formatRate(b.Rate)
	row[1] = b.HSN
	row[2] = b.Description
	row[3] = strconv.Itoa(b.Lines)
	row[4] = formatMoney(b.Taxable)
	row[5] = formatMoney(b.Amount)
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a caller-supplied reference for use in
// Content-Disposition. Replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {reference}_{YYYY-MM-DD}.csv, or gst_breakdown_{date}.csv
// when the reference sanitizes to nothing.
func BuildFilename(reference string, now time.Time) string {
	sanitized := SanitizeFilename(reference)
	if sanitized == "" {
		sanitized = "gst_breakdown"
	}
	return fmt.Sprintf("%s_%s.csv", sanitized, now.Format("2006-01-02"))
}
