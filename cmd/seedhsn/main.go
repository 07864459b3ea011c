// Command seedhsn converts the GST HSN/SAC rate workbook into a SQL seed
// file for the hsn_codes and category_hsn tables. Category mappings come
// from the compiled-in table.
//
// Usage: go run ./cmd/seedhsn -in rates.xlsx -out db/seeds/hsn_codes.sql
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gstrate/internal/hsn"
	"gstrate/internal/hsnimport"
)

const batchSize = 500

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "GST_HSN_Code_summary.xlsx", "path to the HSN/SAC workbook")
	out := flag.String("out", "db/seeds/hsn_codes.sql", "path of the generated SQL file")
	flag.Parse()

	entries, err := hsnimport.Open(*in)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no HSN entries found in %s", *in)
	}
	log.Printf("Parsed %d HSN/SAC codes from %s", len(entries), *in)

	// Codes the storefront categories depend on must exist even when the
	// workbook omits them.
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Code] = true
	}
	for _, e := range hsn.DefaultEntries() {
		if !known[e.Code] {
			entries = append(entries, e)
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := hsnimport.WriteSQL(f, entries, hsn.DefaultCategories(), batchSize); err != nil {
		return fmt.Errorf("write seed SQL: %w", err)
	}

	log.Printf("Generated %d codes (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, *out)
	return nil
}
