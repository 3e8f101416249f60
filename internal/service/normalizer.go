package service

import (
	"fmt"
	"strings"

	"github.com/kontim1983-hub/leasing-app/internal/model"

	"github.com/shopspring/decimal"
)

// RawRow is one parsed sheet row handed over by the spreadsheet collaborator:
// cell values keyed by schema field name, plus photo links collected from the
// generation's photo columns. Line is the 1-based sheet row number.
type RawRow struct {
	Line   int
	Cells  map[string]string
	Photos []string
}

// RowError is a row-level validation failure. It is collected into the
// upload summary and never aborts the batch.
type RowError struct {
	Line  int
	Field string
	Msg   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Line, e.Field, e.Msg)
}

// NormalizeRow converts a raw sheet row into a typed candidate for one
// generation. The VIN is trimmed and upper-cased; a missing VIN fails the
// row. The price cell tolerates locale formatting (spaces or apostrophes as
// thousands separators, comma decimals); an empty cell means zero, anything
// else unparseable fails the row. No side effects.
func NormalizeRow(sch model.Schema, row RawRow) (Candidate, error) {
	vin := strings.ToUpper(strings.TrimSpace(row.Cells[sch.KeyField]))
	if vin == "" {
		return Candidate{}, &RowError{Line: row.Line, Field: sch.KeyField, Msg: "empty key cell"}
	}

	price := decimal.Zero
	if raw := strings.TrimSpace(row.Cells[sch.PriceField]); raw != "" {
		parsed, err := parseNumber(raw)
		if err != nil {
			return Candidate{}, &RowError{Line: row.Line, Field: sch.PriceField, Msg: fmt.Sprintf("unparseable number %q", raw)}
		}
		price = parsed
	}

	fields := make(map[string]string, len(sch.Fields))
	for _, f := range sch.AttributeFields() {
		fields[f.Name] = strings.TrimSpace(row.Cells[f.Name])
	}
	if sch.DefaultStatus != "" && fields["status"] == "" {
		fields["status"] = sch.DefaultStatus
	}

	photos := make([]string, 0, len(row.Photos))
	for _, p := range row.Photos {
		if link := strings.TrimSpace(p); link != "" {
			photos = append(photos, link)
		}
	}

	return Candidate{
		Line:   row.Line,
		VIN:    vin,
		Fields: fields,
		Price:  price,
		Photos: photos,
	}, nil
}

// parseNumber parses a possibly locale-formatted numeric string:
// "1 234 567,89", "1'234'567.89" and "1,234,567.89" all yield 1234567.89.
func parseNumber(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// Both present: comma is a thousands separator.
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// Comma only: decimal comma.
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	return decimal.NewFromString(s)
}
