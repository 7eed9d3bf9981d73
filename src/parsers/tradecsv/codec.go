// Package tradecsv reads and writes the trade ledger CSV interchange
// format: a header line naming columns, one record per line, dates as
// local YYYY-MM-DD and numeric columns as decimal text.
package tradecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/utils"
)

// Header is the canonical column order for exports. Imports are matched
// by header name, not position, so reordered or extended files still
// coerce the typed columns correctly.
var Header = []string{"date", "orderType", "sym", "unitPrice", "quantity", "fees"}

// numericColumns are coerced from text to float64 on parse.
var numericColumns = map[string]bool{"unitPrice": true, "quantity": true, "fees": true}

// ParseError reports structurally malformed CSV: unterminated quotes,
// inconsistent column counts, or an unreadable header.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("csv parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads CSV text into raw rows keyed by header name. Typed columns
// are coerced: "date" to a local calendar date, the numeric columns to
// float64, everything else stays a string. A value that fails coercion is
// left as its raw string so schema validation rejects the row with a
// precise wrong-type error rather than the parse aborting mid-file.
// Structural faults fail the whole parse.
func Parse(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &ParseError{Err: fmt.Errorf("empty input, expected a header line")}
		}
		return nil, wrapCSVErr(err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, wrapCSVErr(err)
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any, len(record))
		for i, value := range record {
			name := header[i]
			switch {
			case name == "date":
				if d, err := utils.ParseLocalYMD(value); err == nil {
					row[name] = d
				} else {
					row[name] = value
				}
			case name == "id":
				if id, err := strconv.ParseInt(value, 10, 64); err == nil {
					row[name] = id
				} else {
					row[name] = value
				}
			case numericColumns[name]:
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					row[name] = f
				} else {
					row[name] = value
				}
			default:
				row[name] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func wrapCSVErr(err error) error {
	if perr, ok := err.(*csv.ParseError); ok {
		return &ParseError{Line: perr.Line, Err: perr.Err}
	}
	return &ParseError{Err: err}
}

// Serialize emits a header row and one line per record in input order.
// Dates are written as the record's local calendar day so the exported
// date matches the date as displayed, not the UTC day. includeID appends
// the id column for full round-trip exports; legacy exports omit it.
func Serialize(records []models.TradeRecord, includeID bool) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := Header
	if includeID {
		header = append(append([]string{}, Header...), "id")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, rec := range records {
		row := []string{
			utils.FormatLocalYMD(rec.Date),
			rec.OrderType.String(),
			rec.Sym,
			formatFloat(rec.UnitPrice),
			formatFloat(rec.Quantity),
			formatFloat(rec.Fees),
		}
		if includeID {
			row = append(row, strconv.FormatInt(rec.ID, 10))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
