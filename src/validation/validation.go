// Package validation checks already-typed trade values against the
// canonical record shape. It performs no coercion: turning CSV text or
// wire JSON into typed values is the codec's and client's job.
package validation

import (
	"fmt"
	"time"

	"github.com/username/tradebook/backend/src/models"
)

// ValidationError reports well-formed input that violates the record
// schema: a missing field, a wrong dynamic type, or an enum value
// outside the accepted set. Row is the zero-based index within the
// batch, or -1 for a single record.
type ValidationError struct {
	Row    int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("invalid trade: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid trade at row %d: field %q: %s", e.Row, e.Field, e.Reason)
}

// Validate coerces nothing and accepts nothing it cannot prove: every
// field must be present with the exact expected dynamic type. On success
// the assembled TradeRecord is returned with ID left unset (the store is
// the sole authority for identifiers; an "id" key, when present, must be
// an int64 and is carried through).
func Validate(raw map[string]any) (models.TradeRecord, error) {
	return validateRow(raw, -1)
}

// ValidateAll applies Validate to every element and fails atomically:
// one bad row rejects the whole batch and no records are returned.
func ValidateAll(raws []map[string]any) ([]models.TradeRecord, error) {
	records := make([]models.TradeRecord, 0, len(raws))
	for i, raw := range raws {
		rec, err := validateRow(raw, i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func validateRow(raw map[string]any, row int) (models.TradeRecord, error) {
	var rec models.TradeRecord

	date, err := fieldAs[time.Time](raw, "date", row)
	if err != nil {
		return rec, err
	}

	orderRaw, err := fieldAs[string](raw, "orderType", row)
	if err != nil {
		return rec, err
	}
	orderType := models.OrderType(orderRaw)
	if !orderType.Valid() {
		return rec, &ValidationError{Row: row, Field: "orderType", Reason: fmt.Sprintf("must be %q or %q, got %q", models.OrderBuy, models.OrderSell, orderRaw)}
	}

	sym, err := fieldAs[string](raw, "sym", row)
	if err != nil {
		return rec, err
	}
	if sym == "" {
		return rec, &ValidationError{Row: row, Field: "sym", Reason: "must not be empty"}
	}

	unitPrice, err := fieldAs[float64](raw, "unitPrice", row)
	if err != nil {
		return rec, err
	}
	quantity, err := fieldAs[float64](raw, "quantity", row)
	if err != nil {
		return rec, err
	}
	fees, err := fieldAs[float64](raw, "fees", row)
	if err != nil {
		return rec, err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{{"unitPrice", unitPrice}, {"quantity", quantity}, {"fees", fees}} {
		if f.value < 0 {
			return rec, &ValidationError{Row: row, Field: f.name, Reason: "must not be negative"}
		}
	}

	rec = models.TradeRecord{
		Date:      date,
		OrderType: orderType,
		Sym:       sym,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		Fees:      fees,
	}

	if idRaw, ok := raw["id"]; ok {
		id, isInt := idRaw.(int64)
		if !isInt {
			return models.TradeRecord{}, &ValidationError{Row: row, Field: "id", Reason: fmt.Sprintf("expected int64, got %T", idRaw)}
		}
		rec.ID = id
	}

	return rec, nil
}

func fieldAs[T any](raw map[string]any, field string, row int) (T, error) {
	var zero T
	value, ok := raw[field]
	if !ok {
		return zero, &ValidationError{Row: row, Field: field, Reason: "missing"}
	}
	typed, ok := value.(T)
	if !ok {
		return zero, &ValidationError{Row: row, Field: field, Reason: fmt.Sprintf("expected %T, got %T", zero, value)}
	}
	return typed, nil
}

// CheckRecord applies the same schema rules to an already-typed record,
// used to re-validate what the remote store hands back.
func CheckRecord(rec models.TradeRecord) error {
	if !rec.OrderType.Valid() {
		return &ValidationError{Row: -1, Field: "orderType", Reason: fmt.Sprintf("must be %q or %q, got %q", models.OrderBuy, models.OrderSell, rec.OrderType)}
	}
	if rec.Sym == "" {
		return &ValidationError{Row: -1, Field: "sym", Reason: "must not be empty"}
	}
	if rec.Date.IsZero() {
		return &ValidationError{Row: -1, Field: "date", Reason: "missing"}
	}
	switch {
	case rec.UnitPrice < 0:
		return &ValidationError{Row: -1, Field: "unitPrice", Reason: "must not be negative"}
	case rec.Quantity < 0:
		return &ValidationError{Row: -1, Field: "quantity", Reason: "must not be negative"}
	case rec.Fees < 0:
		return &ValidationError{Row: -1, Field: "fees", Reason: "must not be negative"}
	}
	return nil
}
