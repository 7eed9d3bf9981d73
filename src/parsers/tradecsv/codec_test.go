package tradecsv

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradebook/backend/src/models"
	"github.com/username/tradebook/backend/src/utils"
	"github.com/username/tradebook/backend/src/validation"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseLocalYMD(s)
	require.NoError(t, err)
	return d
}

func TestParse_CoercesTypedColumns(t *testing.T) {
	input := "date,orderType,sym,unitPrice,quantity,fees\n" +
		"2017-04-02,Buy,VAS,97.31,2,2\n" +
		"2019-06-03,Sell,VAS,91.29,1,0\n"

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, mustDate(t, "2017-04-02"), rows[0]["date"])
	assert.Equal(t, "Buy", rows[0]["orderType"])
	assert.Equal(t, "VAS", rows[0]["sym"])
	assert.Equal(t, 97.31, rows[0]["unitPrice"])
	assert.Equal(t, 2.0, rows[0]["quantity"])
	assert.Equal(t, 0.0, rows[1]["fees"])
}

func TestParse_CoercionIsByHeaderName(t *testing.T) {
	// Columns reordered relative to the canonical export layout. Coercion
	// matches header names, so the typed columns still come out typed.
	input := "sym,fees,date,quantity,orderType,unitPrice\n" +
		"VAS,2,2017-04-02,2,Buy,97.31\n"

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mustDate(t, "2017-04-02"), rows[0]["date"])
	assert.Equal(t, 2.0, rows[0]["fees"])
	assert.Equal(t, 97.31, rows[0]["unitPrice"])
	assert.Equal(t, "VAS", rows[0]["sym"])
}

func TestParse_FailedCoercionKeptAsString(t *testing.T) {
	// A value the codec cannot coerce stays a string; the schema rejects
	// the row with a wrong-type error instead of the parse aborting.
	input := "date,orderType,sym,unitPrice,quantity,fees\n" +
		"not-a-date,Buy,VAS,lots,2,2\n"

	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "not-a-date", rows[0]["date"])
	assert.Equal(t, "lots", rows[0]["unitPrice"])

	_, err = validation.ValidateAll(rows)
	var verr *validation.ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"inconsistent column count", "date,orderType,sym,unitPrice,quantity,fees\n2017-04-02,Buy,VAS\n"},
		{"unterminated quote", "date,orderType,sym,unitPrice,quantity,fees\n2017-04-02,\"Buy,VAS,97.31,2,2\n"},
		{"empty input", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
		})
	}
}

func TestParse_NoDataRows(t *testing.T) {
	rows, err := Parse(strings.NewReader("date,orderType,sym,unitPrice,quantity,fees\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func sampleRecords(t *testing.T) []models.TradeRecord {
	t.Helper()
	return []models.TradeRecord{
		{Date: mustDate(t, "2017-04-02"), OrderType: models.OrderBuy, Sym: "VAS", UnitPrice: 97.31, Quantity: 2, Fees: 2},
		{Date: mustDate(t, "2019-06-03"), OrderType: models.OrderSell, Sym: "VAS", UnitPrice: 91.29, Quantity: 1.5, Fees: 0},
	}
}

func TestRoundTrip_WithoutID(t *testing.T) {
	records := sampleRecords(t)

	text, err := Serialize(records, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "date,orderType,sym,unitPrice,quantity,fees\n"))

	rows, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	got, err := validation.ValidateAll(rows)
	require.NoError(t, err)

	require.Len(t, got, len(records))
	for i := range records {
		assert.True(t, got[i].Date.Equal(records[i].Date), "row %d date", i)
		assert.Equal(t, records[i].OrderType, got[i].OrderType)
		assert.Equal(t, records[i].Sym, got[i].Sym)
		assert.Equal(t, records[i].UnitPrice, got[i].UnitPrice)
		assert.Equal(t, records[i].Quantity, got[i].Quantity)
		assert.Equal(t, records[i].Fees, got[i].Fees)
		assert.Zero(t, got[i].ID)
	}
}

func TestRoundTrip_WithID(t *testing.T) {
	records := sampleRecords(t)
	records[0].ID = 11
	records[1].ID = 12

	text, err := Serialize(records, true)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "date,orderType,sym,unitPrice,quantity,fees,id\n"))

	rows, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	got, err := validation.ValidateAll(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, int64(12), got[1].ID)
}

func TestSerialize_DateIsLocalDay(t *testing.T) {
	// A record whose timestamp is late evening in a western zone must
	// export the local day, not the UTC day.
	rec := models.TradeRecord{
		Date:      time.Date(2017, time.April, 2, 23, 0, 0, 0, time.FixedZone("UTC-7", -7*60*60)),
		OrderType: models.OrderBuy,
		Sym:       "VAS",
		UnitPrice: 97.31,
		Quantity:  2,
	}
	text, err := Serialize([]models.TradeRecord{rec}, false)
	require.NoError(t, err)
	assert.Contains(t, text, "\n2017-04-02,")
}
