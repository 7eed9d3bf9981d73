package models

import (
	"strings"
	"time"
)

// OrderType is the side of a trade. Only Buy and Sell exist.
type OrderType string

const (
	OrderBuy  OrderType = "Buy"
	OrderSell OrderType = "Sell"
)

func (t OrderType) String() string { return string(t) }

func (t OrderType) Valid() bool { return t == OrderBuy || t == OrderSell }

// ParseOrderType matches the literal CSV/JSON form, ignoring surrounding
// whitespace and letter case.
func ParseOrderType(s string) (OrderType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return OrderBuy, true
	case "sell":
		return OrderSell, true
	default:
		return "", false
	}
}

// DraftID is the reserved identifier of the single uncommitted row a
// session may hold. The store never assigns it.
const DraftID int64 = -1

// TradeRecord is one buy/sell transaction entry. ID is assigned by the
// store on creation; zero means not yet persisted.
type TradeRecord struct {
	ID        int64     `json:"id,omitempty"`
	Date      time.Time `json:"date"`
	OrderType OrderType `json:"orderType"`
	Sym       string    `json:"sym"`
	UnitPrice float64   `json:"unitPrice"`
	Quantity  float64   `json:"quantity"`
	Fees      float64   `json:"fees"`
}

// Total is the signed cash effect of the trade: negative for a buy,
// positive for a sell, with fees always subtracted. It is derived on
// every read and never stored.
func (r TradeRecord) Total() float64 {
	sign := 1.0
	if r.OrderType == OrderBuy {
		sign = -1.0
	}
	return r.UnitPrice*r.Quantity*sign - r.Fees
}

// SameDay reports whether two records fall on the same calendar day in
// the record's own zone, used by tests to assert round trips do not
// drift across midnight.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
