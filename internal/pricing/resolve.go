// Package pricing derives canonical prices from heterogeneously shaped
// records. Upstream data historically carried prices under several field
// names depending on which client wrote it, so every ingestion boundary
// funnels records through Resolve before anything else looks at them.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
)

// priceKeys is the fixed precedence for a record's own price. The first
// key present with a coercible numeric value wins, even when later keys
// hold different values.
var priceKeys = []string{"PRECIO", "PRECIO_BASE", "Precio_base", "Precio", "precio", "price"}

// unitKeys is the fixed precedence for a combo item's unit price.
var unitKeys = []string{"PRECIO", "PRECIO_UNITARIO", "precioUnitario", "price", "PRECIO_VENTA"}

// Item is one priced line of a combo.
type Item struct {
	UnitPrice float64
	Quantity  int
}

// Resolve extracts one canonical price from a record of unknown shape.
// It is total: a record with no price information resolves to 0.
func Resolve(record map[string]any) float64 {
	return resolveKeys(record, priceKeys)
}

// ResolveUnit extracts a combo item's unit price from a record of
// unknown shape, falling back to 0 when nothing is present.
func ResolveUnit(record map[string]any) float64 {
	return resolveKeys(record, unitKeys)
}

func resolveKeys(record map[string]any, keys []string) float64 {
	for _, key := range keys {
		raw, ok := record[key]
		if !ok {
			continue
		}
		if v, ok := toNumber(raw); ok {
			return v
		}
	}
	return 0
}

func toNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	case nil:
		return 0, false
	default:
		return 0, false
	}
}

// ComboPrice returns the effective price of a combo: basePrice when it
// is set and positive, otherwise the sum of unitPrice times quantity
// over its items. When basePrice is positive item prices are ignored
// entirely.
func ComboPrice(basePrice float64, items []Item) float64 {
	if basePrice > 0 {
		return basePrice
	}
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// LineTotal multiplies a resolved unit price by an order quantity.
func LineTotal(unit float64, qty int) float64 {
	return unit * float64(qty)
}

// Round2 rounds to two decimals. Display only: totals accumulate
// unrounded and are rounded once at the presentation edge.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
