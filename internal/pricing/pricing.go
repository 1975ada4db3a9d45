// Package pricing computes order totals from line items and a whole-order
// percentage discount. Amounts are int64 cents.
package pricing

import (
	"errors"
	"math"
)

var (
	ErrNoLines        = errors.New("at least one line item is required")
	ErrNegativePrice  = errors.New("unit price must not be negative")
	ErrNonPositiveQty = errors.New("quantity must be at least 1")
	ErrDiscountRange  = errors.New("discount percent must be between 0 and 100")
)

type Line struct {
	UnitPriceCents int64
	Quantity       int
}

type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// Compute validates the lines and returns subtotal, discount and final total.
// The discount is rounded to the nearest cent, so TotalCents is always exactly
// SubtotalCents minus DiscountCents.
func Compute(lines []Line, discountPercent float64) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, ErrNoLines
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Totals{}, ErrDiscountRange
	}

	var subtotal int64
	for _, line := range lines {
		if line.UnitPriceCents < 0 {
			return Totals{}, ErrNegativePrice
		}
		if line.Quantity < 1 {
			return Totals{}, ErrNonPositiveQty
		}
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}

	discount := int64(math.Round(float64(subtotal) * discountPercent / 100))
	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
	}, nil
}

// LineTotal returns the extended amount for a single order line.
func LineTotal(unitPriceCents int64, quantity int) int64 {
	return unitPriceCents * int64(quantity)
}
