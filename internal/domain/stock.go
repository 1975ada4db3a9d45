package domain

// LowStockThreshold is the quantity under which a product or variation is
// flagged as low stock.
const LowStockThreshold = 20

// Stock status labels derived from quantity. Status is never accepted from
// clients; it is recomputed on every write that changes quantity.
const (
	StatusInStock    = "IN_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusOutOfStock = "OUT_OF_STOCK"
)

// StockStatusFor maps a quantity to its stock status label.
func StockStatusFor(qty int) string {
	switch {
	case qty <= 0:
		return StatusOutOfStock
	case qty < LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
