package domain

import "testing"

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		qty  int
		want string
	}{
		{0, StatusOutOfStock},
		{-3, StatusOutOfStock},
		{1, StatusLowStock},
		{19, StatusLowStock},
		{20, StatusInStock},
		{120, StatusInStock},
	}
	for _, tc := range cases {
		if got := StockStatusFor(tc.qty); got != tc.want {
			t.Errorf("StockStatusFor(%d) = %s, want %s", tc.qty, got, tc.want)
		}
	}
}
