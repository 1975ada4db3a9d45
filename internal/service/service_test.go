package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	repo := memory.NewSeeded()
	return New(repo), repo
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})
}

func cashierCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "cashier", Role: domain.RoleCashier})
}

func baseOrderRequest() domain.OrderRequest {
	return domain.OrderRequest{
		PlacedAt:        time.Now().UTC().Format(time.RFC3339),
		Paid:            true,
		PaymentType:     domain.PaymentCash,
		DiscountPercent: 10,
		CustomerID:      "cus-1",
		Items: []domain.OrderLineRequest{
			{Barcode: "BC-1001", Quantity: 2, UnitPriceCents: 1000},
			{Barcode: "BC-1002", Quantity: 1, UnitPriceCents: 500},
		},
	}
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	svc, _ := newTestService(t)

	view, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if view.SubtotalCents != 2500 {
		t.Errorf("subtotal = %d, want 2500", view.SubtotalCents)
	}
	if view.DiscountCents != 250 {
		t.Errorf("discount = %d, want 250", view.DiscountCents)
	}
	if view.AmountCents != 2250 {
		t.Errorf("amount = %d, want 2250", view.AmountCents)
	}
	if view.Customer == nil || view.Customer.Name != "Nadia Putri" {
		t.Errorf("customer summary = %+v, want Nadia Putri", view.Customer)
	}
	if len(view.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(view.Items))
	}
	if view.Items[0].LineTotalCents != 2000 || view.Items[1].LineTotalCents != 500 {
		t.Errorf("line totals = %d, %d, want 2000, 500", view.Items[0].LineTotalCents, view.Items[1].LineTotalCents)
	}
}

func TestPlaceOrderStoredAmountMatchesRecomputation(t *testing.T) {
	svc, _ := newTestService(t)

	req := baseOrderRequest()
	req.DiscountPercent = 7.5
	req.Items = []domain.OrderLineRequest{{Barcode: "BC-1001", Quantity: 1, UnitPriceCents: 333}}

	view, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	// round(333 * 0.075) = 25
	if view.DiscountCents != 25 || view.AmountCents != 308 {
		t.Errorf("discount/amount = %d/%d, want 25/308", view.DiscountCents, view.AmountCents)
	}

	stored, err := svc.GetOrder(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if stored.AmountCents != view.AmountCents {
		t.Errorf("stored amount %d differs from response %d", stored.AmountCents, view.AmountCents)
	}
}

func TestPlaceOrderRejectsInvalidRequests(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name   string
		mutate func(*domain.OrderRequest)
	}{
		{"empty items", func(r *domain.OrderRequest) { r.Items = nil }},
		{"bad payment type", func(r *domain.OrderRequest) { r.PaymentType = "BARTER" }},
		{"bad timestamp", func(r *domain.OrderRequest) { r.PlacedAt = "yesterday" }},
		{"missing timestamp", func(r *domain.OrderRequest) { r.PlacedAt = "" }},
		{"discount above 100", func(r *domain.OrderRequest) { r.DiscountPercent = 150 }},
		{"negative discount", func(r *domain.OrderRequest) { r.DiscountPercent = -1 }},
		{"zero quantity", func(r *domain.OrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative price", func(r *domain.OrderRequest) { r.Items[0].UnitPriceCents = -100 }},
		{"missing barcode", func(r *domain.OrderRequest) { r.Items[0].Barcode = "  " }},
		{"unknown customer", func(r *domain.OrderRequest) { r.CustomerID = "cus-404" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseOrderRequest()
			tc.mutate(&req)
			_, err := svc.PlaceOrder(cashierCtx(), req)
			if !errors.Is(err, store.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// failingCustomerRepo simulates an infrastructure failure on customer lookup.
type failingCustomerRepo struct {
	store.Repository
	err error
}

func (r failingCustomerRepo) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return nil, r.err
}

func TestPlaceOrderCustomerLookupFailurePropagates(t *testing.T) {
	repoErr := fmt.Errorf("%w: connection reset", store.ErrTransactionFailed)
	svc := New(failingCustomerRepo{Repository: memory.NewSeeded(), err: repoErr})

	_, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest())
	if errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("infrastructure failure surfaced as validation error: %v", err)
	}
	if !errors.Is(err, store.ErrTransactionFailed) {
		t.Fatalf("err = %v, want the repository error unchanged", err)
	}
}

func TestPlaceOrderConsumesVariationStock(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-S", VariationID: "var-1", Quantity: 5, UnitPriceCents: 1500},
	}
	if _, err := svc.PlaceOrder(cashierCtx(), req); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	variation, err := repo.GetVariation(context.Background(), "var-1")
	if err != nil {
		t.Fatalf("GetVariation: %v", err)
	}
	if variation.Quantity != 25 {
		t.Errorf("var-1 quantity = %d, want 25", variation.Quantity)
	}
}

func TestPlaceOrderInsufficientVariationStock(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-M", VariationID: "var-2", Quantity: 11, UnitPriceCents: 1500},
	}
	_, err := svc.PlaceOrder(cashierCtx(), req)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	variation, err := repo.GetVariation(context.Background(), "var-2")
	if err != nil {
		t.Fatalf("GetVariation: %v", err)
	}
	if variation.Quantity != 10 {
		t.Errorf("var-2 quantity = %d after failed order, want 10", variation.Quantity)
	}
}

func TestUpdateOrderReplacesItemSet(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	update := baseOrderRequest()
	update.DiscountPercent = 0
	update.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1003", Quantity: 3, UnitPriceCents: 700},
	}
	updated, err := svc.UpdateOrder(cashierCtx(), created.ID, update)
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("items after update = %d, want 1", len(updated.Items))
	}
	if updated.Items[0].Barcode != "BC-1003" {
		t.Errorf("item barcode = %s, want BC-1003", updated.Items[0].Barcode)
	}
	if updated.AmountCents != 2100 {
		t.Errorf("amount = %d, want 2100", updated.AmountCents)
	}

	stored, err := svc.GetOrder(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Barcode != "BC-1003" {
		t.Errorf("stored items = %+v, want single BC-1003 line", stored.Items)
	}
}

func TestUpdateOrderMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateOrder(cashierCtx(), "ord-404", baseOrderRequest())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateOrderReconcilesVariationStock(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-S", VariationID: "var-1", Quantity: 5, UnitPriceCents: 1500},
	}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	update := baseOrderRequest()
	update.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-M", VariationID: "var-2", Quantity: 8, UnitPriceCents: 1500},
	}
	if _, err := svc.UpdateOrder(cashierCtx(), created.ID, update); err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	varOne, _ := repo.GetVariation(context.Background(), "var-1")
	varTwo, _ := repo.GetVariation(context.Background(), "var-2")
	if varOne.Quantity != 30 {
		t.Errorf("var-1 quantity = %d, want 30 after restock", varOne.Quantity)
	}
	if varTwo.Quantity != 2 {
		t.Errorf("var-2 quantity = %d, want 2 after consumption", varTwo.Quantity)
	}
	if varTwo.Status != domain.StatusLowStock {
		t.Errorf("var-2 status = %s, want %s", varTwo.Status, domain.StatusLowStock)
	}
}

func TestUpdateOrderInsufficientStockLeavesStateUntouched(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-S", VariationID: "var-1", Quantity: 5, UnitPriceCents: 1500},
	}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	update := baseOrderRequest()
	update.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001-M", VariationID: "var-2", Quantity: 50, UnitPriceCents: 1500},
	}
	_, err = svc.UpdateOrder(cashierCtx(), created.ID, update)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	varOne, _ := repo.GetVariation(context.Background(), "var-1")
	varTwo, _ := repo.GetVariation(context.Background(), "var-2")
	if varOne.Quantity != 25 || varTwo.Quantity != 10 {
		t.Errorf("stock after failed update = %d/%d, want 25/10", varOne.Quantity, varTwo.Quantity)
	}
	stored, err := svc.GetOrder(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].VariationID != "var-1" {
		t.Errorf("order items changed after failed update: %+v", stored.Items)
	}
}

func TestReturnOrderItemsRestocksAndShareTimestamp(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1002", Quantity: 3, UnitPriceCents: 500},
		{Barcode: "BC-1001-S", VariationID: "var-1", Quantity: 2, UnitPriceCents: 1500},
	}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	records, err := svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{
			{OrderItemID: created.Items[0].ID, Quantity: 2, Reason: "damaged"},
			{OrderItemID: created.Items[1].ID, Quantity: 1, Reason: "wrong size"},
		},
	})
	if err != nil {
		t.Fatalf("ReturnOrderItems: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if !records[0].ReturnedAt.Equal(records[1].ReturnedAt) {
		t.Errorf("batch timestamps differ: %v vs %v", records[0].ReturnedAt, records[1].ReturnedAt)
	}

	product, _ := repo.GetProduct(context.Background(), "prd-2")
	if product.Quantity != 42 {
		t.Errorf("prd-2 quantity = %d, want 42 after product restock", product.Quantity)
	}
	variation, _ := repo.GetVariation(context.Background(), "var-1")
	if variation.Quantity != 29 {
		t.Errorf("var-1 quantity = %d, want 29 after variation restock", variation.Quantity)
	}

	listed, err := svc.ListReturns(context.Background())
	if err != nil {
		t.Fatalf("ListReturns: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed returns = %d, want 2", len(listed))
	}
}

func TestReturnRestockRecomputesStatus(t *testing.T) {
	svc, repo := newTestService(t)

	// prd-4 is out of stock; the sale records it without consuming inventory,
	// so the return pushes quantity to 1.
	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{{Barcode: "BC-1004", Quantity: 1, UnitPriceCents: 2000}}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{OrderItemID: created.Items[0].ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("ReturnOrderItems: %v", err)
	}

	product, _ := repo.GetProduct(context.Background(), "prd-4")
	if product.Quantity != 1 {
		t.Errorf("prd-4 quantity = %d, want 1", product.Quantity)
	}
	if product.Status != domain.StatusLowStock {
		t.Errorf("prd-4 status = %s, want %s", product.Status, domain.StatusLowStock)
	}
}

func TestReturnRejectsOverQuantity(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{{Barcode: "BC-1002", Quantity: 3, UnitPriceCents: 500}}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{OrderItemID: created.Items[0].ID, Quantity: 5}},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	product, _ := repo.GetProduct(context.Background(), "prd-2")
	if product.Quantity != 40 {
		t.Errorf("prd-2 quantity = %d after rejected return, want 40", product.Quantity)
	}
}

func TestReturnBatchIsAllOrNothing(t *testing.T) {
	svc, repo := newTestService(t)

	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1001", Quantity: 2, UnitPriceCents: 1000},
		{Barcode: "BC-1002", Quantity: 3, UnitPriceCents: 500},
	}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{
			{OrderItemID: created.Items[0].ID, Quantity: 1},
			{OrderItemID: created.Items[1].ID, Quantity: 9},
		},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	product, _ := repo.GetProduct(context.Background(), "prd-1")
	if product.Quantity != 120 {
		t.Errorf("prd-1 quantity = %d, want 120 with no partial restock", product.Quantity)
	}
	listed, err := svc.ListReturns(context.Background())
	if err != nil {
		t.Fatalf("ListReturns: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("listed returns = %d after failed batch, want 0", len(listed))
	}
}

func TestReturnUnknownOrderItem(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{OrderItemID: "itm-404", Quantity: 1}},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReturnRejectsLongReason(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{{
			OrderItemID: created.Items[0].ID,
			Quantity:    1,
			Reason:      strings.Repeat("x", 256),
		}},
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

// Reports.

func TestSalesReportToday(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest()); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}

	summary, err := svc.SalesReportToday(context.Background())
	if err != nil {
		t.Fatalf("SalesReportToday: %v", err)
	}
	if summary.Orders != 3 {
		t.Errorf("orders = %d, want 3", summary.Orders)
	}
	if summary.IncomeCents != 3*2250 {
		t.Errorf("income = %d, want %d", summary.IncomeCents, 3*2250)
	}
	today := time.Now().UTC().Format("2006-01-02")
	if summary.From != today || summary.To != today {
		t.Errorf("range = %s..%s, want %s..%s", summary.From, summary.To, today, today)
	}
}

func TestSalesReportRangeValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		from, to string
	}{
		{"missing from", "", "2026-08-28"},
		{"missing to", "2026-08-01", ""},
		{"bad from", "08/01/2026", "2026-08-28"},
		{"bad to", "2026-08-01", "next week"},
		{"inverted range", "2026-08-28", "2026-08-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SalesReportRange(context.Background(), tc.from, tc.to); !errors.Is(err, store.ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSalesReportRangeIncludesToDay(t *testing.T) {
	svc, _ := newTestService(t)

	req := baseOrderRequest()
	req.PlacedAt = "2026-08-15 14:30:00"
	if _, err := svc.PlaceOrder(cashierCtx(), req); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	summary, err := svc.SalesReportRange(context.Background(), "2026-08-15", "2026-08-15")
	if err != nil {
		t.Fatalf("SalesReportRange: %v", err)
	}
	if summary.Orders != 1 {
		t.Errorf("orders = %d, want 1 (range inclusive of to day)", summary.Orders)
	}
	if summary.From != "2026-08-15" || summary.To != "2026-08-15" {
		t.Errorf("echoed range = %s..%s", summary.From, summary.To)
	}
}

func TestDailySalesRange(t *testing.T) {
	svc, _ := newTestService(t)

	for _, placedAt := range []string{"2026-08-10", "2026-08-10", "2026-08-12"} {
		req := baseOrderRequest()
		req.PlacedAt = placedAt
		if _, err := svc.PlaceOrder(cashierCtx(), req); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}

	daily, err := svc.DailySalesRange(context.Background(), "2026-08-09", "2026-08-13")
	if err != nil {
		t.Fatalf("DailySalesRange: %v", err)
	}
	if len(daily) != 2 {
		t.Fatalf("daily rows = %d, want 2", len(daily))
	}
	if daily[0].Date != "2026-08-10" || daily[0].Orders != 2 {
		t.Errorf("first row = %+v, want 2026-08-10 with 2 orders", daily[0])
	}
	if daily[1].Date != "2026-08-12" || daily[1].Orders != 1 {
		t.Errorf("second row = %+v, want 2026-08-12 with 1 order", daily[1])
	}
}

func TestBestSellingProductCountsSaleLines(t *testing.T) {
	svc, _ := newTestService(t)

	// One bulk line of BC-1001 loses to BC-1002 being sold on two
	// separate occasions.
	bulk := baseOrderRequest()
	bulk.Items = []domain.OrderLineRequest{{Barcode: "BC-1001", Quantity: 10, UnitPriceCents: 1000}}
	if _, err := svc.PlaceOrder(cashierCtx(), bulk); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	for i := 0; i < 2; i++ {
		req := baseOrderRequest()
		req.Items = []domain.OrderLineRequest{{Barcode: "BC-1002", Quantity: 1, UnitPriceCents: 500}}
		if _, err := svc.PlaceOrder(cashierCtx(), req); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}

	tally, err := svc.BestSellingProduct(context.Background())
	if err != nil {
		t.Fatalf("BestSellingProduct: %v", err)
	}
	if tally.Barcode != "BC-1002" || tally.Count != 2 {
		t.Errorf("tally = %+v, want BC-1002 on 2 sale lines", tally)
	}
}

func TestBestSellingProductEmpty(t *testing.T) {
	svc := New(memory.New())
	if _, err := svc.BestSellingProduct(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMostReturnedProductCountsReturnEntries(t *testing.T) {
	svc, _ := newTestService(t)

	// BC-1002 comes back once with a big quantity, BC-1003 comes back
	// twice. Two occasions outrank one.
	req := baseOrderRequest()
	req.Items = []domain.OrderLineRequest{
		{Barcode: "BC-1002", Quantity: 5, UnitPriceCents: 500},
		{Barcode: "BC-1003", Quantity: 1, UnitPriceCents: 700},
		{Barcode: "BC-1003", Quantity: 1, UnitPriceCents: 700},
	}
	created, err := svc.PlaceOrder(cashierCtx(), req)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	_, err = svc.ReturnOrderItems(cashierCtx(), created.ID, domain.ReturnRequest{
		Items: []domain.ReturnLineRequest{
			{OrderItemID: created.Items[0].ID, Quantity: 5, Reason: "defect"},
			{OrderItemID: created.Items[1].ID, Quantity: 1, Reason: "wrong size"},
			{OrderItemID: created.Items[2].ID, Quantity: 1, Reason: "wrong size"},
		},
	})
	if err != nil {
		t.Fatalf("ReturnOrderItems: %v", err)
	}

	tally, err := svc.MostReturnedProduct(context.Background())
	if err != nil {
		t.Fatalf("MostReturnedProduct: %v", err)
	}
	if tally.Barcode != "BC-1003" || tally.Count != 2 {
		t.Errorf("tally = %+v, want BC-1003 on 2 return entries", tally)
	}
}

func TestMostReturnedProductEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.MostReturnedProduct(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPaymentDistribution(t *testing.T) {
	svc, _ := newTestService(t)

	for _, paymentType := range []string{domain.PaymentCash, domain.PaymentCash, domain.PaymentDebitCard} {
		req := baseOrderRequest()
		req.PaymentType = paymentType
		if _, err := svc.PlaceOrder(cashierCtx(), req); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}

	tallies, err := svc.PaymentDistribution(context.Background())
	if err != nil {
		t.Fatalf("PaymentDistribution: %v", err)
	}
	counts := make(map[string]int, len(tallies))
	for _, tally := range tallies {
		counts[tally.PaymentType] = tally.Orders
	}
	if counts[domain.PaymentCash] != 2 || counts[domain.PaymentDebitCard] != 1 {
		t.Errorf("distribution = %v, want CASH:2 DEBIT_CARD:1", counts)
	}
}

// Inventory and catalog.

func TestCreateProductDerivesStatus(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.CreateProduct(adminCtx(), domain.ProductRequest{Name: "Rain Jacket", Barcode: "BC-2001", Quantity: 5})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.Status != domain.StatusLowStock {
		t.Errorf("status = %s, want %s", product.Status, domain.StatusLowStock)
	}
}

func TestProductMutationsRequireAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(cashierCtx(), domain.ProductRequest{Name: "Rain Jacket", Barcode: "BC-2001"})
	if err == nil || !strings.Contains(err.Error(), "admin role required") {
		t.Fatalf("err = %v, want admin role required", err)
	}
	if _, err := svc.AdjustProductStock(cashierCtx(), "prd-1", 5); err == nil {
		t.Fatalf("expected stock adjust to require admin")
	}
}

func TestAdjustProductStock(t *testing.T) {
	svc, _ := newTestService(t)

	level, err := svc.AdjustProductStock(adminCtx(), "prd-3", 10)
	if err != nil {
		t.Fatalf("AdjustProductStock: %v", err)
	}
	if level.Quantity != 22 || level.Status != domain.StatusInStock {
		t.Errorf("level = %+v, want quantity 22 IN_STOCK", level)
	}

	if _, err := svc.AdjustProductStock(adminCtx(), "prd-3", 0); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("zero delta err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.AdjustProductStock(adminCtx(), "prd-4", -1); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("below-zero err = %v, want ErrInsufficientStock", err)
	}
}

func TestConcurrentRestocksAreNotLost(t *testing.T) {
	svc, repo := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AdjustProductStock(adminCtx(), "prd-2", 5); err != nil {
				t.Errorf("AdjustProductStock: %v", err)
			}
		}()
	}
	wg.Wait()

	product, err := repo.GetProduct(context.Background(), "prd-2")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if product.Quantity != 50 {
		t.Errorf("quantity = %d, want exactly 50", product.Quantity)
	}
}

func TestVariationBatchCreate(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateVariations(adminCtx(), "prd-2", domain.VariationBatchRequest{
		Variations: []domain.VariationInput{
			{Barcode: "BC-1002-30", Size: "30", PriceCents: 2000, SellingPriceCents: 3500, Quantity: 25},
			{Barcode: "BC-1002-32", Size: "32", PriceCents: 2000, SellingPriceCents: 3500, Quantity: 0},
		},
	})
	if err != nil {
		t.Fatalf("CreateVariations: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %d, want 2", len(created))
	}
	if created[0].Status != domain.StatusInStock || created[1].Status != domain.StatusOutOfStock {
		t.Errorf("statuses = %s/%s, want IN_STOCK/OUT_OF_STOCK", created[0].Status, created[1].Status)
	}

	listed, err := svc.ListProductVariations(context.Background(), "prd-2")
	if err != nil {
		t.Fatalf("ListProductVariations: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed = %d, want 2", len(listed))
	}
}

func TestAuditTrailRecordsOrderActions(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.PlaceOrder(cashierCtx(), baseOrderRequest()); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	logs, err := svc.ListAuditLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(logs))
	}
	if logs[0].Action != "order.create" || logs[0].Actor != "cashier" {
		t.Errorf("entry = %+v, want order.create by cashier", logs[0])
	}
}
