// Package memory provides an in-memory store.Repository used by tests and by
// the server when no DATABASE_URL is configured. A single mutex serializes
// all writes, so concurrent stock deltas are never lost.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	products     map[string]domain.Product
	variations   map[string]domain.ProductVariation
	customers    map[string]domain.Customer
	suppliers    map[string]domain.Supplier
	orders       map[string]domain.Order
	returnItems  map[string]domain.ReturnItem
	salesReturns map[string]domain.SalesReturnItem
	users        map[string]domain.UserAccount
	auditLogs    []domain.AuditLog
}

func New() *Store {
	return &Store{
		products:     make(map[string]domain.Product),
		variations:   make(map[string]domain.ProductVariation),
		customers:    make(map[string]domain.Customer),
		suppliers:    make(map[string]domain.Supplier),
		orders:       make(map[string]domain.Order),
		returnItems:  make(map[string]domain.ReturnItem),
		salesReturns: make(map[string]domain.SalesReturnItem),
		users:        make(map[string]domain.UserAccount),
	}
}

// NewSeeded returns a store preloaded with a small catalog, one customer and
// two user accounts (admin/admin123 and cashier/cashier123).
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	seedProducts := []domain.Product{
		{ID: "prd-1", Name: "Classic Tee", Barcode: "BC-1001", BrandName: "Harbor", Category: "apparel", SupplierID: "sup-1", Quantity: 120},
		{ID: "prd-2", Name: "Slim Jeans", Barcode: "BC-1002", BrandName: "Harbor", Category: "apparel", SupplierID: "sup-1", Quantity: 40},
		{ID: "prd-3", Name: "Canvas Belt", Barcode: "BC-1003", BrandName: "Trailhead", Category: "accessories", SupplierID: "sup-1", Quantity: 12},
		{ID: "prd-4", Name: "Wool Scarf", Barcode: "BC-1004", BrandName: "Trailhead", Category: "accessories", SupplierID: "sup-1", Quantity: 0},
	}
	for _, product := range seedProducts {
		product.Status = domain.StockStatusFor(product.Quantity)
		product.CreatedAt = now
		product.UpdatedAt = now
		s.products[product.ID] = product
	}

	seedVariations := []domain.ProductVariation{
		{ID: "var-1", ProductID: "prd-1", Barcode: "BC-1001-S", Size: "S", Color: "black", PriceCents: 900, SellingPriceCents: 1500, Quantity: 30},
		{ID: "var-2", ProductID: "prd-1", Barcode: "BC-1001-M", Size: "M", Color: "black", PriceCents: 900, SellingPriceCents: 1500, Quantity: 10},
	}
	for _, variation := range seedVariations {
		variation.Status = domain.StockStatusFor(variation.Quantity)
		variation.CreatedAt = now
		variation.UpdatedAt = now
		s.variations[variation.ID] = variation
	}

	s.customers["cus-1"] = domain.Customer{ID: "cus-1", Name: "Nadia Putri", Email: "nadia@example.com", Phone: "+62-811-1111", CreatedAt: now}
	s.suppliers["sup-1"] = domain.Supplier{ID: "sup-1", Name: "Harbor Wholesale", Email: "sales@harbor.example.com", Contact: "+62-21-5555", CreatedAt: now}

	s.seedUser("admin", "admin123", domain.RoleAdmin, now)
	s.seedUser("cashier", "cashier123", domain.RoleCashier, now)

	return s
}

func (s *Store) seedUser(username, password, role string, at time.Time) {
	// MinCost keeps seeding fast; real accounts go through the auth manager.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return
	}
	s.users[username] = domain.UserAccount{
		Username:  username,
		Password:  string(hash),
		Role:      role,
		Active:    true,
		CreatedAt: at,
	}
}

func (s *Store) Close() error {
	return nil
}

// Products.

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, id)
	}
	return &product, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.findProductByBarcode(barcode)
	if !ok {
		return nil, fmt.Errorf("%w: product with barcode %s", store.ErrNotFound, barcode)
	}
	return &product, nil
}

func (s *Store) findProductByBarcode(barcode string) (domain.Product, bool) {
	for _, product := range s.products {
		if product.Barcode == barcode {
			return product, true
		}
	}
	return domain.Product{}, false
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.findProductByBarcode(product.Barcode); exists {
		return nil, fmt.Errorf("%w: barcode %s already in use", store.ErrInvalidInput, product.Barcode)
	}
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, product.ID)
	}
	if other, exists := s.findProductByBarcode(product.Barcode); exists && other.ID != product.ID {
		return nil, fmt.Errorf("%w: barcode %s already in use", store.ErrInvalidInput, product.Barcode)
	}
	product.CreatedAt = existing.CreatedAt
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("%w: product %s", store.ErrNotFound, id)
	}
	delete(s.products, id)
	// Variations cascade with their product.
	for variationID, variation := range s.variations {
		if variation.ProductID == id {
			delete(s.variations, variationID)
		}
	}
	return nil
}

func (s *Store) AdjustProductStock(ctx context.Context, barcode string, delta int) (*domain.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustProductStockLocked(barcode, delta)
}

func (s *Store) adjustProductStockLocked(barcode string, delta int) (*domain.StockLevel, error) {
	product, ok := s.findProductByBarcode(barcode)
	if !ok {
		return nil, fmt.Errorf("%w: product with barcode %s", store.ErrNotFound, barcode)
	}
	next := product.Quantity + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: product %s has %d on hand, delta %d", store.ErrInsufficientStock, barcode, product.Quantity, delta)
	}
	product.Quantity = next
	product.Status = domain.StockStatusFor(next)
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	return &domain.StockLevel{Quantity: next, Status: product.Status}, nil
}

// Product variations.

func (s *Store) CreateVariations(ctx context.Context, variations []domain.ProductVariation) ([]domain.ProductVariation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, variation := range variations {
		if _, ok := s.products[variation.ProductID]; !ok {
			return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, variation.ProductID)
		}
	}
	created := make([]domain.ProductVariation, 0, len(variations))
	for _, variation := range variations {
		s.variations[variation.ID] = variation
		created = append(created, variation)
	}
	return created, nil
}

func (s *Store) GetVariation(ctx context.Context, id string) (*domain.ProductVariation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	variation, ok := s.variations[id]
	if !ok {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	return &variation, nil
}

func (s *Store) ListVariationsByProduct(ctx context.Context, productID string) ([]domain.ProductVariation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.products[productID]; !ok {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, productID)
	}
	result := make([]domain.ProductVariation, 0)
	for _, variation := range s.variations {
		if variation.ProductID == productID {
			result = append(result, variation)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateVariation(ctx context.Context, variation domain.ProductVariation) (*domain.ProductVariation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.variations[variation.ID]
	if !ok {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, variation.ID)
	}
	variation.ProductID = existing.ProductID
	variation.CreatedAt = existing.CreatedAt
	s.variations[variation.ID] = variation
	return &variation, nil
}

func (s *Store) DeleteVariation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.variations[id]; !ok {
		return fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	delete(s.variations, id)
	return nil
}

func (s *Store) AdjustVariationStock(ctx context.Context, id string, delta int) (*domain.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustVariationStockLocked(id, delta)
}

func (s *Store) adjustVariationStockLocked(id string, delta int) (*domain.StockLevel, error) {
	variation, ok := s.variations[id]
	if !ok {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	next := variation.Quantity + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: variation %s has %d on hand, delta %d", store.ErrInsufficientStock, id, variation.Quantity, delta)
	}
	variation.Quantity = next
	variation.Status = domain.StockStatusFor(next)
	variation.UpdatedAt = time.Now().UTC()
	s.variations[id] = variation
	return &domain.StockLevel{Quantity: next, Status: variation.Status}, nil
}

// Customers and suppliers.

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers[customer.ID] = customer
	return &customer, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", store.ErrNotFound, id)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppliers[supplier.ID] = supplier
	return &supplier, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Supplier, 0, len(s.suppliers))
	for _, supplier := range s.suppliers {
		result = append(result, supplier)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Orders.

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return nil, fmt.Errorf("%w: order %s already exists", store.ErrInvalidInput, order.ID)
	}

	// Variation-bearing items consume stock; plain barcode items record the
	// sale without touching inventory. Check the whole order first so a late
	// failure cannot leave a partial decrement.
	consumption := make(map[string]int)
	for _, item := range order.Items {
		if item.VariationID != "" {
			consumption[item.VariationID] += item.Quantity
		}
	}
	for variationID, quantity := range consumption {
		variation, ok := s.variations[variationID]
		if !ok {
			return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, variationID)
		}
		if variation.Quantity < quantity {
			return nil, fmt.Errorf("%w: variation %s has %d on hand, delta %d", store.ErrInsufficientStock, variationID, variation.Quantity, -quantity)
		}
	}
	for variationID, quantity := range consumption {
		if _, err := s.adjustVariationStockLocked(variationID, -quantity); err != nil {
			return nil, err
		}
	}

	s.orders[order.ID] = cloneOrder(order)
	stored := cloneOrder(order)
	return &stored, nil
}

// ReplaceOrder swaps the order's item set wholesale. Variation-bearing items
// from the old set are restocked and the new set consumes stock; the whole
// update fails with no effect if any variation would go negative.
func (s *Store) ReplaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.orders[order.ID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, order.ID)
	}

	deltas := make(map[string]int)
	for _, item := range existing.Items {
		if item.VariationID != "" {
			deltas[item.VariationID] += item.Quantity
		}
	}
	for _, item := range order.Items {
		if item.VariationID != "" {
			if _, found := s.variations[item.VariationID]; !found {
				return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, item.VariationID)
			}
			deltas[item.VariationID] -= item.Quantity
		}
	}
	for variationID, delta := range deltas {
		variation := s.variations[variationID]
		if variation.Quantity+delta < 0 {
			return nil, fmt.Errorf("%w: variation %s has %d on hand, delta %d", store.ErrInsufficientStock, variationID, variation.Quantity, delta)
		}
	}
	for variationID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if _, err := s.adjustVariationStockLocked(variationID, delta); err != nil {
			return nil, err
		}
	}

	order.CreatedAt = existing.CreatedAt
	s.orders[order.ID] = cloneOrder(order)
	stored := cloneOrder(order)
	return &stored, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, id)
	}
	copied := cloneOrder(order)
	return &copied, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		result = append(result, cloneOrder(order))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].PlacedAt.Equal(result[j].PlacedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].PlacedAt.After(result[j].PlacedAt)
	})
	return result, nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

// Returns.

type returnPlanEntry struct {
	item        domain.ReturnItem
	barcode     string
	variationID string
}

func (s *Store) CreateReturns(ctx context.Context, orderID string, items []domain.ReturnItem, returnedAt time.Time) ([]domain.ReturnRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, orderID)
	}

	orderItems := make(map[string]domain.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	// Validate the whole batch before touching any state.
	plan := make([]returnPlanEntry, 0, len(items))
	for _, entry := range items {
		orderItem, found := orderItems[entry.OrderItemID]
		if !found {
			return nil, fmt.Errorf("%w: order item %s in order %s", store.ErrNotFound, entry.OrderItemID, orderID)
		}
		if entry.Quantity < 1 {
			return nil, fmt.Errorf("%w: return quantity must be at least 1", store.ErrInvalidInput)
		}
		if entry.Quantity > orderItem.Quantity {
			return nil, fmt.Errorf("%w: return quantity %d exceeds ordered quantity %d for item %s", store.ErrInvalidInput, entry.Quantity, orderItem.Quantity, orderItem.ID)
		}
		if orderItem.VariationID != "" {
			if _, found := s.variations[orderItem.VariationID]; !found {
				return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, orderItem.VariationID)
			}
		} else if _, found := s.findProductByBarcode(orderItem.Barcode); !found {
			return nil, fmt.Errorf("%w: product with barcode %s", store.ErrNotFound, orderItem.Barcode)
		}
		plan = append(plan, returnPlanEntry{item: entry, barcode: orderItem.Barcode, variationID: orderItem.VariationID})
	}

	records := make([]domain.ReturnRecord, 0, len(plan))
	for _, planned := range plan {
		returnItem := domain.ReturnItem{
			ID:          xid.New("ret"),
			OrderItemID: planned.item.OrderItemID,
			VariationID: planned.variationID,
			Quantity:    planned.item.Quantity,
			Reason:      planned.item.Reason,
		}
		salesReturn := domain.SalesReturnItem{
			ID:           xid.New("sret"),
			OrderID:      orderID,
			ReturnItemID: returnItem.ID,
			ReturnedAt:   returnedAt,
		}
		s.returnItems[returnItem.ID] = returnItem
		s.salesReturns[salesReturn.ID] = salesReturn

		if planned.variationID != "" {
			if _, err := s.adjustVariationStockLocked(planned.variationID, planned.item.Quantity); err != nil {
				return nil, err
			}
		} else {
			if _, err := s.adjustProductStockLocked(planned.barcode, planned.item.Quantity); err != nil {
				return nil, err
			}
		}

		records = append(records, domain.ReturnRecord{
			ID:           salesReturn.ID,
			OrderID:      orderID,
			ReturnItemID: returnItem.ID,
			OrderItemID:  returnItem.OrderItemID,
			Barcode:      planned.barcode,
			VariationID:  planned.variationID,
			Quantity:     returnItem.Quantity,
			Reason:       returnItem.Reason,
			ReturnedAt:   returnedAt,
		})
	}
	return records, nil
}

func (s *Store) ListReturns(ctx context.Context) ([]domain.ReturnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ReturnRecord, 0, len(s.salesReturns))
	for _, salesReturn := range s.salesReturns {
		result = append(result, s.returnRecordLocked(salesReturn))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ReturnedAt.Equal(result[j].ReturnedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].ReturnedAt.After(result[j].ReturnedAt)
	})
	return result, nil
}

func (s *Store) GetReturn(ctx context.Context, id string) (*domain.ReturnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	salesReturn, ok := s.salesReturns[id]
	if !ok {
		return nil, fmt.Errorf("%w: return %s", store.ErrNotFound, id)
	}
	record := s.returnRecordLocked(salesReturn)
	return &record, nil
}

func (s *Store) returnRecordLocked(salesReturn domain.SalesReturnItem) domain.ReturnRecord {
	record := domain.ReturnRecord{
		ID:           salesReturn.ID,
		OrderID:      salesReturn.OrderID,
		ReturnItemID: salesReturn.ReturnItemID,
		ReturnedAt:   salesReturn.ReturnedAt,
	}
	returnItem, ok := s.returnItems[salesReturn.ReturnItemID]
	if !ok {
		return record
	}
	record.OrderItemID = returnItem.OrderItemID
	record.VariationID = returnItem.VariationID
	record.Quantity = returnItem.Quantity
	record.Reason = returnItem.Reason
	if order, found := s.orders[salesReturn.OrderID]; found {
		for _, item := range order.Items {
			if item.ID == returnItem.OrderItemID {
				record.Barcode = item.Barcode
				break
			}
		}
	}
	return record
}

// Reports.

func (s *Store) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// to is exclusive; the reported range shows the last day inside it.
	summary := domain.SalesSummary{
		From: from.Format("2006-01-02"),
		To:   to.AddDate(0, 0, -1).Format("2006-01-02"),
	}
	for _, order := range s.orders {
		if order.PlacedAt.Before(from) || !order.PlacedAt.Before(to) {
			continue
		}
		summary.Orders++
		summary.IncomeCents += order.AmountCents
	}
	return &summary, nil
}

func (s *Store) SalesByDate(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDate := make(map[string]int)
	for _, order := range s.orders {
		if order.PlacedAt.Before(from) || !order.PlacedAt.Before(to) {
			continue
		}
		byDate[order.PlacedAt.UTC().Format("2006-01-02")]++
	}
	result := make([]domain.DailySales, 0, len(byDate))
	for date, count := range byDate {
		result = append(result, domain.DailySales{Date: date, Orders: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

func (s *Store) BestSellingProduct(ctx context.Context) (*domain.ProductTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tallies := make(map[string]int)
	for _, order := range s.orders {
		for _, item := range order.Items {
			tallies[item.Barcode]++
		}
	}
	return s.topTallyLocked(tallies)
}

func (s *Store) MostReturnedProduct(ctx context.Context) (*domain.ProductTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	barcodeByOrderItem := make(map[string]string)
	for _, order := range s.orders {
		for _, item := range order.Items {
			barcodeByOrderItem[item.ID] = item.Barcode
		}
	}
	tallies := make(map[string]int)
	for _, returnItem := range s.returnItems {
		barcode, ok := barcodeByOrderItem[returnItem.OrderItemID]
		if !ok {
			continue
		}
		tallies[barcode]++
	}
	return s.topTallyLocked(tallies)
}

func (s *Store) topTallyLocked(tallies map[string]int) (*domain.ProductTally, error) {
	if len(tallies) == 0 {
		return nil, fmt.Errorf("%w: no sales recorded", store.ErrNotFound)
	}
	var top domain.ProductTally
	for barcode, count := range tallies {
		if count > top.Count || (count == top.Count && (top.Barcode == "" || barcode < top.Barcode)) {
			top = domain.ProductTally{Barcode: barcode, Count: count}
		}
	}
	if product, ok := s.findProductByBarcode(top.Barcode); ok {
		top.Name = product.Name
	}
	return &top, nil
}

func (s *Store) PaymentDistribution(ctx context.Context) ([]domain.PaymentTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, order := range s.orders {
		counts[order.PaymentType]++
	}
	result := make([]domain.PaymentTally, 0, len(counts))
	for paymentType, orders := range counts {
		result = append(result, domain.PaymentTally{PaymentType: paymentType, Orders: orders})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PaymentType < result[j].PaymentType })
	return result, nil
}

// Users and audit trail.

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return fmt.Errorf("%w: username required", store.ErrInvalidInput)
	}
	if _, exists := s.users[username]; exists {
		return fmt.Errorf("%w: username %s already exists", store.ErrInvalidInput, username)
	}
	user.Username = username
	s.users[username] = user
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.UserAccount, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", store.ErrNotFound, username)
	}
	user.Password = password
	s.users[username] = user
	return nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, len(s.auditLogs))
	copy(result, s.auditLogs)
	sort.Slice(result, func(i, j int) bool { return result[i].At.After(result[j].At) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
