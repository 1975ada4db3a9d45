// Package service holds the business rules for orders, returns, inventory
// and reporting. Handlers validate transport concerns; everything about what
// a valid order or return is lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/pricing"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/xid"
)

type actorContextKey struct{}

// WithActor stores the authenticated actor on the context.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext retrieves the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo store.Repository
}

func New(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// acceptedTimeFormats lists the timestamp layouts accepted on order requests.
var acceptedTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseOrderTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: placed_at is required", store.ErrInvalidInput)
	}
	for _, layout := range acceptedTimeFormats {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: placed_at %q is not a valid timestamp", store.ErrInvalidInput, raw)
}

func isValidPaymentType(paymentType string) bool {
	switch paymentType {
	case domain.PaymentCash, domain.PaymentCreditCard, domain.PaymentDebitCard:
		return true
	}
	return false
}

// Orders.

func (s *Service) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderView, error) {
	order, customer, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order.ID = xid.New("ord")
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].ID = xid.New("itm")
		order.Items[i].OrderID = order.ID
	}

	created, err := s.repo.CreateOrder(ctx, *order)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "order.create", created.ID, fmt.Sprintf("amount_cents=%d items=%d", created.AmountCents, len(created.Items)))
	view := buildOrderView(*created, customer)
	return &view, nil
}

func (s *Service) UpdateOrder(ctx context.Context, orderID string, req domain.OrderRequest) (*domain.OrderView, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id required", store.ErrInvalidInput)
	}

	order, customer, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	order.ID = orderID
	order.UpdatedAt = time.Now().UTC()
	for i := range order.Items {
		order.Items[i].ID = xid.New("itm")
		order.Items[i].OrderID = orderID
	}

	updated, err := s.repo.ReplaceOrder(ctx, *order)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "order.update", updated.ID, fmt.Sprintf("amount_cents=%d items=%d", updated.AmountCents, len(updated.Items)))
	view := buildOrderView(*updated, customer)
	return &view, nil
}

// buildOrder validates the request and assembles an order with recomputed
// totals. It does not assign IDs or timestamps.
func (s *Service) buildOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, *domain.Customer, error) {
	placedAt, err := parseOrderTime(req.PlacedAt)
	if err != nil {
		return nil, nil, err
	}
	if !isValidPaymentType(req.PaymentType) {
		return nil, nil, fmt.Errorf("%w: payment_type must be one of CASH, CREDIT_CARD, DEBIT_CARD", store.ErrInvalidInput)
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.Barcode) == "" {
			return nil, nil, fmt.Errorf("%w: every item needs a bar_code", store.ErrInvalidInput)
		}
		lines = append(lines, pricing.Line{UnitPriceCents: item.UnitPriceCents, Quantity: item.Quantity})
	}
	totals, err := pricing.Compute(lines, req.DiscountPercent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}

	var customer *domain.Customer
	if strings.TrimSpace(req.CustomerID) != "" {
		customer, err = s.repo.GetCustomer(ctx, req.CustomerID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: customer %s not found", store.ErrInvalidInput, req.CustomerID)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			Barcode:        strings.TrimSpace(item.Barcode),
			VariationID:    strings.TrimSpace(item.VariationID),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	return &domain.Order{
		PlacedAt:        placedAt,
		Paid:            req.Paid,
		PaymentType:     req.PaymentType,
		SubtotalCents:   totals.SubtotalCents,
		DiscountPercent: req.DiscountPercent,
		DiscountCents:   totals.DiscountCents,
		AmountCents:     totals.TotalCents,
		CustomerID:      strings.TrimSpace(req.CustomerID),
		Items:           items,
	}, customer, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.OrderView, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerFor(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	view := buildOrderView(*order, customer)
	return &view, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]domain.OrderView, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Customer, len(customers))
	for _, customer := range customers {
		byID[customer.ID] = customer
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, order := range orders {
		var customer *domain.Customer
		if found, ok := byID[order.CustomerID]; ok {
			c := found
			customer = &c
		}
		views = append(views, buildOrderView(order, customer))
	}
	return views, nil
}

func (s *Service) customerFor(ctx context.Context, customerID string) (*domain.Customer, error) {
	if customerID == "" {
		return nil, nil
	}
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		// The order outlives its customer record; render it without one.
		return nil, nil
	}
	return customer, nil
}

func buildOrderView(order domain.Order, customer *domain.Customer) domain.OrderView {
	view := domain.OrderView{
		ID:              order.ID,
		PlacedAt:        order.PlacedAt,
		Paid:            order.Paid,
		PaymentType:     order.PaymentType,
		SubtotalCents:   order.SubtotalCents,
		DiscountPercent: order.DiscountPercent,
		DiscountCents:   order.DiscountCents,
		AmountCents:     order.AmountCents,
		Items:           make([]domain.OrderItemView, 0, len(order.Items)),
	}
	if customer != nil {
		view.Customer = &domain.CustomerSummary{
			ID:    customer.ID,
			Name:  customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		}
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, domain.OrderItemView{
			ID:             item.ID,
			Barcode:        item.Barcode,
			VariationID:    item.VariationID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			LineTotalCents: pricing.LineTotal(item.UnitPriceCents, item.Quantity),
		})
	}
	return view
}

// Returns.

const maxReturnReasonLength = 255

func (s *Service) ReturnOrderItems(ctx context.Context, orderID string, req domain.ReturnRequest) ([]domain.ReturnRecord, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id required", store.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one return item is required", store.ErrInvalidInput)
	}

	items := make([]domain.ReturnItem, 0, len(req.Items))
	for _, entry := range req.Items {
		if strings.TrimSpace(entry.OrderItemID) == "" {
			return nil, fmt.Errorf("%w: every return item needs an order_item_id", store.ErrInvalidInput)
		}
		if entry.Quantity < 1 {
			return nil, fmt.Errorf("%w: return quantity must be at least 1", store.ErrInvalidInput)
		}
		if len(entry.Reason) > maxReturnReasonLength {
			return nil, fmt.Errorf("%w: reason must be at most %d characters", store.ErrInvalidInput, maxReturnReasonLength)
		}
		items = append(items, domain.ReturnItem{
			OrderItemID: strings.TrimSpace(entry.OrderItemID),
			Quantity:    entry.Quantity,
			Reason:      strings.TrimSpace(entry.Reason),
		})
	}

	// One timestamp for the whole batch.
	returnedAt := time.Now().UTC()
	records, err := s.repo.CreateReturns(ctx, orderID, items, returnedAt)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "order.return", orderID, fmt.Sprintf("items=%d", len(records)))
	return records, nil
}

func (s *Service) ListReturns(ctx context.Context) ([]domain.ReturnRecord, error) {
	return s.repo.ListReturns(ctx)
}

func (s *Service) GetReturn(ctx context.Context, id string) (*domain.ReturnRecord, error) {
	return s.repo.GetReturn(ctx, id)
}

// Reports.

func (s *Service) SalesReportToday(ctx context.Context) (*domain.SalesSummary, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	summary, err := s.repo.SalesSummary(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	// The stores take an exclusive upper bound; the report shows one day.
	day := from.Format("2006-01-02")
	summary.From = day
	summary.To = day
	return summary, nil
}

func parseReportRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	fromRaw = strings.TrimSpace(fromRaw)
	toRaw = strings.TrimSpace(toRaw)
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to dates are required", store.ErrInvalidInput)
	}
	from, err := time.Parse("2006-01-02", fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from date %q is not a valid date", store.ErrInvalidInput, fromRaw)
	}
	to, err := time.Parse("2006-01-02", toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to date %q is not a valid date", store.ErrInvalidInput, toRaw)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to date must not be before from date", store.ErrInvalidInput)
	}
	// The range is inclusive of the whole "to" day.
	return from.UTC(), to.UTC().AddDate(0, 0, 1), nil
}

func (s *Service) SalesReportRange(ctx context.Context, fromRaw, toRaw string) (*domain.SalesSummary, error) {
	from, to, err := parseReportRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary.From = fromRaw
	summary.To = toRaw
	return summary, nil
}

func (s *Service) DailySalesRange(ctx context.Context, fromRaw, toRaw string) ([]domain.DailySales, error) {
	from, to, err := parseReportRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	return s.repo.SalesByDate(ctx, from, to)
}

func (s *Service) BestSellingProduct(ctx context.Context) (*domain.ProductTally, error) {
	return s.repo.BestSellingProduct(ctx)
}

func (s *Service) MostReturnedProduct(ctx context.Context) (*domain.ProductTally, error) {
	return s.repo.MostReturnedProduct(ctx)
}

func (s *Service) PaymentDistribution(ctx context.Context) ([]domain.PaymentTally, error) {
	return s.repo.PaymentDistribution(ctx)
}

// Products.

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          xid.New("prd"),
		Name:        strings.TrimSpace(req.Name),
		Barcode:     strings.TrimSpace(req.Barcode),
		BrandName:   strings.TrimSpace(req.BrandName),
		Category:    strings.TrimSpace(req.Category),
		Size:        strings.TrimSpace(req.Size),
		Color:       strings.TrimSpace(req.Color),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		SupplierID:  strings.TrimSpace(req.SupplierID),
		Quantity:    req.Quantity,
		Status:      domain.StockStatusFor(req.Quantity),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "product.create", created.ID, created.Barcode)
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductRequest) (*domain.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	product := domain.Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(req.Name),
		Barcode:     strings.TrimSpace(req.Barcode),
		BrandName:   strings.TrimSpace(req.BrandName),
		Category:    strings.TrimSpace(req.Category),
		Size:        strings.TrimSpace(req.Size),
		Color:       strings.TrimSpace(req.Color),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		SupplierID:  strings.TrimSpace(req.SupplierID),
		Quantity:    req.Quantity,
		Status:      domain.StockStatusFor(req.Quantity),
		UpdatedAt:   time.Now().UTC(),
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "product.update", updated.ID, updated.Barcode)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "product.delete", id, "")
	return nil
}

func (s *Service) AdjustProductStock(ctx context.Context, id string, delta int) (*domain.StockLevel, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", store.ErrInvalidInput)
	}
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	level, err := s.repo.AdjustProductStock(ctx, product.Barcode, delta)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "product.stock", product.ID, fmt.Sprintf("delta=%d quantity=%d", delta, level.Quantity))
	return level, nil
}

func validateProductRequest(req domain.ProductRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Barcode) == "" {
		return fmt.Errorf("%w: bar_code is required", store.ErrInvalidInput)
	}
	if req.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", store.ErrInvalidInput)
	}
	return nil
}

// Product variations.

func (s *Service) CreateVariations(ctx context.Context, productID string, req domain.VariationBatchRequest) ([]domain.ProductVariation, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if len(req.Variations) == 0 {
		return nil, fmt.Errorf("%w: at least one variation is required", store.ErrInvalidInput)
	}

	now := time.Now().UTC()
	variations := make([]domain.ProductVariation, 0, len(req.Variations))
	for _, input := range req.Variations {
		if err := validateVariationInput(input); err != nil {
			return nil, err
		}
		variations = append(variations, domain.ProductVariation{
			ID:                xid.New("var"),
			ProductID:         strings.TrimSpace(productID),
			Barcode:           strings.TrimSpace(input.Barcode),
			Size:              strings.TrimSpace(input.Size),
			Color:             strings.TrimSpace(input.Color),
			PriceCents:        input.PriceCents,
			SellingPriceCents: input.SellingPriceCents,
			DiscountPercent:   input.DiscountPercent,
			Quantity:          input.Quantity,
			Status:            domain.StockStatusFor(input.Quantity),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	created, err := s.repo.CreateVariations(ctx, variations)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "variation.create", productID, fmt.Sprintf("count=%d", len(created)))
	return created, nil
}

func (s *Service) ListProductVariations(ctx context.Context, productID string) ([]domain.ProductVariation, error) {
	return s.repo.ListVariationsByProduct(ctx, productID)
}

func (s *Service) GetVariation(ctx context.Context, id string) (*domain.ProductVariation, error) {
	return s.repo.GetVariation(ctx, id)
}

func (s *Service) UpdateVariation(ctx context.Context, id string, input domain.VariationInput) (*domain.ProductVariation, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := validateVariationInput(input); err != nil {
		return nil, err
	}

	variation := domain.ProductVariation{
		ID:                strings.TrimSpace(id),
		Barcode:           strings.TrimSpace(input.Barcode),
		Size:              strings.TrimSpace(input.Size),
		Color:             strings.TrimSpace(input.Color),
		PriceCents:        input.PriceCents,
		SellingPriceCents: input.SellingPriceCents,
		DiscountPercent:   input.DiscountPercent,
		Quantity:          input.Quantity,
		Status:            domain.StockStatusFor(input.Quantity),
		UpdatedAt:         time.Now().UTC(),
	}

	updated, err := s.repo.UpdateVariation(ctx, variation)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "variation.update", updated.ID, updated.Barcode)
	return updated, nil
}

func (s *Service) DeleteVariation(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteVariation(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "variation.delete", id, "")
	return nil
}

func (s *Service) AdjustVariationStock(ctx context.Context, id string, delta int) (*domain.StockLevel, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", store.ErrInvalidInput)
	}
	level, err := s.repo.AdjustVariationStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "variation.stock", id, fmt.Sprintf("delta=%d quantity=%d", delta, level.Quantity))
	return level, nil
}

func validateVariationInput(input domain.VariationInput) error {
	if strings.TrimSpace(input.Barcode) == "" {
		return fmt.Errorf("%w: variation barcode is required", store.ErrInvalidInput)
	}
	if input.PriceCents < 0 || input.SellingPriceCents < 0 {
		return fmt.Errorf("%w: variation prices must not be negative", store.ErrInvalidInput)
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return fmt.Errorf("%w: variation discount must be between 0 and 100", store.ErrInvalidInput)
	}
	if input.Quantity < 0 {
		return fmt.Errorf("%w: variation quantity must not be negative", store.ErrInvalidInput)
	}
	return nil
}

// Customers and suppliers.

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (*domain.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}
	customer := domain.Customer{
		ID:        xid.New("cus"),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "customer.create", created.ID, created.Name)
	return created, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierRequest) (*domain.Supplier, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", store.ErrInvalidInput)
	}
	supplier := domain.Supplier{
		ID:        xid.New("sup"),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Contact:   strings.TrimSpace(req.Contact),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, "supplier.create", created.ID, created.Name)
	return created, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// Audit trail.

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	return s.repo.ListAuditLogs(ctx, limit)
}

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}
	return nil
}

// logAudit records a best-effort audit entry. Failures are logged, never
// surfaced to the caller.
func (s *Service) logAudit(ctx context.Context, action, entity, detail string) {
	actor, _ := ActorFromContext(ctx)
	username := actor.Username
	if username == "" {
		username = "system"
	}
	entry := domain.AuditLog{
		ID:     xid.New("aud"),
		Actor:  username,
		Action: action,
		Entity: entity,
		Detail: detail,
		At:     time.Now().UTC(),
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Printf("audit log write failed for %s: %v", action, err)
	}
}
