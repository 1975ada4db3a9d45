// Package postgres implements store.Repository on PostgreSQL. Multi-step
// workflows (orders, returns, stock deltas) run in serializable transactions
// with row-level locks so concurrent writes are never lost.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"retailpos/backend/internal/domain"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/xid"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "pgx", driver)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) beginSerializable(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", store.ErrTransactionFailed, err)
	}
	return tx, nil
}

func commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", store.ErrTransactionFailed, err)
	}
	return nil
}

// Products.

const productColumns = `id, name, bar_code, brand_name, category, size, color, description, location, COALESCE(supplier_id, ''), quantity, status, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.BrandName, &p.Category, &p.Size, &p.Color,
		&p.Description, &p.Location, &p.SupplierID, &p.Quantity, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		result = append(result, product)
	}
	return result, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

func (s *Store) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE bar_code = $1`, barcode)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product with barcode %s", store.ErrNotFound, barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, bar_code, brand_name, category, size, color, description, location, supplier_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, product.ID, product.Name, product.Barcode, product.BrandName, product.Category, product.Size, product.Color,
		product.Description, product.Location, nullIfEmpty(product.SupplierID), product.Quantity, product.Status,
		product.CreatedAt, product.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: barcode %s already in use", store.ErrInvalidInput, product.Barcode)
	}
	if isForeignKeyViolation(err) {
		return nil, fmt.Errorf("%w: supplier %s", store.ErrNotFound, product.SupplierID)
	}
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $2, bar_code = $3, brand_name = $4, category = $5, size = $6, color = $7,
		    description = $8, location = $9, supplier_id = $10, quantity = $11, status = $12, updated_at = $13
		WHERE id = $1
		RETURNING created_at
	`, product.ID, product.Name, product.Barcode, product.BrandName, product.Category, product.Size, product.Color,
		product.Description, product.Location, nullIfEmpty(product.SupplierID), product.Quantity, product.Status,
		product.UpdatedAt)
	err := row.Scan(&product.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, product.ID)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: barcode %s already in use", store.ErrInvalidInput, product.Barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &product, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %s", store.ErrNotFound, id)
	}
	return nil
}

func (s *Store) AdjustProductStock(ctx context.Context, barcode string, delta int) (*domain.StockLevel, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	level, err := adjustProductTx(ctx, tx, barcode, delta)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return level, nil
}

// adjustProductTx applies a signed stock delta to a product row under a row
// lock and recomputes its status in the same statement pair.
func adjustProductTx(ctx context.Context, tx *sql.Tx, barcode string, delta int) (*domain.StockLevel, error) {
	var quantity int
	err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE bar_code = $1 FOR UPDATE`, barcode).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product with barcode %s", store.ErrNotFound, barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("lock product stock: %w", err)
	}

	next := quantity + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: product %s has %d on hand, delta %d", store.ErrInsufficientStock, barcode, quantity, delta)
	}
	status := domain.StockStatusFor(next)
	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = $2, status = $3, updated_at = now() WHERE bar_code = $1
	`, barcode, next, status); err != nil {
		return nil, fmt.Errorf("update product stock: %w", err)
	}
	return &domain.StockLevel{Quantity: next, Status: status}, nil
}

// Product variations.

const variationColumns = `id, product_id, barcode, size, color, price_cents, selling_price_cents, discount_percent, quantity, status, created_at, updated_at`

func scanVariation(row interface{ Scan(...any) error }) (domain.ProductVariation, error) {
	var v domain.ProductVariation
	err := row.Scan(&v.ID, &v.ProductID, &v.Barcode, &v.Size, &v.Color, &v.PriceCents, &v.SellingPriceCents,
		&v.DiscountPercent, &v.Quantity, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *Store) CreateVariations(ctx context.Context, variations []domain.ProductVariation) ([]domain.ProductVariation, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, variation := range variations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_variations (id, product_id, barcode, size, color, price_cents, selling_price_cents, discount_percent, quantity, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, variation.ID, variation.ProductID, variation.Barcode, variation.Size, variation.Color,
			variation.PriceCents, variation.SellingPriceCents, variation.DiscountPercent,
			variation.Quantity, variation.Status, variation.CreatedAt, variation.UpdatedAt)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: variation barcode %s already in use", store.ErrInvalidInput, variation.Barcode)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, variation.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("create variation: %w", err)
		}
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return variations, nil
}

func (s *Store) GetVariation(ctx context.Context, id string) (*domain.ProductVariation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE id = $1`, id)
	variation, err := scanVariation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get variation: %w", err)
	}
	return &variation, nil
}

func (s *Store) ListVariationsByProduct(ctx context.Context, productID string) ([]domain.ProductVariation, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: product %s", store.ErrNotFound, productID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+variationColumns+` FROM product_variations WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()

	result := make([]domain.ProductVariation, 0)
	for rows.Next() {
		variation, err := scanVariation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		result = append(result, variation)
	}
	return result, rows.Err()
}

func (s *Store) UpdateVariation(ctx context.Context, variation domain.ProductVariation) (*domain.ProductVariation, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE product_variations
		SET barcode = $2, size = $3, color = $4, price_cents = $5, selling_price_cents = $6,
		    discount_percent = $7, quantity = $8, status = $9, updated_at = $10
		WHERE id = $1
		RETURNING product_id, created_at
	`, variation.ID, variation.Barcode, variation.Size, variation.Color, variation.PriceCents,
		variation.SellingPriceCents, variation.DiscountPercent, variation.Quantity, variation.Status, variation.UpdatedAt)
	err := row.Scan(&variation.ProductID, &variation.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, variation.ID)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: variation barcode %s already in use", store.ErrInvalidInput, variation.Barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("update variation: %w", err)
	}
	return &variation, nil
}

func (s *Store) DeleteVariation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM product_variations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete variation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete variation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	return nil
}

func (s *Store) AdjustVariationStock(ctx context.Context, id string, delta int) (*domain.StockLevel, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	level, err := adjustVariationTx(ctx, tx, id, delta)
	if err != nil {
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return level, nil
}

func adjustVariationTx(ctx context.Context, tx *sql.Tx, id string, delta int) (*domain.StockLevel, error) {
	var quantity int
	err := tx.QueryRowContext(ctx, `SELECT quantity FROM product_variations WHERE id = $1 FOR UPDATE`, id).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: variation %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock variation stock: %w", err)
	}

	next := quantity + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: variation %s has %d on hand, delta %d", store.ErrInsufficientStock, id, quantity, delta)
	}
	status := domain.StockStatusFor(next)
	if _, err := tx.ExecContext(ctx, `
		UPDATE product_variations SET quantity = $2, status = $3, updated_at = now() WHERE id = $1
	`, id, next, status); err != nil {
		return nil, fmt.Errorf("update variation stock: %w", err)
	}
	return &domain.StockLevel{Quantity: next, Status: status}, nil
}

// Customers and suppliers.

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5)
	`, customer.ID, customer.Name, customer.Email, customer.Phone, customer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &customer, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var customer domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at FROM customers WHERE id = $1
	`, id).Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &customer, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.Phone, &customer.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, email, contact, address, created_at) VALUES ($1, $2, $3, $4, $5, $6)
	`, supplier.ID, supplier.Name, supplier.Email, supplier.Contact, supplier.Address, supplier.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &supplier, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, contact, address, created_at FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var result []domain.Supplier
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.Email, &supplier.Contact, &supplier.Address, &supplier.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		result = append(result, supplier)
	}
	return result, rows.Err()
}

// Orders.

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertOrderHeader(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := insertOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		return nil, err
	}
	// Variation-bearing items consume stock; plain barcode items record the
	// sale without touching inventory.
	for _, item := range order.Items {
		if item.VariationID == "" {
			continue
		}
		if _, err := adjustVariationTx(ctx, tx, item.VariationID, -item.Quantity); err != nil {
			return nil, err
		}
	}
	if err := commit(tx); err != nil {
		return nil, err
	}
	return &order, nil
}

func insertOrderHeader(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, placed_at, paid, payment_type, subtotal_cents, discount_percent, discount_cents, amount_cents, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, order.ID, order.PlacedAt, order.Paid, order.PaymentType, order.SubtotalCents, order.DiscountPercent,
		order.DiscountCents, order.AmountCents, nullIfEmpty(order.CustomerID), order.CreatedAt, order.UpdatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: customer %s", store.ErrNotFound, order.CustomerID)
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, bar_code, variation_id, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, orderID, item.Barcode, nullIfEmpty(item.VariationID), item.Quantity, item.UnitPriceCents)
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: variation %s", store.ErrNotFound, item.VariationID)
		}
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// ReplaceOrder swaps an order's item set wholesale. Variation stock consumed
// by the old items is handed back and the new items consume theirs, all under
// the same transaction, so the update either fully applies or leaves the
// previous state untouched.
func (s *Store) ReplaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE id = $1 FOR UPDATE`, order.ID).Scan(&order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, order.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	deltas := make(map[string]int)
	rows, err := tx.QueryContext(ctx, `
		SELECT variation_id, quantity FROM order_items WHERE order_id = $1 AND variation_id IS NOT NULL
	`, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load old order items: %w", err)
	}
	for rows.Next() {
		var variationID string
		var quantity int
		if err := rows.Scan(&variationID, &quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan old order item: %w", err)
		}
		deltas[variationID] += quantity
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load old order items: %w", err)
	}
	for _, item := range order.Items {
		if item.VariationID != "" {
			deltas[item.VariationID] -= item.Quantity
		}
	}
	for variationID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if _, err := adjustVariationTx(ctx, tx, variationID, delta); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return nil, fmt.Errorf("delete old order items: %w", err)
	}
	if err := insertOrderItems(ctx, tx, order.ID, order.Items); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET placed_at = $2, paid = $3, payment_type = $4, subtotal_cents = $5, discount_percent = $6,
		    discount_cents = $7, amount_cents = $8, customer_id = $9, updated_at = $10
		WHERE id = $1
	`, order.ID, order.PlacedAt, order.Paid, order.PaymentType, order.SubtotalCents, order.DiscountPercent,
		order.DiscountCents, order.AmountCents, nullIfEmpty(order.CustomerID), order.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: customer %s", store.ErrNotFound, order.CustomerID)
		}
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err := commit(tx); err != nil {
		return nil, err
	}
	return &order, nil
}

const orderColumns = `id, placed_at, paid, payment_type, subtotal_cents, discount_percent, discount_cents, amount_cents, COALESCE(customer_id, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.PlacedAt, &o.Paid, &o.PaymentType, &o.SubtotalCents, &o.DiscountPercent,
		&o.DiscountCents, &o.AmountCents, &o.CustomerID, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.loadOrderItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY placed_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := s.loadOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (s *Store) loadOrderItems(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, bar_code, COALESCE(variation_id, ''), quantity, unit_price_cents
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Barcode, &item.VariationID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	return result, rows.Err()
}

// Returns.

func (s *Store) CreateReturns(ctx context.Context, orderID string, items []domain.ReturnItem, returnedAt time.Time) ([]domain.ReturnRecord, error) {
	tx, err := s.beginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var lockedID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %s", store.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	records := make([]domain.ReturnRecord, 0, len(items))
	for _, entry := range items {
		var barcode string
		var variationID sql.NullString
		var orderedQty int
		err := tx.QueryRowContext(ctx, `
			SELECT bar_code, variation_id, quantity FROM order_items WHERE id = $1 AND order_id = $2
		`, entry.OrderItemID, orderID).Scan(&barcode, &variationID, &orderedQty)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: order item %s in order %s", store.ErrNotFound, entry.OrderItemID, orderID)
		}
		if err != nil {
			return nil, fmt.Errorf("load order item: %w", err)
		}

		if entry.Quantity < 1 {
			return nil, fmt.Errorf("%w: return quantity must be at least 1", store.ErrInvalidInput)
		}
		if entry.Quantity > orderedQty {
			return nil, fmt.Errorf("%w: return quantity %d exceeds ordered quantity %d for item %s", store.ErrInvalidInput, entry.Quantity, orderedQty, entry.OrderItemID)
		}

		returnItemID := xid.New("ret")
		salesReturnID := xid.New("sret")
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO return_items (id, order_item_id, variation_id, quantity, reason)
			VALUES ($1, $2, $3, $4, $5)
		`, returnItemID, entry.OrderItemID, variationID, entry.Quantity, entry.Reason); err != nil {
			return nil, fmt.Errorf("insert return item: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sales_return_items (id, order_id, return_item_id, returned_at)
			VALUES ($1, $2, $3, $4)
		`, salesReturnID, orderID, returnItemID, returnedAt); err != nil {
			return nil, fmt.Errorf("insert sales return item: %w", err)
		}

		if variationID.Valid && variationID.String != "" {
			if _, err := adjustVariationTx(ctx, tx, variationID.String, entry.Quantity); err != nil {
				return nil, err
			}
		} else {
			if _, err := adjustProductTx(ctx, tx, barcode, entry.Quantity); err != nil {
				return nil, err
			}
		}

		records = append(records, domain.ReturnRecord{
			ID:           salesReturnID,
			OrderID:      orderID,
			ReturnItemID: returnItemID,
			OrderItemID:  entry.OrderItemID,
			Barcode:      barcode,
			VariationID:  variationID.String,
			Quantity:     entry.Quantity,
			Reason:       entry.Reason,
			ReturnedAt:   returnedAt,
		})
	}

	if err := commit(tx); err != nil {
		return nil, err
	}
	return records, nil
}

const returnRecordQuery = `
	SELECT sr.id, sr.order_id, sr.return_item_id, ri.order_item_id, oi.bar_code,
	       COALESCE(ri.variation_id, ''), ri.quantity, ri.reason, sr.returned_at
	FROM sales_return_items sr
	JOIN return_items ri ON ri.id = sr.return_item_id
	JOIN order_items oi ON oi.id = ri.order_item_id
`

func scanReturnRecord(row interface{ Scan(...any) error }) (domain.ReturnRecord, error) {
	var r domain.ReturnRecord
	err := row.Scan(&r.ID, &r.OrderID, &r.ReturnItemID, &r.OrderItemID, &r.Barcode,
		&r.VariationID, &r.Quantity, &r.Reason, &r.ReturnedAt)
	return r, err
}

func (s *Store) ListReturns(ctx context.Context) ([]domain.ReturnRecord, error) {
	rows, err := s.db.QueryContext(ctx, returnRecordQuery+` ORDER BY sr.returned_at DESC, sr.id`)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var result []domain.ReturnRecord
	for rows.Next() {
		record, err := scanReturnRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

func (s *Store) GetReturn(ctx context.Context, id string) (*domain.ReturnRecord, error) {
	row := s.db.QueryRowContext(ctx, returnRecordQuery+` WHERE sr.id = $1`, id)
	record, err := scanReturnRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: return %s", store.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get return: %w", err)
	}
	return &record, nil
}

// Reports.

func (s *Store) SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error) {
	// to is exclusive; the reported range shows the last day inside it.
	summary := domain.SalesSummary{
		From: from.Format("2006-01-02"),
		To:   to.AddDate(0, 0, -1).Format("2006-01-02"),
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM orders
		WHERE placed_at >= $1 AND placed_at < $2
	`, from, to).Scan(&summary.Orders, &summary.IncomeCents)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &summary, nil
}

func (s *Store) SalesByDate(ctx context.Context, from, to time.Time) ([]domain.DailySales, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(placed_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
		FROM orders
		WHERE placed_at >= $1 AND placed_at < $2
		GROUP BY day
		ORDER BY day
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by date: %w", err)
	}
	defer rows.Close()

	result := make([]domain.DailySales, 0)
	for rows.Next() {
		var day domain.DailySales
		if err := rows.Scan(&day.Date, &day.Orders); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		result = append(result, day)
	}
	return result, rows.Err()
}

func (s *Store) BestSellingProduct(ctx context.Context) (*domain.ProductTally, error) {
	var tally domain.ProductTally
	err := s.db.QueryRowContext(ctx, `
		SELECT oi.bar_code, COALESCE(MAX(p.name), ''), COUNT(*)
		FROM order_items oi
		LEFT JOIN products p ON p.bar_code = oi.bar_code
		GROUP BY oi.bar_code
		ORDER BY COUNT(*) DESC, oi.bar_code
		LIMIT 1
	`).Scan(&tally.Barcode, &tally.Name, &tally.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no sales recorded", store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("best selling product: %w", err)
	}
	return &tally, nil
}

func (s *Store) MostReturnedProduct(ctx context.Context) (*domain.ProductTally, error) {
	var tally domain.ProductTally
	err := s.db.QueryRowContext(ctx, `
		SELECT oi.bar_code, COALESCE(MAX(p.name), ''), COUNT(*)
		FROM return_items ri
		JOIN order_items oi ON oi.id = ri.order_item_id
		LEFT JOIN products p ON p.bar_code = oi.bar_code
		GROUP BY oi.bar_code
		ORDER BY COUNT(*) DESC, oi.bar_code
		LIMIT 1
	`).Scan(&tally.Barcode, &tally.Name, &tally.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no returns recorded", store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("most returned product: %w", err)
	}
	return &tally, nil
}

func (s *Store) PaymentDistribution(ctx context.Context) ([]domain.PaymentTally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payment_type, COUNT(*) FROM orders GROUP BY payment_type ORDER BY payment_type
	`)
	if err != nil {
		return nil, fmt.Errorf("payment distribution: %w", err)
	}
	defer rows.Close()

	result := make([]domain.PaymentTally, 0)
	for rows.Next() {
		var tally domain.PaymentTally
		if err := rows.Scan(&tally.PaymentType, &tally.Orders); err != nil {
			return nil, fmt.Errorf("scan payment tally: %w", err)
		}
		result = append(result, tally)
	}
	return result, rows.Err()
}

// Users and audit trail.

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at) VALUES ($1, $2, $3, $4, $5)
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username %s already exists", store.ErrInvalidInput, user.Username)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, password, role, active, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var result []domain.UserAccount
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET password = $2 WHERE username = $1`, username, password)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %s", store.ErrNotFound, username)
	}
	return nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor, action, entity, detail, at) VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.Actor, entry.Action, entry.Entity, entry.Detail, entry.At)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, action, entity, detail, at FROM audit_logs ORDER BY at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Entity, &entry.Detail, &entry.At); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Helpers.

func nullIfEmpty(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
