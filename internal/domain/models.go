package domain

import "time"

// Payment types accepted on orders.
const (
	PaymentCash       = "CASH"
	PaymentCreditCard = "CREDIT_CARD"
	PaymentDebitCard  = "DEBIT_CARD"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"bar_code"`
	BrandName   string    `json:"brand_name,omitempty"`
	Category    string    `json:"category,omitempty"`
	Size        string    `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	SupplierID  string    `json:"supplier_id,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductVariation struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Barcode           string    `json:"barcode"`
	Size              string    `json:"size,omitempty"`
	Color             string    `json:"color,omitempty"`
	PriceCents        int64     `json:"price_cents"`
	SellingPriceCents int64     `json:"selling_price_cents"`
	DiscountPercent   float64   `json:"discount_percent"`
	Quantity          int       `json:"quantity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a completed sale. AmountCents is always SubtotalCents minus
// DiscountCents, recomputed from the items on every write.
type Order struct {
	ID              string      `json:"id"`
	PlacedAt        time.Time   `json:"placed_at"`
	Paid            bool        `json:"paid"`
	PaymentType     string      `json:"payment_type"`
	SubtotalCents   int64       `json:"subtotal_cents"`
	DiscountPercent float64     `json:"discount_percent"`
	DiscountCents   int64       `json:"discount_cents"`
	AmountCents     int64       `json:"amount_cents"`
	CustomerID      string      `json:"customer_id,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID             string `json:"id"`
	OrderID        string `json:"order_id"`
	Barcode        string `json:"bar_code"`
	VariationID    string `json:"variation_id,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type ReturnItem struct {
	ID          string `json:"id"`
	OrderItemID string `json:"order_item_id"`
	VariationID string `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
}

// SalesReturnItem links a return item back to its order. Every row created
// in one return batch shares the same ReturnedAt timestamp.
type SalesReturnItem struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	ReturnItemID string    `json:"return_item_id"`
	ReturnedAt   time.Time `json:"returned_at"`
}

// ReturnRecord is the joined read model for a processed return.
type ReturnRecord struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"order_id"`
	ReturnItemID string    `json:"return_item_id"`
	OrderItemID  string    `json:"order_item_id"`
	Barcode      string    `json:"bar_code"`
	VariationID  string    `json:"variation_id,omitempty"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason,omitempty"`
	ReturnedAt   time.Time `json:"returned_at"`
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Actor struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuditLog struct {
	ID     string    `json:"id"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Entity string    `json:"entity"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

type StockLevel struct {
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

// Request/response payloads.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type CashierCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderLineRequest struct {
	Barcode        string `json:"bar_code"`
	VariationID    string `json:"variation_id,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type OrderRequest struct {
	PlacedAt        string             `json:"placed_at"`
	Paid            bool               `json:"paid"`
	PaymentType     string             `json:"payment_type"`
	DiscountPercent float64            `json:"discount_percent"`
	CustomerID      string             `json:"customer_id,omitempty"`
	Items           []OrderLineRequest `json:"items"`
}

type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type OrderItemView struct {
	ID             string `json:"id"`
	Barcode        string `json:"bar_code"`
	VariationID    string `json:"variation_id,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type OrderView struct {
	ID              string           `json:"id"`
	PlacedAt        time.Time        `json:"placed_at"`
	Paid            bool             `json:"paid"`
	PaymentType     string           `json:"payment_type"`
	SubtotalCents   int64            `json:"subtotal_cents"`
	DiscountPercent float64          `json:"discount_percent"`
	DiscountCents   int64            `json:"discount_cents"`
	AmountCents     int64            `json:"amount_cents"`
	Customer        *CustomerSummary `json:"customer,omitempty"`
	Items           []OrderItemView  `json:"items"`
}

type ReturnLineRequest struct {
	OrderItemID string `json:"order_item_id"`
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason,omitempty"`
}

type ReturnRequest struct {
	Items []ReturnLineRequest `json:"items"`
}

type ProductRequest struct {
	Name        string `json:"name"`
	Barcode     string `json:"bar_code"`
	BrandName   string `json:"brand_name,omitempty"`
	Category    string `json:"category,omitempty"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	SupplierID  string `json:"supplier_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

type VariationInput struct {
	Barcode           string  `json:"barcode"`
	Size              string  `json:"size,omitempty"`
	Color             string  `json:"color,omitempty"`
	PriceCents        int64   `json:"price_cents"`
	SellingPriceCents int64   `json:"selling_price_cents"`
	DiscountPercent   float64 `json:"discount_percent"`
	Quantity          int     `json:"quantity"`
}

type VariationBatchRequest struct {
	Variations []VariationInput `json:"variations"`
}

type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type SupplierRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

// Report payloads.

type SalesSummary struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Orders      int    `json:"orders"`
	IncomeCents int64  `json:"income_cents"`
}

type DailySales struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

// ProductTally ranks a product by how many sale or return lines mention it,
// not by the quantities on those lines.
type ProductTally struct {
	Barcode string `json:"bar_code"`
	Name    string `json:"name,omitempty"`
	Count   int    `json:"count"`
}

type PaymentTally struct {
	PaymentType string `json:"payment_type"`
	Orders      int    `json:"orders"`
}
