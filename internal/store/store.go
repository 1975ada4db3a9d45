// Package store defines the persistence contract shared by the postgres and
// in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"

	"retailpos/backend/internal/domain"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a write fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock is returned when a stock delta would drive a
	// quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrTransactionFailed wraps infrastructure failures that rolled back a
	// multi-step write.
	ErrTransactionFailed = errors.New("transaction failed")
)

type Repository interface {
	// Products.
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustProductStock(ctx context.Context, barcode string, delta int) (*domain.StockLevel, error)

	// Product variations.
	CreateVariations(ctx context.Context, variations []domain.ProductVariation) ([]domain.ProductVariation, error)
	GetVariation(ctx context.Context, id string) (*domain.ProductVariation, error)
	ListVariationsByProduct(ctx context.Context, productID string) ([]domain.ProductVariation, error)
	UpdateVariation(ctx context.Context, variation domain.ProductVariation) (*domain.ProductVariation, error)
	DeleteVariation(ctx context.Context, id string) error
	AdjustVariationStock(ctx context.Context, id string, delta int) (*domain.StockLevel, error)

	// Customers and suppliers.
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)

	// Orders. CreateOrder and ReplaceOrder persist the order header and its
	// items in one transaction; ReplaceOrder swaps the item set wholesale and
	// reconciles variation stock.
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	ReplaceOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// Returns. CreateReturns processes a batch against one order
	// all-or-nothing: every row shares returnedAt and restocking happens in
	// the same transaction.
	CreateReturns(ctx context.Context, orderID string, items []domain.ReturnItem, returnedAt time.Time) ([]domain.ReturnRecord, error)
	ListReturns(ctx context.Context) ([]domain.ReturnRecord, error)
	GetReturn(ctx context.Context, id string) (*domain.ReturnRecord, error)

	// Reports.
	SalesSummary(ctx context.Context, from, to time.Time) (*domain.SalesSummary, error)
	SalesByDate(ctx context.Context, from, to time.Time) ([]domain.DailySales, error)
	BestSellingProduct(ctx context.Context) (*domain.ProductTally, error)
	MostReturnedProduct(ctx context.Context) (*domain.ProductTally, error)
	PaymentDistribution(ctx context.Context) ([]domain.PaymentTally, error)

	// Users and audit trail.
	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)

	Close() error
}
