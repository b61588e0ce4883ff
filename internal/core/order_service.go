package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmagestion/internal/storage"
)

// SupplierHistory summarizes a supplier's purchase orders.
type SupplierHistory struct {
	SupplierID    string
	OrderCount    int
	LastOrderDate string
	TotalSpent    decimal.Decimal
}

// OrderService records purchase orders placed with suppliers. Order lines
// are priced at the products' current purchase prices; ordered quantities
// are recorded only and never applied to stock.
type OrderService interface {
	Orders(ctx context.Context) ([]PurchaseOrder, error)
	// OrdersFor returns a supplier's orders, newest first.
	OrdersFor(ctx context.Context, supplierID string) ([]PurchaseOrder, error)
	CreateOrder(ctx context.Context, supplierID string, selections []Selection) (*PurchaseOrder, error)
	History(ctx context.Context, supplierID string) (*SupplierHistory, error)
}

type orderService struct {
	store storage.Store
}

func NewOrderService(store storage.Store) OrderService {
	return &orderService{store: store}
}

func (s *orderService) Orders(ctx context.Context) ([]PurchaseOrder, error) {
	return loadOrders(ctx, s.store)
}

func (s *orderService) OrdersFor(ctx context.Context, supplierID string) ([]PurchaseOrder, error) {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	var matched []PurchaseOrder
	for _, o := range orders {
		if o.SupplierID == supplierID {
			matched = append(matched, o)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})
	return matched, nil
}

func (s *orderService) CreateOrder(ctx context.Context, supplierID string, selections []Selection) (*PurchaseOrder, error) {
	if supplierID == "" {
		return nil, fmt.Errorf("supplier: %w", ErrMissingField)
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("order has no products: %w", ErrMissingField)
	}

	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	supplierExists := false
	for _, sup := range suppliers {
		if sup.ID == supplierID {
			supplierExists = true
			break
		}
	}
	if !supplierExists {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}

	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	order := PurchaseOrder{
		ID:         uuid.NewString(),
		SupplierID: supplierID,
		Date:       time.Now().Format("2006-01-02"),
		Total:      decimal.Zero,
	}
	for _, sel := range selections {
		i, ok := index[sel.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", sel.ProductID, ErrNotFound)
		}
		if sel.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: %w", products[i].Name, ErrInvalidQuantity)
		}
		unitPrice := products[i].PurchasePrice
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(sel.Quantity)))
		order.Lines = append(order.Lines, SaleLine{
			ProductID: sel.ProductID,
			Quantity:  sel.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
		order.Total = order.Total.Add(subtotal)
	}
	order.Total = order.Total.Round(2)

	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return nil, err
	}
	orders = append(orders, order)
	if err := saveOrders(ctx, s.store, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) History(ctx context.Context, supplierID string) (*SupplierHistory, error) {
	orders, err := s.OrdersFor(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	history := &SupplierHistory{SupplierID: supplierID, TotalSpent: decimal.Zero}
	for _, o := range orders {
		history.OrderCount++
		history.TotalSpent = history.TotalSpent.Add(o.Total)
		if o.Date > history.LastOrderDate {
			history.LastOrderDate = o.Date
		}
	}
	return history, nil
}
