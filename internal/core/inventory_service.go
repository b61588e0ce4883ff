package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmagestion/internal/storage"
)

// lowStockThreshold marks products that should be reordered soon.
const lowStockThreshold = 10

// expiryWarningMonths is the look-ahead window for the expiring-soon count.
const expiryWarningMonths = 3

// Product sort orders accepted by SearchProducts.
const (
	SortNameAsc     = "name-asc"
	SortNameDesc    = "name-desc"
	SortQuantityAsc = "quantity-asc"
	SortQuantityDsc = "quantity-desc"
	SortExpiryAsc   = "expiry-asc"
	SortExpiryDesc  = "expiry-desc"
)

// ProductFilter narrows and orders the product list. Query matches name,
// reference code, or description, case-insensitively. An empty Category
// means all categories.
type ProductFilter struct {
	Query    string
	Category Category
	SortBy   string
}

// InventoryStats is the dashboard view of the product collection.
type InventoryStats struct {
	TotalProducts int
	Medicines     int
	Equipment     int
	LowStock      int
	ExpiringSoon  int
}

// InventoryService manages the product collection: CRUD, catalog search,
// and the pricing consistency pass on every save. Deleting a product that
// appears in historical sales is allowed; reports fall back to a
// placeholder name for such lines.
type InventoryService interface {
	Products(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, p Product) (*Product, error)
	UpdateProduct(ctx context.Context, p Product) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	Stats(ctx context.Context) (*InventoryStats, error)
}

type inventoryService struct {
	store storage.Store
}

func NewInventoryService(store storage.Store) InventoryService {
	return &inventoryService{store: store}
}

func (s *inventoryService) Products(ctx context.Context) ([]Product, error) {
	return loadProducts(ctx, s.store)
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*Product, error) {
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
}

func validateProduct(p Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("product name: %w", ErrMissingField)
	case strings.TrimSpace(p.ReferenceCode) == "":
		return fmt.Errorf("reference code: %w", ErrMissingField)
	case strings.TrimSpace(p.ExpiryDate) == "":
		return fmt.Errorf("expiry date: %w", ErrMissingField)
	case strings.TrimSpace(p.LotNumber) == "":
		return fmt.Errorf("lot number: %w", ErrMissingField)
	}
	if _, err := time.Parse("2006-01-02", p.ExpiryDate); err != nil {
		return fmt.Errorf("invalid expiry date %q: %w", p.ExpiryDate, err)
	}
	if p.Quantity < 0 || p.PurchasePrice.IsNegative() || p.SalePrice.IsNegative() {
		return fmt.Errorf("quantity and prices must not be negative")
	}
	return nil
}

func (s *inventoryService) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if p.Category == "" {
		p.Category = CategoryMedicine
	}
	p.ID = uuid.NewString()
	p.normalizePricing()

	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	products = append(products, p)
	if err := saveProducts(ctx, s.store, products); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, p Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.normalizePricing()

	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			if err := saveProducts(ctx, s.store, products); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return saveProducts(ctx, s.store, kept)
}

func (s *inventoryService) SearchProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var matched []Product
	for _, p := range products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.ReferenceCode), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		matched = append(matched, p)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortNameAsc
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch sortBy {
		case SortNameDesc:
			return a.Name > b.Name
		case SortQuantityAsc:
			return a.Quantity < b.Quantity
		case SortQuantityDsc:
			return a.Quantity > b.Quantity
		case SortExpiryAsc:
			return a.ExpiryDate < b.ExpiryDate
		case SortExpiryDesc:
			return a.ExpiryDate > b.ExpiryDate
		default:
			return a.Name < b.Name
		}
	})
	return matched, nil
}

func (s *inventoryService) Stats(ctx context.Context) (*InventoryStats, error) {
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}

	warningCeiling := time.Now().AddDate(0, expiryWarningMonths, 0).Format("2006-01-02")
	stats := &InventoryStats{TotalProducts: len(products)}
	for _, p := range products {
		switch p.Category {
		case CategoryMedicine:
			stats.Medicines++
		case CategoryEquipment:
			stats.Equipment++
		}
		if p.Quantity < lowStockThreshold {
			stats.LowStock++
		}
		if p.ExpiryDate <= warningCeiling {
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}
