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

// SaleDraft is the cart being assembled before commit. Lines hold a
// snapshot of each product's sale price at add time.
type SaleDraft struct {
	ClientID        string
	Lines           []SaleLine
	PaymentMethod   PaymentMethod
	DiscountPercent decimal.Decimal
}

// Add appends qty units of p to the draft. A line for a product already in
// the draft accumulates, and every addition is re-validated against the
// product's current stock: the cumulative quantity may never exceed it.
// On rejection the draft is left unchanged.
func (d *SaleDraft) Add(p Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("product %s: %w", p.Name, ErrInvalidQuantity)
	}
	for i := range d.Lines {
		if d.Lines[i].ProductID == p.ID {
			cumulative := d.Lines[i].Quantity + qty
			if cumulative > p.Quantity {
				return fmt.Errorf("product %s: have %d, want %d: %w",
					p.Name, p.Quantity, cumulative, ErrInsufficientStock)
			}
			d.Lines[i].Quantity = cumulative
			d.Lines[i].Subtotal = d.Lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(cumulative)))
			return nil
		}
	}
	if qty > p.Quantity {
		return fmt.Errorf("product %s: have %d, want %d: %w",
			p.Name, p.Quantity, qty, ErrInsufficientStock)
	}
	d.Lines = append(d.Lines, SaleLine{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.SalePrice,
		Subtotal:  p.SalePrice.Mul(decimal.NewFromInt(int64(qty))),
	})
	return nil
}

// Remove drops the line for productID, if present.
func (d *SaleDraft) Remove(productID string) {
	kept := d.Lines[:0]
	for _, line := range d.Lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	d.Lines = kept
}

// Subtotal is the sum of line subtotals before any discount.
func (d *SaleDraft) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range d.Lines {
		sum = sum.Add(line.Subtotal)
	}
	return sum
}

// Total applies the discount multiplicatively and rounds to two decimals.
func (d *SaleDraft) Total() decimal.Decimal {
	total := d.Subtotal()
	if d.DiscountPercent.Sign() > 0 {
		total = total.Mul(decimal.NewFromInt(1).Sub(d.DiscountPercent.Div(hundred)))
	}
	return total.Round(2)
}

// SaleFilter narrows the sales history. Zero values mean "no constraint";
// Date matches exactly, MinTotal/MaxTotal bound the sale total inclusively.
type SaleFilter struct {
	Date     string
	ClientID string
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
}

// SaleStats is the dashboard view of the sales collection.
type SaleStats struct {
	SalesToday   int
	RevenueToday decimal.Decimal
	RevenueTotal decimal.Decimal
	AverageSale  decimal.Decimal
}

// SaleService validates and commits sale transactions against the live
// product collection.
type SaleService interface {
	Sales(ctx context.Context) ([]Sale, error)
	// ListSales returns the filtered history, newest first.
	ListSales(ctx context.Context, filter SaleFilter) ([]Sale, error)
	// Commit turns a draft into a persisted sale: it re-validates every line
	// against live stock, and either decrements all involved products and
	// appends the sale, or rejects the whole transaction without mutating
	// anything.
	Commit(ctx context.Context, draft SaleDraft) (*Sale, error)
	// ResolveDraft builds a draft from product selections by id, applying
	// the same add-time stock validation as interactive cart building.
	ResolveDraft(ctx context.Context, clientID string, selections []Selection,
		method PaymentMethod, discount decimal.Decimal) (*SaleDraft, error)
	// ResolveProposal matches an AI sale proposal's human-readable client
	// and product references against the live collections.
	ResolveProposal(ctx context.Context, p SaleProposal) (*SaleDraft, error)
	Stats(ctx context.Context) (*SaleStats, error)
}

// Selection is one (product id, quantity) pick for ResolveDraft.
type Selection struct {
	ProductID string
	Quantity  int
}

type saleService struct {
	store storage.Store
}

func NewSaleService(store storage.Store) SaleService {
	return &saleService{store: store}
}

func (s *saleService) Sales(ctx context.Context) ([]Sale, error) {
	return loadSales(ctx, s.store)
}

func (s *saleService) ListSales(ctx context.Context, filter SaleFilter) ([]Sale, error) {
	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}

	var matched []Sale
	for _, sale := range sales {
		if filter.Date != "" && sale.Date != filter.Date {
			continue
		}
		if filter.ClientID != "" && sale.ClientID != filter.ClientID {
			continue
		}
		if filter.MinTotal != nil && sale.Total.LessThan(*filter.MinTotal) {
			continue
		}
		if filter.MaxTotal != nil && sale.Total.GreaterThan(*filter.MaxTotal) {
			continue
		}
		matched = append(matched, sale)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})
	return matched, nil
}

func (s *saleService) Commit(ctx context.Context, draft SaleDraft) (*Sale, error) {
	if draft.ClientID == "" {
		return nil, ErrNoClient
	}
	if len(draft.Lines) == 0 {
		return nil, ErrEmptySale
	}
	if draft.DiscountPercent.IsNegative() || draft.DiscountPercent.GreaterThan(hundred) {
		return nil, fmt.Errorf("discount %s%%: %w", draft.DiscountPercent, ErrInvalidDiscount)
	}
	if !draft.PaymentMethod.Valid() {
		return nil, fmt.Errorf("payment method %q: %w", draft.PaymentMethod, ErrMissingField)
	}

	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return nil, err
	}
	clientExists := false
	for _, c := range clients {
		if c.ID == draft.ClientID {
			clientExists = true
			break
		}
	}
	if !clientExists {
		return nil, fmt.Errorf("client %s: %w", draft.ClientID, ErrNotFound)
	}

	// Re-validate against the live product collection. Stock may have
	// changed since the lines were added; any shortfall rejects the whole
	// transaction before a single quantity is touched. Quantities are
	// summed per product so a draft holding several lines for the same
	// product cannot pass line by line and drive stock negative.
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	needed := make(map[string]int, len(draft.Lines))
	for _, line := range draft.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: %w", line.ProductID, ErrInvalidQuantity)
		}
		needed[line.ProductID] += line.Quantity
	}
	for id, qty := range needed {
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("product %s no longer exists: %w", id, ErrStockConflict)
		}
		if qty > products[i].Quantity {
			return nil, fmt.Errorf("product %s: have %d, want %d: %w",
				products[i].Name, products[i].Quantity, qty, ErrStockConflict)
		}
	}

	for _, line := range draft.Lines {
		products[index[line.ProductID]].Quantity -= line.Quantity
	}

	sale := Sale{
		ID:              uuid.NewString(),
		ClientID:        draft.ClientID,
		Lines:           draft.Lines,
		Total:           draft.Total(),
		Date:            time.Now().Format("2006-01-02"),
		PaymentMethod:   draft.PaymentMethod,
		DiscountPercent: draft.DiscountPercent,
	}

	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}
	sales = append(sales, sale)

	if err := saveProducts(ctx, s.store, products); err != nil {
		return nil, err
	}
	if err := saveSales(ctx, s.store, sales); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *saleService) ResolveDraft(ctx context.Context, clientID string, selections []Selection,
	method PaymentMethod, discount decimal.Decimal) (*SaleDraft, error) {

	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	draft := &SaleDraft{ClientID: clientID, PaymentMethod: method, DiscountPercent: discount}
	for _, sel := range selections {
		i, ok := index[sel.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", sel.ProductID, ErrNotFound)
		}
		if err := draft.Add(products[i], sel.Quantity); err != nil {
			return nil, err
		}
	}
	return draft, nil
}

func (s *saleService) Stats(ctx context.Context) (*SaleStats, error) {
	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	stats := &SaleStats{RevenueToday: decimal.Zero, RevenueTotal: decimal.Zero, AverageSale: decimal.Zero}
	for _, sale := range sales {
		stats.RevenueTotal = stats.RevenueTotal.Add(sale.Total)
		if sale.Date == today {
			stats.SalesToday++
			stats.RevenueToday = stats.RevenueToday.Add(sale.Total)
		}
	}
	if len(sales) > 0 {
		stats.AverageSale = stats.RevenueTotal.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	}
	return stats, nil
}
