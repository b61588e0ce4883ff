package core_test

import (
	"errors"
	"testing"
	"time"

	"farmagestion/internal/core"

	"github.com/shopspring/decimal"
)

func TestSaleDraft_CumulativeLines(t *testing.T) {
	p := core.Product{ID: "p1", Name: "Paracetamol 500mg", Quantity: 100, SalePrice: d("1.20")}

	var draft core.SaleDraft
	if err := draft.Add(p, 3); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := draft.Add(p, 2); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	if len(draft.Lines) != 1 {
		t.Fatalf("expected one accumulated line, got %d", len(draft.Lines))
	}
	line := draft.Lines[0]
	if line.Quantity != 5 {
		t.Errorf("line quantity = %d, want 5", line.Quantity)
	}
	if !line.Subtotal.Equal(d("6.00")) {
		t.Errorf("line subtotal = %s, want 6.00", line.Subtotal)
	}
}

func TestSaleDraft_AddRejectsOverStock(t *testing.T) {
	p := core.Product{ID: "p1", Name: "Paracetamol 500mg", Quantity: 4, SalePrice: d("1.20")}

	var draft core.SaleDraft
	if err := draft.Add(p, 3); err != nil {
		t.Fatalf("Add within stock failed: %v", err)
	}

	// 3 already drafted; 2 more would exceed the 4 on hand.
	err := draft.Add(p, 2)
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The rejected addition must not have touched the draft.
	if draft.Lines[0].Quantity != 3 {
		t.Errorf("line quantity after rejection = %d, want 3", draft.Lines[0].Quantity)
	}
	if !draft.Subtotal().Equal(d("3.60")) {
		t.Errorf("subtotal after rejection = %s, want 3.60", draft.Subtotal())
	}
}

func TestSaleDraft_AddRejectsNonPositiveQuantity(t *testing.T) {
	p := core.Product{ID: "p1", Name: "Paracetamol 500mg", Quantity: 10, SalePrice: d("1.20")}

	var draft core.SaleDraft
	for _, qty := range []int{0, -1} {
		if err := draft.Add(p, qty); !errors.Is(err, core.ErrInvalidQuantity) {
			t.Errorf("Add(qty=%d): expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestSaleDraft_TotalWithDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal string
		discount string
		want     string
	}{
		{"no discount", "100.00", "0", "100.00"},
		{"ten percent", "100.00", "10", "90.00"},
		{"rounding", "9.99", "15", "8.49"},
		{"full discount", "50.00", "100", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.Product{ID: "p1", Name: "X", Quantity: 1, SalePrice: d(tt.subtotal)}
			draft := core.SaleDraft{DiscountPercent: d(tt.discount)}
			if err := draft.Add(p, 1); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
			if got := draft.Total(); !got.Equal(d(tt.want)) {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSaleDraft_Remove(t *testing.T) {
	a := core.Product{ID: "a", Name: "A", Quantity: 10, SalePrice: d("1.00")}
	b := core.Product{ID: "b", Name: "B", Quantity: 10, SalePrice: d("2.00")}

	var draft core.SaleDraft
	if err := draft.Add(a, 1); err != nil {
		t.Fatal(err)
	}
	if err := draft.Add(b, 1); err != nil {
		t.Fatal(err)
	}

	draft.Remove("a")
	if len(draft.Lines) != 1 || draft.Lines[0].ProductID != "b" {
		t.Errorf("expected only product b to remain, got %+v", draft.Lines)
	}
}

func TestSaleService_CommitDecrementsStock(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	sale := commitSale(t, ctx, sales, client.ID,
		[]core.Selection{{ProductID: product.ID, Quantity: 5}}, decimal.Zero)

	if !sale.Total.Equal(d("6.00")) {
		t.Errorf("sale total = %s, want 6.00", sale.Total)
	}
	if sale.Date != time.Now().Format("2006-01-02") {
		t.Errorf("sale date = %s, want today", sale.Date)
	}

	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 95 {
		t.Errorf("stock after sale = %d, want 95", stored.Quantity)
	}

	history, err := sales.Sales(ctx)
	if err != nil {
		t.Fatalf("Sales failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected one persisted sale, got %d", len(history))
	}
}

func TestSaleService_CommitValidation(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	line := core.SaleLine{ProductID: product.ID, Quantity: 1, UnitPrice: d("1.20"), Subtotal: d("1.20")}

	tests := []struct {
		name    string
		draft   core.SaleDraft
		wantErr error
	}{
		{
			name:    "no client",
			draft:   core.SaleDraft{Lines: []core.SaleLine{line}, PaymentMethod: core.PaymentCash},
			wantErr: core.ErrNoClient,
		},
		{
			name:    "no lines",
			draft:   core.SaleDraft{ClientID: client.ID, PaymentMethod: core.PaymentCash},
			wantErr: core.ErrEmptySale,
		},
		{
			name: "negative discount",
			draft: core.SaleDraft{ClientID: client.ID, Lines: []core.SaleLine{line},
				PaymentMethod: core.PaymentCash, DiscountPercent: d("-5")},
			wantErr: core.ErrInvalidDiscount,
		},
		{
			name: "discount above 100",
			draft: core.SaleDraft{ClientID: client.ID, Lines: []core.SaleLine{line},
				PaymentMethod: core.PaymentCash, DiscountPercent: d("101")},
			wantErr: core.ErrInvalidDiscount,
		},
		{
			name: "unknown payment method",
			draft: core.SaleDraft{ClientID: client.ID, Lines: []core.SaleLine{line},
				PaymentMethod: "iou"},
			wantErr: core.ErrMissingField,
		},
		{
			name: "unknown client",
			draft: core.SaleDraft{ClientID: "nope", Lines: []core.SaleLine{line},
				PaymentMethod: core.PaymentCash},
			wantErr: core.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sales.Commit(ctx, tt.draft); !errors.Is(err, tt.wantErr) {
				t.Errorf("Commit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// None of the rejected commits may have touched stock.
	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 100 {
		t.Errorf("stock after rejected commits = %d, want 100", stored.Quantity)
	}
}

func TestSaleService_CommitAggregatesDuplicateLines(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	// Two lines for the same product, each within stock on its own but
	// asking for 120 of the 100 on hand together. The commit must weigh
	// them as one.
	draft := core.SaleDraft{
		ClientID:      client.ID,
		PaymentMethod: core.PaymentCash,
		Lines: []core.SaleLine{
			{ProductID: product.ID, Quantity: 60, UnitPrice: d("1.20"), Subtotal: d("72.00")},
			{ProductID: product.ID, Quantity: 60, UnitPrice: d("1.20"), Subtotal: d("72.00")},
		},
	}

	if _, err := sales.Commit(ctx, draft); !errors.Is(err, core.ErrStockConflict) {
		t.Fatalf("expected ErrStockConflict, got %v", err)
	}

	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 100 {
		t.Errorf("stock after rejected commit = %d, want 100", stored.Quantity)
	}

	// Duplicate lines that fit together are still a valid sale.
	draft.Lines[0].Quantity = 30
	draft.Lines[0].Subtotal = d("36.00")
	sale, err := sales.Commit(ctx, draft)
	if err != nil {
		t.Fatalf("Commit of fitting duplicate lines failed: %v", err)
	}
	if !sale.Total.Equal(d("108.00")) {
		t.Errorf("sale total = %s, want 108.00", sale.Total)
	}
	stored, err = inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 10 {
		t.Errorf("stock after sale = %d, want 10", stored.Quantity)
	}
}

func TestSaleService_CommitRejectsNonPositiveLine(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	// A negative line would increment stock through the decrement loop.
	for _, qty := range []int{0, -5} {
		draft := core.SaleDraft{
			ClientID:      client.ID,
			PaymentMethod: core.PaymentCash,
			Lines: []core.SaleLine{
				{ProductID: product.ID, Quantity: qty, UnitPrice: d("1.20")},
			},
		}
		if _, err := sales.Commit(ctx, draft); !errors.Is(err, core.ErrInvalidQuantity) {
			t.Errorf("Commit(qty=%d): expected ErrInvalidQuantity, got %v", qty, err)
		}
	}

	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 100 {
		t.Errorf("stock after rejected commits = %d, want 100", stored.Quantity)
	}
}

func TestSaleService_ResolveDraftRejectsOversell(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	_, err := sales.ResolveDraft(ctx, client.ID,
		[]core.Selection{{ProductID: product.ID, Quantity: 150}}, core.PaymentCash, decimal.Zero)
	if !errors.Is(err, core.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 100 {
		t.Errorf("stock after rejected draft = %d, want 100", stored.Quantity)
	}
}

func TestSaleService_CommitRejectsStaleDraft(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Omeprazol 20mg", "MED-003", 10, 1.80, 4.50)
	client := createClient(t, ctx, clients, "María García", "12345678A")

	// Both drafts are valid against the starting stock of 10.
	first, err := sales.ResolveDraft(ctx, client.ID,
		[]core.Selection{{ProductID: product.ID, Quantity: 8}}, core.PaymentCash, decimal.Zero)
	if err != nil {
		t.Fatalf("ResolveDraft failed: %v", err)
	}
	second, err := sales.ResolveDraft(ctx, client.ID,
		[]core.Selection{{ProductID: product.ID, Quantity: 8}}, core.PaymentCard, decimal.Zero)
	if err != nil {
		t.Fatalf("ResolveDraft failed: %v", err)
	}

	if _, err := sales.Commit(ctx, *first); err != nil {
		t.Fatalf("first Commit failed: %v", err)
	}

	// Only 2 units remain; the second draft must be rejected whole.
	if _, err := sales.Commit(ctx, *second); !errors.Is(err, core.ErrStockConflict) {
		t.Fatalf("expected ErrStockConflict, got %v", err)
	}

	stored, err := inv.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if stored.Quantity != 2 {
		t.Errorf("stock after rejected commit = %d, want 2", stored.Quantity)
	}
	history, err := sales.Sales(ctx)
	if err != nil {
		t.Fatalf("Sales failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected one persisted sale, got %d", len(history))
	}
}

func TestSaleService_CommitRejectsDeletedProduct(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Jeringa 5ml", "EQ-001", 50, 0.10, 0.30)
	client := createClient(t, ctx, clients, "Juan Pérez", "87654321B")

	draft, err := sales.ResolveDraft(ctx, client.ID,
		[]core.Selection{{ProductID: product.ID, Quantity: 2}}, core.PaymentCash, decimal.Zero)
	if err != nil {
		t.Fatalf("ResolveDraft failed: %v", err)
	}

	if err := inv.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	if _, err := sales.Commit(ctx, *draft); !errors.Is(err, core.ErrStockConflict) {
		t.Errorf("expected ErrStockConflict for deleted product, got %v", err)
	}
}

func TestSaleService_ListSales(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	maria := createClient(t, ctx, clients, "María García", "12345678A")
	juan := createClient(t, ctx, clients, "Juan Pérez", "87654321B")

	commitSale(t, ctx, sales, maria.ID, []core.Selection{{ProductID: product.ID, Quantity: 1}}, decimal.Zero)  // 1.20
	commitSale(t, ctx, sales, juan.ID, []core.Selection{{ProductID: product.ID, Quantity: 10}}, decimal.Zero)  // 12.00
	commitSale(t, ctx, sales, maria.ID, []core.Selection{{ProductID: product.ID, Quantity: 50}}, decimal.Zero) // 60.00

	byClient, err := sales.ListSales(ctx, core.SaleFilter{ClientID: maria.ID})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(byClient) != 2 {
		t.Errorf("client filter matched %d sales, want 2", len(byClient))
	}

	min, max := d("10.00"), d("20.00")
	byTotal, err := sales.ListSales(ctx, core.SaleFilter{MinTotal: &min, MaxTotal: &max})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(byTotal) != 1 || !byTotal[0].Total.Equal(d("12.00")) {
		t.Errorf("total range filter = %+v, want the single 12.00 sale", byTotal)
	}

	today, err := sales.ListSales(ctx, core.SaleFilter{Date: time.Now().Format("2006-01-02")})
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(today) != 3 {
		t.Errorf("date filter matched %d sales, want 3", len(today))
	}
}

func TestSaleService_Stats(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)

	empty, err := sales.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if empty.SalesToday != 0 || !empty.RevenueTotal.IsZero() || !empty.AverageSale.IsZero() {
		t.Errorf("stats over empty history = %+v, want zeros", empty)
	}

	product := createProduct(t, ctx, inv, "Paracetamol 500mg", "MED-001", 100, 0.50, 1.20)
	client := createClient(t, ctx, clients, "María García", "12345678A")
	commitSale(t, ctx, sales, client.ID, []core.Selection{{ProductID: product.ID, Quantity: 10}}, decimal.Zero) // 12.00
	commitSale(t, ctx, sales, client.ID, []core.Selection{{ProductID: product.ID, Quantity: 5}}, decimal.Zero)  // 6.00

	stats, err := sales.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.SalesToday != 2 {
		t.Errorf("SalesToday = %d, want 2", stats.SalesToday)
	}
	if !stats.RevenueTotal.Equal(d("18.00")) {
		t.Errorf("RevenueTotal = %s, want 18.00", stats.RevenueTotal)
	}
	if !stats.AverageSale.Equal(d("9.00")) {
		t.Errorf("AverageSale = %s, want 9.00", stats.AverageSale)
	}
}
