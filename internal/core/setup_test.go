package core_test

import (
	"context"
	"testing"

	"farmagestion/internal/core"
	"farmagestion/internal/storage"

	"github.com/shopspring/decimal"
)

// setupStore returns an empty in-memory store and a context, the base for
// every service test in this package.
func setupStore(t *testing.T) (*storage.Memory, context.Context) {
	t.Helper()
	return storage.NewMemory(), context.Background()
}

// createProduct inserts a product through the inventory service so it gets
// an id and a derived margin, then returns the stored copy.
func createProduct(t *testing.T, ctx context.Context, inv core.InventoryService,
	name, ref string, qty int, purchase, sale float64) core.Product {
	t.Helper()
	p, err := inv.CreateProduct(ctx, core.Product{
		Name:          name,
		ReferenceCode: ref,
		ExpiryDate:    "2027-06-30",
		LotNumber:     "LOT-" + ref,
		Quantity:      qty,
		PurchasePrice: decimal.NewFromFloat(purchase),
		SalePrice:     decimal.NewFromFloat(sale),
		Category:      core.CategoryMedicine,
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s) failed: %v", name, err)
	}
	return *p
}

func createClient(t *testing.T, ctx context.Context, clients core.ClientService, name, document string) core.Client {
	t.Helper()
	c, err := clients.CreateClient(ctx, core.Client{Name: name, DocumentID: document})
	if err != nil {
		t.Fatalf("CreateClient(%s) failed: %v", name, err)
	}
	return *c
}

func createSupplier(t *testing.T, ctx context.Context, suppliers core.SupplierService, name string) core.Supplier {
	t.Helper()
	sup, err := suppliers.CreateSupplier(ctx, core.Supplier{Name: name})
	if err != nil {
		t.Fatalf("CreateSupplier(%s) failed: %v", name, err)
	}
	return *sup
}

// commitSale builds a draft from the selections and commits it, failing the
// test on any error.
func commitSale(t *testing.T, ctx context.Context, sales core.SaleService,
	clientID string, selections []core.Selection, discount decimal.Decimal) core.Sale {
	t.Helper()
	draft, err := sales.ResolveDraft(ctx, clientID, selections, core.PaymentCash, discount)
	if err != nil {
		t.Fatalf("ResolveDraft failed: %v", err)
	}
	sale, err := sales.Commit(ctx, *draft)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return *sale
}
