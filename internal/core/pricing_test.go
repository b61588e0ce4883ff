package core_test

import (
	"testing"

	"farmagestion/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestMarginFor(t *testing.T) {
	tests := []struct {
		name     string
		purchase string
		sale     string
		want     string
	}{
		{"typical markup", "0.50", "1.20", "140"},
		{"even doubling", "10.00", "20.00", "100"},
		{"rounded to two decimals", "3.00", "4.00", "33.33"},
		{"selling at cost", "5.00", "5.00", "0"},
		{"selling below cost", "10.00", "8.00", "-20"},
		{"zero purchase price", "0", "9.99", "0"},
		{"negative purchase price", "-1.00", "9.99", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.MarginFor(d(tt.purchase), d(tt.sale))
			if !got.Equal(d(tt.want)) {
				t.Errorf("MarginFor(%s, %s) = %s, want %s", tt.purchase, tt.sale, got, tt.want)
			}
		})
	}
}

func TestSalePriceFor(t *testing.T) {
	tests := []struct {
		name     string
		purchase string
		margin   string
		want     string
	}{
		{"typical markup", "0.50", "140", "1.20"},
		{"one hundred percent", "10.00", "100", "20.00"},
		{"rounded to two decimals", "3.00", "33.33", "4.00"},
		{"zero margin", "5.00", "0", "5.00"},
		{"zero purchase price", "0", "50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.SalePriceFor(d(tt.purchase), d(tt.margin))
			if !got.Equal(d(tt.want)) {
				t.Errorf("SalePriceFor(%s, %s) = %s, want %s", tt.purchase, tt.margin, got, tt.want)
			}
		})
	}
}

func TestProduct_PriceSetters(t *testing.T) {
	p := core.Product{PurchasePrice: d("0.50"), SalePrice: d("1.20"), MarginPercent: d("140")}

	// Raising the purchase price shrinks the margin.
	p.SetPurchasePrice(d("0.60"))
	if !p.MarginPercent.Equal(d("100")) {
		t.Errorf("after SetPurchasePrice margin = %s, want 100", p.MarginPercent)
	}

	// Raising the sale price grows it back.
	p.SetSalePrice(d("1.50"))
	if !p.MarginPercent.Equal(d("150")) {
		t.Errorf("after SetSalePrice margin = %s, want 150", p.MarginPercent)
	}

	// Setting the margin rewrites the sale price instead.
	p.SetMargin(d("50"))
	if !p.SalePrice.Equal(d("0.90")) {
		t.Errorf("after SetMargin sale price = %s, want 0.90", p.SalePrice)
	}
	if !p.MarginPercent.Equal(d("50")) {
		t.Errorf("after SetMargin margin = %s, want 50", p.MarginPercent)
	}
}

func TestProduct_MarginDerivedOnSave(t *testing.T) {
	store, ctx := setupStore(t)
	inv := core.NewInventoryService(store)

	// Stored margin is recomputed from the prices, whatever was submitted.
	created, err := inv.CreateProduct(ctx, core.Product{
		Name:          "Paracetamol 500mg",
		ReferenceCode: "MED-001",
		ExpiryDate:    "2027-06-30",
		LotNumber:     "L1",
		Quantity:      100,
		PurchasePrice: d("0.50"),
		SalePrice:     d("1.20"),
		MarginPercent: d("999"),
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !created.MarginPercent.Equal(d("140")) {
		t.Errorf("stored margin = %s, want 140", created.MarginPercent)
	}
}
