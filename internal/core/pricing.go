package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Purchase price, sale price, and margin percent form a consistency
// triangle: editing either price recomputes the margin, editing the margin
// recomputes the sale price. All derived values are rounded to two decimals.

// MarginFor returns (sale − purchase) / purchase × 100, or zero when the
// purchase price is not positive.
func MarginFor(purchase, sale decimal.Decimal) decimal.Decimal {
	if purchase.Sign() <= 0 {
		return decimal.Zero
	}
	return sale.Sub(purchase).Div(purchase).Mul(hundred).Round(2)
}

// SalePriceFor returns purchase + purchase × margin / 100, or zero when the
// purchase price is not positive.
func SalePriceFor(purchase, margin decimal.Decimal) decimal.Decimal {
	if purchase.Sign() <= 0 {
		return decimal.Zero
	}
	return purchase.Add(purchase.Mul(margin).Div(hundred)).Round(2)
}

// SetPurchasePrice updates the purchase price and rederives the margin.
func (p *Product) SetPurchasePrice(price decimal.Decimal) {
	p.PurchasePrice = price
	p.MarginPercent = MarginFor(p.PurchasePrice, p.SalePrice)
}

// SetSalePrice updates the sale price and rederives the margin.
func (p *Product) SetSalePrice(price decimal.Decimal) {
	p.SalePrice = price
	p.MarginPercent = MarginFor(p.PurchasePrice, p.SalePrice)
}

// SetMargin updates the margin and rederives the sale price from it.
func (p *Product) SetMargin(margin decimal.Decimal) {
	p.MarginPercent = margin
	p.SalePrice = SalePriceFor(p.PurchasePrice, margin)
}

// normalizePricing runs the final-save consistency pass: when both prices
// are positive the margin is recomputed from them, which repairs any drift
// from fields edited out of the expected order.
func (p *Product) normalizePricing() {
	if p.PurchasePrice.Sign() > 0 && p.SalePrice.Sign() > 0 {
		p.MarginPercent = MarginFor(p.PurchasePrice, p.SalePrice)
	}
}
