package core

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCard     PaymentMethod = "card"
	PaymentOther    PaymentMethod = "other"
)

// Valid reports whether m is one of the four accepted payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentOther:
		return true
	}
	return false
}

type Category string

const (
	CategoryMedicine  Category = "medicine"
	CategoryEquipment Category = "equipment"
)

// Product is a pharmacy inventory item, medicine or medical equipment.
// MarginPercent is derived from PurchasePrice and SalePrice; it is stored
// for display but recomputed whenever either price changes.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ReferenceCode string          `json:"reference_code"`
	ExpiryDate    string          `json:"expiry_date"` // YYYY-MM-DD
	LotNumber     string          `json:"lot_number"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Description   string          `json:"description"`
	Category      Category        `json:"category"`
}

// Client of the pharmacy. ProductIDs and TotalPurchases are derived views
// recomputed from the sales collection on read; the persisted copies are
// never treated as authoritative.
type Client struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DocumentID     string          `json:"document_id"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	ProductIDs     []string        `json:"product_ids"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
}

// SaleLine is one product entry within a sale or purchase order.
// UnitPrice is a snapshot taken when the line was added, so later price
// edits do not rewrite history. Subtotal = UnitPrice × Quantity.
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Sale is a completed transaction that decremented stock and billed a
// client. Total = Σ line subtotals × (1 − DiscountPercent/100), rounded to
// two decimals. A zero DiscountPercent means no discount.
type Sale struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	Lines           []SaleLine      `json:"lines"`
	Total           decimal.Decimal `json:"total"`
	Date            string          `json:"date"` // YYYY-MM-DD
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type Supplier struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ContactPerson string   `json:"contact_person"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	ProductIDs    []string `json:"product_ids"`
}

// PurchaseOrder records goods ordered from a supplier. Orders are recorded
// only; received quantities are not applied to product stock automatically.
type PurchaseOrder struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Lines      []SaleLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	Date       string          `json:"date"` // YYYY-MM-DD
}

// Note is a free-standing reminder, unrelated to the other entities.
type Note struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
	Completed   bool   `json:"completed"`
}

// SaleProposalLine is one line of an AI-proposed sale.
type SaleProposalLine struct {
	Product  string `json:"product" jsonschema_description:"Product name or reference code, exactly as it appears in the provided catalog"`
	Quantity int    `json:"quantity" jsonschema_description:"Number of units to sell, a positive integer"`
}

// SaleProposal is the structured output of the natural-language sale agent.
// It references clients and products by human-readable identifiers; the
// sale service resolves them against the live collections before commit.
type SaleProposal struct {
	Client          string             `json:"client" jsonschema_description:"Client name or document id, exactly as it appears in the provided client list"`
	PaymentMethod   string             `json:"payment_method" jsonschema_description:"One of: cash, transfer, card, other. Use 'cash' when the event does not say."`
	DiscountPercent string             `json:"discount_percent" jsonschema_description:"Discount percentage between 0 and 100 as a string, '0' when no discount was mentioned"`
	Confidence      float64            `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning       string             `json:"reasoning" jsonschema_description:"Explanation of how the event maps to this sale"`
	Lines           []SaleProposalLine `json:"lines" jsonschema_description:"Products and quantities sold"`
}
