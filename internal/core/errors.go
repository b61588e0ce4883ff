package core

import "errors"

// Every failure in this package is a user-input validation failure; none is
// fatal. Services wrap these sentinels with context so callers can both
// display the message and branch with errors.Is.
var (
	// ErrNotFound: a referenced entity id does not exist in its collection.
	ErrNotFound = errors.New("not found")

	// ErrMissingField: a required form field is empty.
	ErrMissingField = errors.New("required field missing")

	// ErrDuplicateDocument: a client with the same document id already exists.
	ErrDuplicateDocument = errors.New("document id already registered")

	// ErrInvalidQuantity: a line quantity is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInsufficientStock: the requested quantity exceeds available stock at
	// the time the line is added to the draft.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStockConflict: stock changed between drafting and commit; the live
	// product collection can no longer cover a line. The whole transaction is
	// rejected and nothing is mutated.
	ErrStockConflict = errors.New("inventory changed since sale was drafted")

	// ErrNoClient: the sale has no client selected.
	ErrNoClient = errors.New("no client selected")

	// ErrEmptySale: the sale has no line items.
	ErrEmptySale = errors.New("sale has no products")

	// ErrInvalidDiscount: discount percent outside [0,100].
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")

	// ErrClientHasSales: deletion blocked because sales reference the client.
	ErrClientHasSales = errors.New("client has associated sales")

	// ErrSupplierHasOrders: deletion blocked because purchase orders
	// reference the supplier.
	ErrSupplierHasOrders = errors.New("supplier has associated orders")
)
