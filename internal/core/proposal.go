package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize cleans up agent output: trimmed fields, lowercase payment
// method, and common placeholders for "no discount".
func (p *SaleProposal) Normalize() {
	p.Client = strings.TrimSpace(p.Client)
	p.PaymentMethod = strings.ToLower(strings.TrimSpace(p.PaymentMethod))
	p.DiscountPercent = strings.TrimSpace(p.DiscountPercent)

	if p.PaymentMethod == "" {
		p.PaymentMethod = string(PaymentCash)
	}
	if p.DiscountPercent == "" || strings.ToLower(p.DiscountPercent) == "null" || strings.ToLower(p.DiscountPercent) == "none" {
		p.DiscountPercent = "0"
	}
	for i := range p.Lines {
		p.Lines[i].Product = strings.TrimSpace(p.Lines[i].Product)
	}
}

// Validate enforces the same constraints a hand-entered sale faces: a
// client reference, at least one line, positive quantities, a known payment
// method, and a discount in [0,100].
func (p *SaleProposal) Validate() error {
	if p.Client == "" {
		return ErrNoClient
	}
	if len(p.Lines) == 0 {
		return ErrEmptySale
	}
	if !PaymentMethod(p.PaymentMethod).Valid() {
		return fmt.Errorf("unknown payment method %q", p.PaymentMethod)
	}
	discount, err := decimal.NewFromString(p.DiscountPercent)
	if err != nil {
		return fmt.Errorf("invalid discount %q: %w", p.DiscountPercent, ErrInvalidDiscount)
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return fmt.Errorf("discount %s%%: %w", discount, ErrInvalidDiscount)
	}
	for _, line := range p.Lines {
		if line.Product == "" {
			return fmt.Errorf("proposal line without a product: %w", ErrMissingField)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("product %s: %w", line.Product, ErrInvalidQuantity)
		}
	}
	return nil
}

// ResolveProposal matches the proposal's human-readable references against
// the live collections and assembles a draft through the ordinary add-time
// validation path.
func (s *saleService) ResolveProposal(ctx context.Context, p SaleProposal) (*SaleDraft, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	discount, _ := decimal.NewFromString(p.DiscountPercent)

	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return nil, err
	}
	client, err := matchClient(clients, p.Client)
	if err != nil {
		return nil, err
	}

	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}

	draft := &SaleDraft{
		ClientID:        client.ID,
		PaymentMethod:   PaymentMethod(p.PaymentMethod),
		DiscountPercent: discount,
	}
	for _, line := range p.Lines {
		product, err := matchProduct(products, line.Product)
		if err != nil {
			return nil, err
		}
		if err := draft.Add(*product, line.Quantity); err != nil {
			return nil, err
		}
	}
	return draft, nil
}

// matchClient finds a client by name or document id, case-insensitively.
// Name matching falls back to a unique substring match so "María" resolves
// "María García".
func matchClient(clients []Client, ref string) (*Client, error) {
	lowered := strings.ToLower(ref)
	for i := range clients {
		if strings.ToLower(clients[i].Name) == lowered || clients[i].DocumentID == ref {
			return &clients[i], nil
		}
	}
	var match *Client
	for i := range clients {
		if strings.Contains(strings.ToLower(clients[i].Name), lowered) {
			if match != nil {
				return nil, fmt.Errorf("client %q is ambiguous", ref)
			}
			match = &clients[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("client %q: %w", ref, ErrNotFound)
	}
	return match, nil
}

// matchProduct finds a product by reference code or name, with the same
// unique-substring fallback as matchClient.
func matchProduct(products []Product, ref string) (*Product, error) {
	lowered := strings.ToLower(ref)
	for i := range products {
		if strings.EqualFold(products[i].ReferenceCode, ref) || strings.ToLower(products[i].Name) == lowered {
			return &products[i], nil
		}
	}
	var match *Product
	for i := range products {
		if strings.Contains(strings.ToLower(products[i].Name), lowered) {
			if match != nil {
				return nil, fmt.Errorf("product %q is ambiguous", ref)
			}
			match = &products[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("product %q: %w", ref, ErrNotFound)
	}
	return match, nil
}
