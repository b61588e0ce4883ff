package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"farmagestion/internal/storage"
)

// SupplierService manages the supplier collection. A supplier referenced by
// any purchase order cannot be deleted.
type SupplierService interface {
	Suppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	CreateSupplier(ctx context.Context, sup Supplier) (*Supplier, error)
	UpdateSupplier(ctx context.Context, sup Supplier) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	// SearchSuppliers matches name, contact person, or email.
	SearchSuppliers(ctx context.Context, query string) ([]Supplier, error)
}

type supplierService struct {
	store storage.Store
}

func NewSupplierService(store storage.Store) SupplierService {
	return &supplierService{store: store}
}

func (s *supplierService) Suppliers(ctx context.Context) ([]Supplier, error) {
	return loadSuppliers(ctx, s.store)
}

func (s *supplierService) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range suppliers {
		if suppliers[i].ID == id {
			return &suppliers[i], nil
		}
	}
	return nil, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
}

func (s *supplierService) CreateSupplier(ctx context.Context, sup Supplier) (*Supplier, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return nil, fmt.Errorf("supplier name: %w", ErrMissingField)
	}
	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	sup.ID = uuid.NewString()
	suppliers = append(suppliers, sup)
	if err := saveSuppliers(ctx, s.store, suppliers); err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, sup Supplier) (*Supplier, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return nil, fmt.Errorf("supplier name: %w", ErrMissingField)
	}
	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range suppliers {
		if suppliers[i].ID == sup.ID {
			suppliers[i] = sup
			if err := saveSuppliers(ctx, s.store, suppliers); err != nil {
				return nil, err
			}
			return &sup, nil
		}
	}
	return nil, fmt.Errorf("supplier %s: %w", sup.ID, ErrNotFound)
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id string) error {
	orders, err := loadOrders(ctx, s.store)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.SupplierID == id {
			return fmt.Errorf("supplier %s: %w", id, ErrSupplierHasOrders)
		}
	}

	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return err
	}
	kept := suppliers[:0]
	found := false
	for _, sup := range suppliers {
		if sup.ID == id {
			found = true
			continue
		}
		kept = append(kept, sup)
	}
	if !found {
		return fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	return saveSuppliers(ctx, s.store, kept)
}

func (s *supplierService) SearchSuppliers(ctx context.Context, query string) ([]Supplier, error) {
	suppliers, err := loadSuppliers(ctx, s.store)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(strings.TrimSpace(query))
	if lowered == "" {
		return suppliers, nil
	}
	var matched []Supplier
	for _, sup := range suppliers {
		if strings.Contains(strings.ToLower(sup.Name), lowered) ||
			strings.Contains(strings.ToLower(sup.ContactPerson), lowered) ||
			strings.Contains(strings.ToLower(sup.Email), lowered) {
			matched = append(matched, sup)
		}
	}
	return matched, nil
}
