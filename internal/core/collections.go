package core

import (
	"context"
	"fmt"

	"farmagestion/internal/storage"
)

// Whole-collection read/write helpers shared by the services. Every
// operation loads the full collection, works on the in-memory slice, and
// writes the full collection back.

func loadProducts(ctx context.Context, store storage.Store) ([]Product, error) {
	var products []Product
	if err := store.Load(ctx, storage.CollectionProducts, &products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func saveProducts(ctx context.Context, store storage.Store, products []Product) error {
	if err := store.Save(ctx, storage.CollectionProducts, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

func loadClients(ctx context.Context, store storage.Store) ([]Client, error) {
	var clients []Client
	if err := store.Load(ctx, storage.CollectionClients, &clients); err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	return clients, nil
}

func saveClients(ctx context.Context, store storage.Store, clients []Client) error {
	if err := store.Save(ctx, storage.CollectionClients, clients); err != nil {
		return fmt.Errorf("save clients: %w", err)
	}
	return nil
}

func loadSales(ctx context.Context, store storage.Store) ([]Sale, error) {
	var sales []Sale
	if err := store.Load(ctx, storage.CollectionSales, &sales); err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return sales, nil
}

func saveSales(ctx context.Context, store storage.Store, sales []Sale) error {
	if err := store.Save(ctx, storage.CollectionSales, sales); err != nil {
		return fmt.Errorf("save sales: %w", err)
	}
	return nil
}

func loadSuppliers(ctx context.Context, store storage.Store) ([]Supplier, error) {
	var suppliers []Supplier
	if err := store.Load(ctx, storage.CollectionSuppliers, &suppliers); err != nil {
		return nil, fmt.Errorf("load suppliers: %w", err)
	}
	return suppliers, nil
}

func saveSuppliers(ctx context.Context, store storage.Store, suppliers []Supplier) error {
	if err := store.Save(ctx, storage.CollectionSuppliers, suppliers); err != nil {
		return fmt.Errorf("save suppliers: %w", err)
	}
	return nil
}

func loadOrders(ctx context.Context, store storage.Store) ([]PurchaseOrder, error) {
	var orders []PurchaseOrder
	if err := store.Load(ctx, storage.CollectionOrders, &orders); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}

func saveOrders(ctx context.Context, store storage.Store, orders []PurchaseOrder) error {
	if err := store.Save(ctx, storage.CollectionOrders, orders); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

func loadNotes(ctx context.Context, store storage.Store) ([]Note, error) {
	var notes []Note
	if err := store.Load(ctx, storage.CollectionNotes, &notes); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	return notes, nil
}

func saveNotes(ctx context.Context, store storage.Store, notes []Note) error {
	if err := store.Save(ctx, storage.CollectionNotes, notes); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}
