// Package seed populates an empty store with sample data the first time the
// application runs. The shapes are deterministic, the parameters (dates,
// quantities, discounts) are random; a flag in the store makes the bootstrap
// one-time only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmagestion/internal/core"
	"farmagestion/internal/storage"
)

// Run seeds all six collections unless the store is already initialized.
// It reports whether seeding actually happened.
func Run(ctx context.Context, store storage.Store) (bool, error) {
	done, err := store.Initialized(ctx)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	products := sampleProducts()
	clients := sampleClients()
	suppliers := sampleSuppliers(products)
	sales := sampleSales(clients, products)
	orders := sampleOrders(suppliers, products)
	notes := sampleNotes()

	collections := []struct {
		name string
		data any
	}{
		{storage.CollectionProducts, products},
		{storage.CollectionClients, clients},
		{storage.CollectionSales, sales},
		{storage.CollectionSuppliers, suppliers},
		{storage.CollectionOrders, orders},
		{storage.CollectionNotes, notes},
	}
	for _, c := range collections {
		if err := store.Save(ctx, c.name, c.data); err != nil {
			return false, fmt.Errorf("seed %s: %w", c.name, err)
		}
	}
	if err := store.MarkInitialized(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// randomDate returns an ISO date within the last monthsBack months.
func randomDate(monthsBack int) string {
	end := time.Now()
	start := end.AddDate(0, -monthsBack, 0)
	span := end.Sub(start)
	return start.Add(time.Duration(rand.Int63n(int64(span)))).Format("2006-01-02")
}

// futureDate returns an ISO date monthsAhead months from today.
func futureDate(monthsAhead int) string {
	return time.Now().AddDate(0, monthsAhead, 0).Format("2006-01-02")
}

func price(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func sampleProducts() []core.Product {
	products := []core.Product{
		{
			Name: "Paracetamol 500mg", ReferenceCode: "MED-001",
			ExpiryDate: futureDate(24), LotNumber: "LOT-123456", Quantity: 100,
			PurchasePrice: price(0.50), SalePrice: price(1.20),
			Description: "Analgésico y antipirético para dolor leve o moderado",
			Category:    core.CategoryMedicine,
		},
		{
			Name: "Ibuprofeno 400mg", ReferenceCode: "MED-002",
			ExpiryDate: futureDate(18), LotNumber: "LOT-789012", Quantity: 80,
			PurchasePrice: price(0.75), SalePrice: price(1.80),
			Description: "Antiinflamatorio no esteroideo (AINE)",
			Category:    core.CategoryMedicine,
		},
		{
			Name: "Jeringa 5ml", ReferenceCode: "EQ-001",
			ExpiryDate: futureDate(36), LotNumber: "LOT-567890", Quantity: 150,
			PurchasePrice: price(0.30), SalePrice: price(0.80),
			Description: "Jeringa estéril de 5ml",
			Category:    core.CategoryEquipment,
		},
		{
			Name: "Mascarillas Quirúrgicas", ReferenceCode: "EQ-002",
			ExpiryDate: futureDate(24), LotNumber: "LOT-345678", Quantity: 200,
			PurchasePrice: price(0.20), SalePrice: price(0.50),
			Description: "Mascarilla de 3 capas para uso médico",
			Category:    core.CategoryEquipment,
		},
		{
			Name: "Omeprazol 20mg", ReferenceCode: "MED-003",
			ExpiryDate: futureDate(12), LotNumber: "LOT-901234", Quantity: 60,
			PurchasePrice: price(0.65), SalePrice: price(1.50),
			Description: "Inhibidor de la bomba de protones",
			Category:    core.CategoryMedicine,
		},
	}
	for i := range products {
		products[i].ID = uuid.NewString()
		products[i].MarginPercent = core.MarginFor(products[i].PurchasePrice, products[i].SalePrice)
	}
	return products
}

func sampleClients() []core.Client {
	clients := []core.Client{
		{Name: "María García", DocumentID: "1234567890", Email: "maria@example.com",
			Phone: "555-1234", Address: "Calle 123 #45-67"},
		{Name: "Juan Pérez", DocumentID: "0987654321", Email: "juan@example.com",
			Phone: "555-5678", Address: "Avenida 789 #12-34"},
		{Name: "Ana Martínez", DocumentID: "5678901234", Email: "ana@example.com",
			Phone: "555-9012", Address: "Carrera 456 #78-90"},
	}
	for i := range clients {
		clients[i].ID = uuid.NewString()
		clients[i].TotalPurchases = decimal.Zero
	}
	return clients
}

func sampleSuppliers(products []core.Product) []core.Supplier {
	suppliers := []core.Supplier{
		{
			Name: "Farmacéuticos Unidos S.A.", ContactPerson: "Carlos Ruiz",
			Phone: "555-2468", Email: "contacto@farmauni.com", Address: "Zona Industrial, Bloque 3",
			ProductIDs: []string{products[0].ID, products[1].ID, products[4].ID},
		},
		{
			Name: "Suministros Médicos Express", ContactPerson: "Lucía Vega",
			Phone: "555-1357", Email: "ventas@sumimedexpress.com", Address: "Calle Comercio 789",
			ProductIDs: []string{products[2].ID, products[3].ID},
		},
	}
	for i := range suppliers {
		suppliers[i].ID = uuid.NewString()
	}
	return suppliers
}

func sampleSales(clients []core.Client, products []core.Product) []core.Sale {
	var sales []core.Sale
	for _, client := range clients {
		numSales := rand.Intn(3) + 1
		for i := 0; i < numSales; i++ {
			available := make([]core.Product, len(products))
			copy(available, products)

			var lines []core.SaleLine
			subtotal := decimal.Zero
			numLines := rand.Intn(3) + 1
			for j := 0; j < numLines && len(available) > 0; j++ {
				k := rand.Intn(len(available))
				p := available[k]
				available = append(available[:k], available[k+1:]...)

				qty := rand.Intn(5) + 1
				lineSubtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(qty)))
				lines = append(lines, core.SaleLine{
					ProductID: p.ID,
					Quantity:  qty,
					UnitPrice: p.SalePrice,
					Subtotal:  lineSubtotal,
				})
				subtotal = subtotal.Add(lineSubtotal)
			}

			discount := decimal.Zero
			if rand.Float64() > 0.7 {
				discount = decimal.NewFromInt(int64(rand.Intn(15) + 5))
			}
			total := subtotal
			if discount.Sign() > 0 {
				total = total.Mul(decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100))))
			}

			methods := []core.PaymentMethod{core.PaymentCash, core.PaymentTransfer, core.PaymentCard, core.PaymentOther}
			sales = append(sales, core.Sale{
				ID:              uuid.NewString(),
				ClientID:        client.ID,
				Lines:           lines,
				Total:           total.Round(2),
				Date:            randomDate(6),
				PaymentMethod:   methods[rand.Intn(len(methods))],
				DiscountPercent: discount,
			})
		}
	}
	return sales
}

func sampleOrders(suppliers []core.Supplier, products []core.Product) []core.PurchaseOrder {
	productsByID := make(map[string]core.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	var orders []core.PurchaseOrder
	for _, supplier := range suppliers {
		numOrders := rand.Intn(2) + 1
		for i := 0; i < numOrders; i++ {
			var lines []core.SaleLine
			total := decimal.Zero
			for _, id := range supplier.ProductIDs {
				p, ok := productsByID[id]
				if !ok {
					continue
				}
				qty := rand.Intn(50) + 10
				subtotal := p.PurchasePrice.Mul(decimal.NewFromInt(int64(qty)))
				lines = append(lines, core.SaleLine{
					ProductID: p.ID,
					Quantity:  qty,
					UnitPrice: p.PurchasePrice,
					Subtotal:  subtotal,
				})
				total = total.Add(subtotal)
			}
			if len(lines) == 0 {
				continue
			}
			orders = append(orders, core.PurchaseOrder{
				ID:         uuid.NewString(),
				SupplierID: supplier.ID,
				Lines:      lines,
				Total:      total.Round(2),
				Date:       randomDate(12),
			})
		}
	}
	return orders
}

func sampleNotes() []core.Note {
	notes := []core.Note{
		{
			Title:       "Revisar inventario de antibióticos",
			Description: "Verificar cantidad y fecha de vencimiento de los antibióticos en stock",
			Date:        randomDate(6), Completed: rand.Float64() > 0.5,
		},
		{
			Title:       "Contactar al proveedor de insumos",
			Description: "Consultar disponibilidad de mascarillas N95",
			Date:        randomDate(6), Completed: false,
		},
		{
			Title:       "Actualizar precios de medicamentos",
			Description: "Revisar precios de venta según las nuevas disposiciones",
			Date:        randomDate(6), Completed: true,
		},
		{
			Title:       "Mantenimiento del refrigerador de medicamentos",
			Description: "Programar la revisión técnica para la próxima semana",
			Date:        time.Now().Format("2006-01-02"), Completed: false,
		},
	}
	for i := range notes {
		notes[i].ID = uuid.NewString()
	}
	return notes
}
