package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"farmagestion/internal/storage"
)

// Placeholder names for report rows whose referenced entity was deleted.
const (
	missingProductName = "Producto no encontrado"
	missingClientName  = "Cliente no encontrado"
)

// Report windows accepted by DefaultRange.
const (
	RangeDaily   = "daily"
	RangeMonthly = "monthly"
	RangeYearly  = "yearly"
)

// ── Report types ──────────────────────────────────────────────────────────────

// ProductSales aggregates one product's quantity and revenue over the
// filtered period, enriched with the product's current prices. A product
// deleted since the sales were recorded keeps its row with a placeholder
// name and zero prices.
type ProductSales struct {
	ProductID     string
	Name          string
	Quantity      int
	Revenue       decimal.Decimal
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MarginPercent decimal.Decimal
}

// DailySales is one calendar date's revenue and sale count.
type DailySales struct {
	Date  string
	Total decimal.Decimal
	Count int
}

// DailyProfit is one calendar date's gross profit:
// Σ over line items of (subtotal − purchasePrice × quantity).
type DailyProfit struct {
	Date        string
	GrossProfit decimal.Decimal
}

// ReportSummary are the aggregate statistics over the filtered sales.
// An empty filtered set yields all zeros, never a division by zero.
type ReportSummary struct {
	TotalRevenue  decimal.Decimal
	UnitsSold     int
	ClientsServed int
	AverageSale   decimal.Decimal
	GrossProfit   decimal.Decimal
	// AverageMargin = GrossProfit / totalCost × 100, where totalCost is the
	// purchase cost of every unit sold.
	AverageMargin decimal.Decimal
}

// SalesReport is the full report for a date range and optional client.
type SalesReport struct {
	From     string
	To       string
	ClientID string // "" = all clients

	Sales       []Sale
	TopProducts []ProductSales // descending by quantity
	DailySales  []DailySales   // ascending by date
	DailyProfit []DailyProfit  // ascending by date
	Summary     ReportSummary
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService produces aggregate sales reports. All aggregation is a
// synchronous pass over the filtered sales with product lookups by id.
type ReportingService interface {
	// Build filters sales to [from, to] (inclusive calendar dates) and the
	// given client ("" = all), then computes every aggregation.
	Build(ctx context.Context, from, to, clientID string) (*SalesReport, error)
	// ExportText renders the report as the plain-text document with the
	// RESUMEN / PRODUCTOS MÁS VENDIDOS / DETALLE DE VENTAS sections.
	ExportText(ctx context.Context, report *SalesReport) (string, error)
}

// DefaultRange returns the conventional [from, to] window for a report
// kind: daily = today only, monthly = the last month, yearly = the last
// year, each ending today.
func DefaultRange(kind string, now time.Time) (from, to string) {
	to = now.Format("2006-01-02")
	switch kind {
	case RangeMonthly:
		from = now.AddDate(0, -1, 0).Format("2006-01-02")
	case RangeYearly:
		from = now.AddDate(-1, 0, 0).Format("2006-01-02")
	default:
		from = to
	}
	return from, to
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	store storage.Store
}

func NewReportingService(store storage.Store) ReportingService {
	return &reportingService{store: store}
}

func (s *reportingService) Build(ctx context.Context, from, to, clientID string) (*SalesReport, error) {
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", from, err)
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", to, err)
	}

	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}
	products, err := loadProducts(ctx, s.store)
	if err != nil {
		return nil, err
	}
	productsByID := make(map[string]Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	report := &SalesReport{From: from, To: to, ClientID: clientID}

	// Dates are stored as YYYY-MM-DD, so lexicographic comparison is
	// chronological and "to" is inclusive through end of day.
	for _, sale := range sales {
		if sale.Date < from || sale.Date > to {
			continue
		}
		if clientID != "" && sale.ClientID != clientID {
			continue
		}
		report.Sales = append(report.Sales, sale)
	}

	report.TopProducts = topProducts(report.Sales, productsByID)
	report.DailySales, report.DailyProfit = dailySeries(report.Sales, productsByID)
	report.Summary = summarize(report.Sales, productsByID)
	return report, nil
}

func topProducts(sales []Sale, productsByID map[string]Product) []ProductSales {
	byProduct := map[string]*ProductSales{}
	var order []string
	for _, sale := range sales {
		for _, line := range sale.Lines {
			entry, ok := byProduct[line.ProductID]
			if !ok {
				entry = &ProductSales{ProductID: line.ProductID, Revenue: decimal.Zero}
				byProduct[line.ProductID] = entry
				order = append(order, line.ProductID)
			}
			entry.Quantity += line.Quantity
			entry.Revenue = entry.Revenue.Add(line.Subtotal)
		}
	}

	result := make([]ProductSales, 0, len(order))
	for _, id := range order {
		entry := *byProduct[id]
		if p, ok := productsByID[id]; ok {
			entry.Name = p.Name
			entry.PurchasePrice = p.PurchasePrice
			entry.SalePrice = p.SalePrice
			entry.MarginPercent = p.MarginPercent
		} else {
			entry.Name = missingProductName
			entry.PurchasePrice = decimal.Zero
			entry.SalePrice = decimal.Zero
			entry.MarginPercent = decimal.Zero
		}
		result = append(result, entry)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Quantity > result[j].Quantity
	})
	return result
}

func dailySeries(sales []Sale, productsByID map[string]Product) ([]DailySales, []DailyProfit) {
	salesByDate := map[string]*DailySales{}
	profitByDate := map[string]*DailyProfit{}
	for _, sale := range sales {
		ds, ok := salesByDate[sale.Date]
		if !ok {
			ds = &DailySales{Date: sale.Date, Total: decimal.Zero}
			salesByDate[sale.Date] = ds
		}
		ds.Total = ds.Total.Add(sale.Total)
		ds.Count++

		dp, ok := profitByDate[sale.Date]
		if !ok {
			dp = &DailyProfit{Date: sale.Date, GrossProfit: decimal.Zero}
			profitByDate[sale.Date] = dp
		}
		for _, line := range sale.Lines {
			p, ok := productsByID[line.ProductID]
			if !ok {
				continue
			}
			cost := p.PurchasePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			dp.GrossProfit = dp.GrossProfit.Add(line.Subtotal.Sub(cost))
		}
	}

	dailySales := make([]DailySales, 0, len(salesByDate))
	for _, ds := range salesByDate {
		dailySales = append(dailySales, *ds)
	}
	sort.Slice(dailySales, func(i, j int) bool { return dailySales[i].Date < dailySales[j].Date })

	dailyProfit := make([]DailyProfit, 0, len(profitByDate))
	for _, dp := range profitByDate {
		dailyProfit = append(dailyProfit, *dp)
	}
	sort.Slice(dailyProfit, func(i, j int) bool { return dailyProfit[i].Date < dailyProfit[j].Date })

	return dailySales, dailyProfit
}

func summarize(sales []Sale, productsByID map[string]Product) ReportSummary {
	summary := ReportSummary{
		TotalRevenue:  decimal.Zero,
		AverageSale:   decimal.Zero,
		GrossProfit:   decimal.Zero,
		AverageMargin: decimal.Zero,
	}
	if len(sales) == 0 {
		return summary
	}

	clients := map[string]bool{}
	totalCost := decimal.Zero
	for _, sale := range sales {
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)
		clients[sale.ClientID] = true
		for _, line := range sale.Lines {
			summary.UnitsSold += line.Quantity
			p, ok := productsByID[line.ProductID]
			if !ok {
				continue
			}
			cost := p.PurchasePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			totalCost = totalCost.Add(cost)
			summary.GrossProfit = summary.GrossProfit.Add(line.Subtotal.Sub(cost))
		}
	}
	summary.ClientsServed = len(clients)
	summary.AverageSale = summary.TotalRevenue.Div(decimal.NewFromInt(int64(len(sales)))).Round(2)
	if totalCost.Sign() > 0 {
		summary.AverageMargin = summary.GrossProfit.Div(totalCost).Mul(hundred).Round(2)
	}
	return summary
}

// ExportText renders the fixed-layout plain-text report: summary, top ten
// products by quantity, and the sale-by-sale listing with resolved client
// names. Currency and percentage values use two decimals.
func (s *reportingService) ExportText(ctx context.Context, report *SalesReport) (string, error) {
	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return "", err
	}
	clientName := func(id string) string {
		for _, c := range clients {
			if c.ID == id {
				return c.Name
			}
		}
		return missingClientName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INFORME DE VENTAS\n")
	fmt.Fprintf(&b, "Período: %s al %s\n", report.From, report.To)
	if report.ClientID != "" {
		fmt.Fprintf(&b, "Cliente: %s\n", clientName(report.ClientID))
	}

	sum := report.Summary
	fmt.Fprintf(&b, "\nRESUMEN\n")
	fmt.Fprintf(&b, "Total de ventas: $%s\n", sum.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "Total de productos vendidos: %d\n", sum.UnitsSold)
	fmt.Fprintf(&b, "Total de clientes atendidos: %d\n", sum.ClientsServed)
	fmt.Fprintf(&b, "Venta promedio: $%s\n", sum.AverageSale.StringFixed(2))
	fmt.Fprintf(&b, "Ganancia bruta: $%s\n", sum.GrossProfit.StringFixed(2))
	fmt.Fprintf(&b, "Margen promedio: %s%%\n", sum.AverageMargin.StringFixed(2))

	fmt.Fprintf(&b, "\nPRODUCTOS MÁS VENDIDOS\n")
	top := report.TopProducts
	if len(top) > 10 {
		top = top[:10]
	}
	for i, p := range top {
		fmt.Fprintf(&b, "%d. %s - Cantidad: %d - Total: $%s\n",
			i+1, p.Name, p.Quantity, p.Revenue.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nDETALLE DE VENTAS\n")
	for i, sale := range report.Sales {
		fmt.Fprintf(&b, "Venta #%d - Fecha: %s - Cliente: %s - Total: $%s\n",
			i+1, sale.Date, clientName(sale.ClientID), sale.Total.StringFixed(2))
	}
	return b.String(), nil
}
