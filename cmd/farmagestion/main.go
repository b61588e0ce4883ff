package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"farmagestion/internal/ai"
	"farmagestion/internal/core"
	"farmagestion/internal/db"
	"farmagestion/internal/seed"
	"farmagestion/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	store := storage.NewPostgres(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("Unable to prepare storage: %v", err)
	}
	seeded, err := seed.Run(ctx, store)
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	if seeded {
		fmt.Println("First start: sample data loaded.")
	}

	inventory := core.NewInventoryService(store)
	clients := core.NewClientService(store)
	sales := core.NewSaleService(store)
	reports := core.NewReportingService(store)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set")
	}
	agent := ai.NewAgent(apiKey)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "stock":
			printStock(ctx, inventory)

		case "report":
			if len(os.Args) < 4 {
				log.Fatal("Usage: farmagestion report <from> <to>")
			}
			report, err := reports.Build(ctx, os.Args[2], os.Args[3], "")
			if err != nil {
				log.Fatalf("Report failed: %v", err)
			}
			printReport(report)

		case "export":
			if len(os.Args) < 4 {
				log.Fatal("Usage: farmagestion export <from> <to>")
			}
			report, err := reports.Build(ctx, os.Args[2], os.Args[3], "")
			if err != nil {
				log.Fatalf("Report failed: %v", err)
			}
			text, err := reports.ExportText(ctx, report)
			if err != nil {
				log.Fatalf("Export failed: %v", err)
			}
			fmt.Print(text)

		case "seed":
			if !seeded {
				fmt.Println("Sample data was already loaded; nothing to do.")
			}

		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	} else {
		runREPL(ctx, agent, inventory, clients, sales, reports)
	}
}

// clientContext renders the client list the way the sale agent expects it:
// one line per client with the identifiers it may echo back.
func clientContext(ctx context.Context, clients core.ClientService) (string, error) {
	list, err := clients.Clients(ctx)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, c := range list {
		lines = append(lines, fmt.Sprintf("- %s (document: %s)", c.Name, c.DocumentID))
	}
	return strings.Join(lines, "\n"), nil
}

// catalogContext renders the product catalog for the sale agent, with the
// stock on hand so the model does not propose impossible quantities.
func catalogContext(ctx context.Context, inventory core.InventoryService) (string, error) {
	products, err := inventory.Products(ctx)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s %s (%s each, %d in stock)",
			p.ReferenceCode, p.Name, p.SalePrice.StringFixed(2), p.Quantity))
	}
	return strings.Join(lines, "\n"), nil
}

func runREPL(ctx context.Context, agent *ai.Agent, inventory core.InventoryService,
	clients core.ClientService, sales core.SaleService, reports core.ReportingService) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("FarmaGestión REPL")
	fmt.Println("Type 'stock' to see the inventory, or describe a sale in plain language.")
	fmt.Println("-----------------------")

	var errExit = fmt.Errorf("exit repl")
	commands := map[string]func() error{
		"stock": func() error {
			printStock(ctx, inventory)
			return nil
		},
		"clients": func() error {
			printClients(ctx, clients)
			return nil
		},
		"report": func() error {
			from, to := core.DefaultRange(core.RangeMonthly, time.Now())
			report, err := reports.Build(ctx, from, to, "")
			if err != nil {
				return err
			}
			printReport(report)
			return nil
		},
		"help": func() error {
			fmt.Println("Available commands: stock, clients, report, help, exit, quit")
			fmt.Println("Anything else is interpreted as a sale description.")
			return nil
		},
		"exit": func() error { return errExit },
		"quit": func() error { return errExit },
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		tokens := strings.Fields(input)
		if len(tokens) == 1 {
			cmdStr := strings.ToLower(tokens[0])
			if cmd, exists := commands[cmdStr]; exists {
				if err := cmd(); err != nil {
					if err == errExit {
						break
					}
					fmt.Printf("[REPL] Error: %v\n", err)
				}
				continue
			}

			fmt.Printf("Unknown command: %s\n", tokens[0])
			continue
		}

		fmt.Println("[AI] Processing natural language input...")
		fmt.Println("Thinking...")

		clientList, err := clientContext(ctx, clients)
		if err != nil {
			fmt.Printf("Error fetching clients: %v\n", err)
			continue
		}
		catalog, err := catalogContext(ctx, inventory)
		if err != nil {
			fmt.Printf("Error fetching catalog: %v\n", err)
			continue
		}

		proposal, err := agent.ProposeSale(ctx, input, clientList, catalog)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		printProposal(proposal)

		if proposal.Confidence < 0.6 {
			fmt.Println("\nWARNING: Low confidence proposal.")
		}

		fmt.Print("\nConfirm this sale? (y/n): ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		if choice != "y" && choice != "yes" {
			fmt.Println("Sale Cancelled.")
			continue
		}

		draft, err := sales.ResolveProposal(ctx, *proposal)
		if err != nil {
			fmt.Printf("Sale FAILED: %v\n", err)
			continue
		}
		sale, err := sales.Commit(ctx, *draft)
		if err != nil {
			fmt.Printf("Sale FAILED: %v\n", err)
			continue
		}
		fmt.Printf("Sale COMMITTED for %s.\n", sale.Total.StringFixed(2))
	}
}

func printStock(ctx context.Context, inventory core.InventoryService) {
	products, err := inventory.SearchProducts(ctx, core.ProductFilter{SortBy: core.SortNameAsc})
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		return
	}

	fmt.Println("\n--- INVENTORY ---")
	fmt.Printf("%-10s %-30s %10s %10s %12s\n", "REF", "NAME", "STOCK", "PRICE", "EXPIRES")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range products {
		fmt.Printf("%-10s %-30s %10d %10s %12s\n",
			p.ReferenceCode, p.Name, p.Quantity, p.SalePrice.StringFixed(2), p.ExpiryDate)
	}
	fmt.Println(strings.Repeat("-", 78))

	stats, err := inventory.Stats(ctx)
	if err != nil {
		log.Printf("Failed to compute inventory stats: %v", err)
		return
	}
	fmt.Printf("%d products, %d low on stock, %d expiring soon\n",
		stats.TotalProducts, stats.LowStock, stats.ExpiringSoon)
}

func printClients(ctx context.Context, clients core.ClientService) {
	list, err := clients.Clients(ctx)
	if err != nil {
		log.Printf("Failed to list clients: %v", err)
		return
	}

	fmt.Println("\n--- CLIENTS ---")
	fmt.Printf("%-30s %-15s %12s\n", "NAME", "DOCUMENT", "PURCHASES")
	fmt.Println(strings.Repeat("-", 60))
	for _, c := range list {
		fmt.Printf("%-30s %-15s %12s\n", c.Name, c.DocumentID, c.TotalPurchases.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 60))
}

func printReport(r *core.SalesReport) {
	fmt.Printf("\n--- SALES %s to %s ---\n", r.From, r.To)
	fmt.Printf("Revenue:      %s\n", r.Summary.TotalRevenue.StringFixed(2))
	fmt.Printf("Units sold:   %d\n", r.Summary.UnitsSold)
	fmt.Printf("Clients:      %d\n", r.Summary.ClientsServed)
	fmt.Printf("Average sale: %s\n", r.Summary.AverageSale.StringFixed(2))
	fmt.Printf("Gross profit: %s (%s%% avg margin)\n",
		r.Summary.GrossProfit.StringFixed(2), r.Summary.AverageMargin.StringFixed(2))
	if len(r.TopProducts) > 0 {
		fmt.Println("Top products:")
		for i, p := range r.TopProducts {
			if i == 5 {
				break
			}
			fmt.Printf("  %-30s %6d units %12s\n", p.Name, p.Quantity, p.Revenue.StringFixed(2))
		}
	}
}

func printProposal(p *core.SaleProposal) {
	fmt.Printf("\nCLIENT:     %s\n", p.Client)
	fmt.Printf("PAYMENT:    %s\n", p.PaymentMethod)
	fmt.Printf("DISCOUNT:   %s%%\n", p.DiscountPercent)
	fmt.Printf("REASONING:  %s\n", p.Reasoning)
	fmt.Printf("CONFIDENCE: %.2f\n", p.Confidence)
	fmt.Println("LINES:")
	for _, l := range p.Lines {
		fmt.Printf("  %d × %s\n", l.Quantity, l.Product)
	}
}
