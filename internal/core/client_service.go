package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmagestion/internal/storage"
)

// Client sort orders accepted by SearchClients.
const (
	SortClientName      = "name"
	SortClientPurchases = "purchases"
)

// ClientFilter narrows and orders the client list. Query matches name,
// document id, email, or phone, case-insensitively.
type ClientFilter struct {
	Query  string
	SortBy string
}

// ClientStats is the dashboard view of the client collection. Best is nil
// when no client has any purchases.
type ClientStats struct {
	TotalClients  int
	WithPurchases int
	Best          *Client
}

// ClientService manages the client collection. The ProductIDs and
// TotalPurchases fields on returned clients are always recomputed from the
// sales collection, never read back from storage, so they cannot drift.
type ClientService interface {
	Clients(ctx context.Context) ([]Client, error)
	GetClient(ctx context.Context, id string) (*Client, error)
	CreateClient(ctx context.Context, c Client) (*Client, error)
	UpdateClient(ctx context.Context, c Client) (*Client, error)
	// DeleteClient removes a client, unless any sale references it.
	DeleteClient(ctx context.Context, id string) error
	SearchClients(ctx context.Context, filter ClientFilter) ([]Client, error)
	Stats(ctx context.Context) (*ClientStats, error)
}

type clientService struct {
	store storage.Store
}

func NewClientService(store storage.Store) ClientService {
	return &clientService{store: store}
}

// withDerived overwrites each client's purchase history fields from the
// sales collection: the distinct product ids across the client's sales and
// the sum of sale totals.
func withDerived(clients []Client, sales []Sale) []Client {
	out := make([]Client, len(clients))
	for i, c := range clients {
		total := decimal.Zero
		seen := map[string]bool{}
		var productIDs []string
		for _, sale := range sales {
			if sale.ClientID != c.ID {
				continue
			}
			total = total.Add(sale.Total)
			for _, line := range sale.Lines {
				if !seen[line.ProductID] {
					seen[line.ProductID] = true
					productIDs = append(productIDs, line.ProductID)
				}
			}
		}
		c.ProductIDs = productIDs
		c.TotalPurchases = total
		out[i] = c
	}
	return out
}

func (s *clientService) Clients(ctx context.Context) ([]Client, error) {
	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return nil, err
	}
	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return withDerived(clients, sales), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*Client, error) {
	clients, err := s.Clients(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == id {
			return &clients[i], nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

func (s *clientService) CreateClient(ctx context.Context, c Client) (*Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("client name: %w", ErrMissingField)
	}
	if strings.TrimSpace(c.DocumentID) == "" {
		return nil, fmt.Errorf("client document: %w", ErrMissingField)
	}

	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for _, existing := range clients {
		if existing.DocumentID == c.DocumentID {
			return nil, fmt.Errorf("document %s: %w", c.DocumentID, ErrDuplicateDocument)
		}
	}

	c.ID = uuid.NewString()
	c.ProductIDs = nil
	c.TotalPurchases = decimal.Zero
	clients = append(clients, c)
	if err := saveClients(ctx, s.store, clients); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, c Client) (*Client, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("client name: %w", ErrMissingField)
	}
	if strings.TrimSpace(c.DocumentID) == "" {
		return nil, fmt.Errorf("client document: %w", ErrMissingField)
	}

	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == c.ID {
			clients[i] = c
			if err := saveClients(ctx, s.store, clients); err != nil {
				return nil, err
			}
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	sales, err := loadSales(ctx, s.store)
	if err != nil {
		return err
	}
	for _, sale := range sales {
		if sale.ClientID == id {
			return fmt.Errorf("client %s: %w", id, ErrClientHasSales)
		}
	}

	clients, err := loadClients(ctx, s.store)
	if err != nil {
		return err
	}
	kept := clients[:0]
	found := false
	for _, c := range clients {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return saveClients(ctx, s.store, kept)
}

func (s *clientService) SearchClients(ctx context.Context, filter ClientFilter) ([]Client, error) {
	clients, err := s.Clients(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	var matched []Client
	for _, c := range clients {
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.DocumentID), query) &&
			!strings.Contains(strings.ToLower(c.Email), query) &&
			!strings.Contains(strings.ToLower(c.Phone), query) {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.SortBy == SortClientPurchases {
			return matched[i].TotalPurchases.GreaterThan(matched[j].TotalPurchases)
		}
		return matched[i].Name < matched[j].Name
	})
	return matched, nil
}

func (s *clientService) Stats(ctx context.Context) (*ClientStats, error) {
	clients, err := s.Clients(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ClientStats{TotalClients: len(clients)}
	for i := range clients {
		if clients[i].TotalPurchases.Sign() > 0 {
			stats.WithPurchases++
			if stats.Best == nil || clients[i].TotalPurchases.GreaterThan(stats.Best.TotalPurchases) {
				stats.Best = &clients[i]
			}
		}
	}
	return stats, nil
}
