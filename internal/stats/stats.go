// Package stats computes the admin dashboard counters.
package stats

import (
	"context"
	"encoding/json"

	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

// Dashboard holds the number of entries of each stored collection.
type Dashboard struct {
	Products int `json:"products"`
	// Orders and Customers are written by no component of this service; they
	// stay 0 unless those collections are seeded externally.
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
	Messages  int `json:"messages"`
}

// Collector reads collection sizes from the gateway.
type Collector struct {
	gw     store.Gateway
	logger *zap.Logger
}

func NewCollector(gw store.Gateway, logger *zap.Logger) *Collector {
	return &Collector{gw: gw, logger: logger}
}

// Dashboard counts the entries of every collection. Missing or malformed
// collections count as empty.
func (c *Collector) Dashboard(ctx context.Context) Dashboard {
	return Dashboard{
		Products:  c.count(ctx, store.KeyProducts),
		Orders:    c.count(ctx, store.KeyOrders),
		Customers: c.count(ctx, store.KeyCustomers),
		Messages:  c.count(ctx, store.KeyMessages),
	}
}

func (c *Collector) count(ctx context.Context, key string) int {
	var items []json.RawMessage
	store.ReadJSON(ctx, c.gw, key, &items, c.logger)
	return len(items)
}
