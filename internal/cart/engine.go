// Package cart implements the shopping cart: line items keyed by product id,
// persisted as one JSON document per session.
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrLineNotFound is returned when a cart has no line for the product id.
var ErrLineNotFound = fmt.Errorf("cart line %w", apperr.ErrNotFound)

// Engine operates on the cart stored under a single gateway key.
type Engine struct {
	gw     store.Gateway
	key    string
	logger *zap.Logger
	mu     *sync.Mutex
}

// NewEngine returns an Engine for the cart document stored under key.
func NewEngine(gw store.Gateway, key string, logger *zap.Logger) *Engine {
	return newEngine(gw, key, logger, &sync.Mutex{})
}

func newEngine(gw store.Gateway, key string, logger *zap.Logger, mu *sync.Mutex) *Engine {
	return &Engine{gw: gw, key: key, logger: logger, mu: mu}
}

// Key returns the gateway key of the cart document.
func (e *Engine) Key() string {
	return e.key
}

// Cart returns the current cart.
func (e *Engine) Cart(ctx context.Context) models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load(ctx)
}

// Total returns the sum of price x quantity over the current lines.
func (e *Engine) Total(ctx context.Context) decimal.Decimal {
	return e.Cart(ctx).Total()
}

// ItemCount returns the sum of quantities over the current lines.
func (e *Engine) ItemCount(ctx context.Context) int {
	return e.Cart(ctx).ItemCount()
}

// AddItem adds one unit of p. A new line snapshots the product's current
// name and price; an existing line only has its quantity raised.
func (e *Engine) AddItem(ctx context.Context, p models.Product) (models.Cart, error) {
	return e.mutate(ctx, "add item", func(c *models.Cart) error {
		if i := c.IndexOf(p.ID); i >= 0 {
			c.Lines[i].Quantity++
			return nil
		}
		c.Lines = append(c.Lines, models.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  1,
		})
		return nil
	})
}

// Increment raises the quantity of an existing line by one.
func (e *Engine) Increment(ctx context.Context, productID string) (models.Cart, error) {
	return e.mutate(ctx, "increment", func(c *models.Cart) error {
		i := c.IndexOf(productID)
		if i < 0 {
			return ErrLineNotFound
		}
		c.Lines[i].Quantity++
		return nil
	})
}

// Decrement lowers the quantity of an existing line by one, removing the line
// when it would reach zero.
func (e *Engine) Decrement(ctx context.Context, productID string) (models.Cart, error) {
	return e.mutate(ctx, "decrement", func(c *models.Cart) error {
		i := c.IndexOf(productID)
		if i < 0 {
			return ErrLineNotFound
		}
		if c.Lines[i].Quantity > 1 {
			c.Lines[i].Quantity--
			return nil
		}
		c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
		return nil
	})
}

// Remove drops the line for productID. Removing an absent line is not an error.
func (e *Engine) Remove(ctx context.Context, productID string) (models.Cart, error) {
	return e.mutate(ctx, "remove", func(c *models.Cart) error {
		if i := c.IndexOf(productID); i >= 0 {
			c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
		}
		return nil
	})
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) (models.Cart, error) {
	return e.mutate(ctx, "clear", func(c *models.Cart) error {
		c.Lines = []models.CartLine{}
		return nil
	})
}

// mutate applies fn to a freshly loaded cart and persists the result. Nothing
// is written when fn fails, and a failed write leaves the stored cart as it was.
func (e *Engine) mutate(ctx context.Context, op string, fn func(*models.Cart) error) (models.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stored []models.CartLine
	if err := store.LoadJSON(ctx, e.gw, e.key, &stored, e.logger); err != nil {
		return models.Cart{}, fmt.Errorf("cart %s: %w", op, err)
	}
	c := e.repair(stored)
	if err := fn(&c); err != nil {
		return models.Cart{}, err
	}
	if err := store.WriteJSON(ctx, e.gw, e.key, c.Lines); err != nil {
		return models.Cart{}, fmt.Errorf("cart %s: %w", op, err)
	}
	return c, nil
}

func (e *Engine) load(ctx context.Context) models.Cart {
	var stored []models.CartLine
	store.ReadJSON(ctx, e.gw, e.key, &stored, e.logger)
	return e.repair(stored)
}

// repair drops non-positive quantities and merges duplicate product ids so the
// returned cart always satisfies the line rules.
func (e *Engine) repair(stored []models.CartLine) models.Cart {
	c := models.Cart{Lines: make([]models.CartLine, 0, len(stored))}
	for _, l := range stored {
		if l.Quantity < 1 {
			e.logger.Warn("dropping cart line with invalid quantity",
				zap.String("key", e.key), zap.String("product_id", l.ProductID), zap.Int("quantity", l.Quantity))
			continue
		}
		if i := c.IndexOf(l.ProductID); i >= 0 {
			c.Lines[i].Quantity += l.Quantity
			continue
		}
		c.Lines = append(c.Lines, l)
	}
	return c
}
