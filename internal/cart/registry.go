package cart

import (
	"hash/fnv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

const (
	defaultRegistrySize = 4096
	lockStripes         = 64
)

// Carts hands out one Engine per session so that concurrent requests on the
// same session are serialized. Engines of idle sessions are evicted; their
// carts stay in the gateway. Mutations lock a stripe chosen by key rather than
// the engine itself, so an evicted engine still in use and its replacement
// share one lock.
type Carts struct {
	gw      store.Gateway
	logger  *zap.Logger
	mu      sync.Mutex
	engines *lru.Cache[string, *Engine]
	locks   [lockStripes]sync.Mutex
}

// NewCarts creates a registry keeping at most size live engines. A
// non-positive size selects the default.
func NewCarts(gw store.Gateway, logger *zap.Logger, size int) *Carts {
	if size <= 0 {
		size = defaultRegistrySize
	}
	engines, _ := lru.New[string, *Engine](size)
	return &Carts{gw: gw, logger: logger, engines: engines}
}

// For returns the engine of the given session. The empty session id maps to
// the default "cart" document.
func (c *Carts) For(sessionID string) *Engine {
	key := SessionKey(sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.engines.Get(key); ok {
		return e
	}
	e := newEngine(c.gw, key, c.logger.With(zap.String("cart", key)), c.lockFor(key))
	c.engines.Add(key, e)
	return e
}

func (c *Carts) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &c.locks[h.Sum32()%lockStripes]
}

// SessionKey returns the gateway key of a session's cart.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return store.KeyCart
	}
	return store.KeyCart + ":" + sessionID
}
