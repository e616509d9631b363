// Package catalog owns the product catalog. The persisted "products" document
// is the source of truth: every operation reads it, and every mutation
// rewrites it in full.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/events"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when an operation names an unknown product id.
var ErrProductNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)

// NewProduct is the input of Add.
type NewProduct struct {
	Name        string
	Price       float64
	Description string
	Image       *string
}

// ProductPatch lists the fields to change in Update. Nil fields are kept.
// An Image pointing to "" clears the image.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *string
}

// Store manages products on top of a persistence gateway.
type Store struct {
	gw        store.Gateway
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time

	// serializes read-modify-write cycles within this process
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sends catalog events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store persisting to gw.
func NewStore(gw store.Gateway, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		gw:        gw,
		publisher: events.NopPublisher{},
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every product in insertion order.
func (s *Store) List(ctx context.Context) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the product with the given id.
func (s *Store) Get(ctx context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := s.load(ctx)
	if i := indexOf(products, id); i >= 0 {
		return products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// FindByName returns the first product whose name matches, ignoring case.
func (s *Store) FindByName(ctx context.Context, name string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	for _, p := range s.load(ctx) {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Add validates np, assigns it a fresh id and appends it to the catalog.
func (s *Store) Add(ctx context.Context, np NewProduct) (models.Product, error) {
	if err := validateNew(np); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForUpdate(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("add product: %w", err)
	}
	p := models.Product{
		ID:          newID(products),
		Name:        strings.TrimSpace(np.Name),
		Price:       np.Price,
		Description: np.Description,
		Image:       normalizeImage(np.Image),
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	if err := s.save(ctx, append(products, p)); err != nil {
		return models.Product{}, fmt.Errorf("add product: %w", err)
	}

	s.publish(ctx, events.ProductCreated, p.ID, &p)
	return p, nil
}

// Update merges patch into the product with the given id.
func (s *Store) Update(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	if err := validatePatch(patch); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForUpdate(ctx)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	i := indexOf(products, id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}

	p := products[i]
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = normalizeImage(patch.Image)
	}
	products[i] = p

	if err := s.save(ctx, products); err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}

	s.publish(ctx, events.ProductUpdated, p.ID, &p)
	return p, nil
}

// Remove deletes the product with the given id. Cart lines referencing it are
// left untouched.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("remove product %s: %w", id, err)
	}
	i := indexOf(products, id)
	if i < 0 {
		return ErrProductNotFound
	}

	remaining := append(products[:i:i], products[i+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return fmt.Errorf("remove product %s: %w", id, err)
	}

	s.publish(ctx, events.ProductDeleted, id, nil)
	return nil
}

func (s *Store) loadForUpdate(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := store.LoadJSON(ctx, s.gw, store.KeyProducts, &products, s.logger); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) load(ctx context.Context) []models.Product {
	products := []models.Product{}
	store.ReadJSON(ctx, s.gw, store.KeyProducts, &products, s.logger)
	return products
}

func (s *Store) save(ctx context.Context, products []models.Product) error {
	return store.WriteJSON(ctx, s.gw, store.KeyProducts, products)
}

func newID(existing []models.Product) string {
	for {
		id := "prod_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if indexOf(existing, id) < 0 {
			return id
		}
	}
}

func (s *Store) publish(ctx context.Context, eventType, id string, p *models.Product) {
	e := events.Event{Type: eventType, ProductID: id, Product: p, At: s.now().UTC()}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish catalog event",
			zap.String("type", eventType),
			zap.String("product_id", id),
			zap.Error(err))
	}
}

func indexOf(products []models.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func normalizeImage(img *string) *string {
	if img == nil || strings.TrimSpace(*img) == "" {
		return nil
	}
	v := strings.TrimSpace(*img)
	return &v
}
