package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/config"
	"github.com/rogerio-castellano/storefront/internal/contact"
	"github.com/rogerio-castellano/storefront/internal/events"
	"github.com/rogerio-castellano/storefront/internal/session"
	"github.com/rogerio-castellano/storefront/internal/stats"
	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

// App bundles the services built from one Config.
type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Gateway  store.Gateway
	Catalog  *catalog.Store
	Carts    *cart.Carts
	Inbox    *contact.Inbox
	Stats    *stats.Collector
	Sessions *session.Issuer

	closers []func() error
}

// New opens the configured backend and builds the services on top of it.
// Close must be called to release connections.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	gw, closeGW, err := OpenGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Gateway = gw
	a.closers = append(a.closers, closeGW)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQP.URL != "" {
		p, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			a.Close()
			return nil, err
		}
		publisher = p
		a.closers = append(a.closers, p.Close)
		logger.Info("publishing catalog events", zap.String("exchange", cfg.AMQP.Exchange))
	}

	a.Catalog = catalog.NewStore(gw, logger, catalog.WithPublisher(publisher))
	a.Carts = cart.NewCarts(gw, logger, cfg.Cart.Sessions)
	a.Inbox = contact.NewInbox(gw, logger)
	a.Stats = stats.NewCollector(gw, logger)
	a.Sessions = session.NewIssuer(cfg.Cart.TokenSecret, cfg.Cart.TokenTTL)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("close app: %w", errors.Join(errs...))
	}
	return nil
}
