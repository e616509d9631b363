package handlers

import (
	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/contact"
	"github.com/rogerio-castellano/storefront/internal/session"
	"github.com/rogerio-castellano/storefront/internal/stats"
	"go.uber.org/zap"
)

// Deps lists the collaborators the handlers call into.
type Deps struct {
	Catalog  *catalog.Store
	Carts    *cart.Carts
	Inbox    *contact.Inbox
	Stats    *stats.Collector
	Sessions *session.Issuer
	Logger   *zap.Logger
}

// Handler serves the storefront API.
type Handler struct {
	catalog  *catalog.Store
	carts    *cart.Carts
	inbox    *contact.Inbox
	stats    *stats.Collector
	sessions *session.Issuer
	logger   *zap.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		catalog:  d.Catalog,
		carts:    d.Carts,
		inbox:    d.Inbox,
		stats:    d.Stats,
		sessions: d.Sessions,
		logger:   d.Logger,
	}
}
