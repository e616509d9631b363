package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront/internal/cart"
	mw "github.com/rogerio-castellano/storefront/internal/http/middleware"
)

func (h *Handler) cartOf(r *http.Request) *cart.Engine {
	return h.carts.For(mw.SessionID(r))
}

// CreateCartSessionHandler godoc
// @Summary Start a cart session
// @Description Returns a signed token to send as X-Cart-Token on cart requests
// @Tags cart
// @Produce json
// @Success 201 {object} CartSessionResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/cart/session [post]
func (h *Handler) CreateCartSessionHandler(w http.ResponseWriter, r *http.Request) {
	token, sessionID, err := h.sessions.Issue()
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusCreated, CartSessionResponse{Token: token, SessionID: sessionID})
}

// GetCartHandler godoc
// @Summary Show the cart
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Success 200 {object} CartResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/cart [get]
func (h *Handler) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, toCartResponse(h.cartOf(r).Cart(r.Context())))
}

// AddCartItemHandler godoc
// @Summary Add one unit of a product to the cart
// @Description A new line snapshots the product's current name and price
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Param item body AddCartItemRequest true "Product to add"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/cart/items [post]
func (h *Handler) AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "product_id is required"})
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	c, err := h.cartOf(r).AddItem(r.Context(), product)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toCartResponse(c))
}

// IncrementCartItemHandler godoc
// @Summary Increase the quantity of a cart line
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/cart/items/{id}/increment [post]
func (h *Handler) IncrementCartItemHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartOf(r).Increment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toCartResponse(c))
}

// DecrementCartItemHandler godoc
// @Summary Decrease the quantity of a cart line
// @Description The line is removed when its quantity would reach zero
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/cart/items/{id}/decrement [post]
func (h *Handler) DecrementCartItemHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartOf(r).Decrement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toCartResponse(c))
}

// RemoveCartItemHandler godoc
// @Summary Remove a cart line
// @Description Removing a product that is not in the cart succeeds
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Param id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /api/cart/items/{id} [delete]
func (h *Handler) RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartOf(r).Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toCartResponse(c))
}

// ClearCartHandler godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string true "Cart token"
// @Success 200 {object} CartResponse
// @Router /api/cart [delete]
func (h *Handler) ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.cartOf(r).Clear(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, toCartResponse(c))
}
