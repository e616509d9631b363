package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront/internal/catalog"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog and assigns it an id
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResult
// @Failure 400 {object} ProductResult
// @Failure 500 {object} ErrorResponse
// @Router /api/products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		h.respondError(w, err)
		return
	}

	product, err := h.catalog.Add(r.Context(), catalog.NewProduct{
		Name:        req.Name,
		Price:       price,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respond(w, http.StatusCreated, ProductResult{Success: true, Product: &product})
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /api/products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, h.catalog.List(r.Context()))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Merges the given fields into the product. An empty image clears it.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} ProductResult
// @Failure 400 {object} ProductResult
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	patch := catalog.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
	if len(req.Price) > 0 {
		price, err := parsePrice(req.Price)
		if err != nil {
			h.respondError(w, err)
			return
		}
		patch.Price = &price
	}

	product, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, ProductResult{Success: true, Product: &product})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Cart lines referencing the product are not touched
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} SuccessResult
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respond(w, http.StatusOK, SuccessResult{Success: true})
}

func parseFloatPtr(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SearchProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param name query string false "Name contains (case insensitive)"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Router /api/products/search [get]
func (h *Handler) SearchProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, errMin := parseFloatPtr(q.Get("minPrice"))
	maxPrice, errMax := parseFloatPtr(q.Get("maxPrice"))
	offset, errOffset := parseIntPtr(q.Get("offset"))
	limit, errLimit := parseIntPtr(q.Get("limit"))
	if err := errors.Join(errMin, errMax, errOffset, errLimit); err != nil {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
		return
	}

	filter := catalog.Filter{
		Name:     q.Get("name"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Offset:   offset,
		Limit:    limit,
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be greater than zero"})
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		h.respond(w, http.StatusBadRequest, ErrorResponse{Error: "offset must be zero or positive"})
		return
	}

	products, total := h.catalog.Search(r.Context(), filter)
	h.respond(w, http.StatusOK, ProductsSearchResult{
		Data: products,
		Meta: Meta{TotalCount: total},
	})
}
