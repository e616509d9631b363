package handlers

import (
	"encoding/json"

	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/models"
)

// ProductRequest is the body of POST /api/products. Price accepts a JSON
// number or a numeric string.
type ProductRequest struct {
	Name        string          `json:"name"`
	Price       json.RawMessage `json:"price" swaggertype:"number"`
	Description string          `json:"description"`
	Image       *string         `json:"image,omitempty"`
}

// ProductUpdateRequest is the body of PUT /api/products/{id}. Absent fields
// are left unchanged.
type ProductUpdateRequest struct {
	Name        *string         `json:"name,omitempty"`
	Price       json.RawMessage `json:"price,omitempty" swaggertype:"number"`
	Description *string         `json:"description,omitempty"`
	Image       *string         `json:"image,omitempty"`
}

type ProductResult struct {
	Success bool                `json:"success"`
	Product *models.Product     `json:"product,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

type SuccessResult struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                 `json:"imported"`
	Errors                []apperr.FieldError `json:"errors"`
}

type CartSessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
}

type CartLineResponse struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"item_count"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func toCartResponse(c models.Cart) CartResponse {
	resp := CartResponse{
		Items:     make([]CartLineResponse, len(c.Lines)),
		Total:     c.Total().Round(2).InexactFloat64(),
		ItemCount: c.ItemCount(),
	}
	for i, l := range c.Lines {
		resp.Items[i] = CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().Round(2).InexactFloat64(),
		}
	}
	return resp
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta"`
}
