package catalog

import (
	"context"
	"strings"

	"github.com/rogerio-castellano/storefront/internal/models"
)

// Filter narrows a product listing. Nil bounds are ignored.
type Filter struct {
	Name     string
	MinPrice *float64
	MaxPrice *float64
	Offset   *int
	Limit    *int
}

func (f Filter) matches(p models.Product) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Search returns one page of the products matching f, in insertion order,
// together with the number of matches before paging.
func (s *Store) Search(ctx context.Context, f Filter) ([]models.Product, int) {
	filtered := []models.Product{}
	for _, p := range s.List(ctx) {
		if f.matches(p) {
			filtered = append(filtered, p)
		}
	}

	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if f.Limit != nil && *f.Limit > 0 {
		end = clamp(start+*f.Limit, start, len(filtered))
	}
	return filtered[start:end], len(filtered)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
