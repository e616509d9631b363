package catalog

import (
	"math"
	"strings"

	"github.com/rogerio-castellano/storefront/internal/apperr"
)

func validateNew(np NewProduct) error {
	errs := &apperr.ValidationError{}
	if strings.TrimSpace(np.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if msg := checkPrice(np.Price); msg != "" {
		errs.Add("price", msg)
	}
	return errs.OrNil()
}

func validatePatch(p ProductPatch) error {
	errs := &apperr.ValidationError{}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs.Add("name", "Name cannot be blank")
	}
	if p.Price != nil {
		if msg := checkPrice(*p.Price); msg != "" {
			errs.Add("price", msg)
		}
	}
	return errs.OrNil()
}

func checkPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "Price must be a finite number"
	}
	if v < 0 {
		return "Price cannot be negative"
	}
	return ""
}
