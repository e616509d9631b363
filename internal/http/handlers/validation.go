package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/storefront/internal/apperr"
)

// parsePrice accepts a JSON number or a string holding one, the way the admin
// form submits it. Range checks are left to the catalog.
func parsePrice(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, priceError("Price is required")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, priceError("Price must be a number")
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, priceError("Price must be a number")
		}
		return v, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, priceError("Price must be a number")
	}
	return v, nil
}

func priceError(description string) error {
	ve := &apperr.ValidationError{}
	ve.Add("price", description)
	return ve
}
