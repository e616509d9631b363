package models

// Product represents a sellable item in the catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	CreatedAt   string  `json:"createdAt"`
}
