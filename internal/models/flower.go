package models

import (
	"errors"
	"strings"
	"time"
)

// FlowerType represents a purchasable flower species in the catalog.
// Arrangements reference flower types but never own them; stock quantity is
// the number of individual stems on hand.
type FlowerType struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Quantity        int       `json:"quantity" db:"quantity"` // stems in stock
	IsActive        bool      `json:"is_active" db:"is_active"`
	UnitPrice       int       `json:"unit_price" db:"unit_price"` // price per stem in VND
	AvailableColors string    `json:"available_colors" db:"available_colors"` // comma-separated
	Description     string    `json:"description" db:"description"`
	ImageURL        string    `json:"image_url" db:"image_url"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Validate validates the flower type data
func (ft *FlowerType) Validate() error {
	if strings.TrimSpace(ft.Name) == "" {
		return errors.New("flower type name is required")
	}

	if len(ft.Name) > 100 {
		return errors.New("flower type name must be less than 100 characters")
	}

	if ft.Quantity < 0 {
		return errors.New("stock quantity cannot be negative")
	}

	if ft.UnitPrice < 0 {
		return errors.New("unit price cannot be negative")
	}

	return nil
}

// HasStock returns true if at least quantity stems are in stock
func (ft *FlowerType) HasStock(quantity int) bool {
	return ft.Quantity >= quantity
}

// IsAvailable returns true if the flower type can be added to an arrangement
// in the requested quantity. Inactive flower types are never available, even
// with sufficient stock.
func (ft *FlowerType) IsAvailable(quantity int) bool {
	return ft.IsActive && ft.HasStock(quantity)
}

// ColorOptions returns the available colors as a slice
func (ft *FlowerType) ColorOptions() []string {
	if strings.TrimSpace(ft.AvailableColors) == "" {
		return nil
	}

	parts := strings.Split(ft.AvailableColors, ",")
	colors := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}
