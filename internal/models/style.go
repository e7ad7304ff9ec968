package models

import (
	"errors"
	"strings"
)

// PresentationStyle is a catalog entry describing how an arrangement is
// presented (bouquet, vase, basket...). Its base price covers the container
// and wrapping material and seeds the arrangement's base price on every
// recompute.
type PresentationStyle struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	BasePrice   int    `json:"base_price" db:"base_price"` // VND
	Description string `json:"description" db:"description"`
	ImageURL    string `json:"image_url" db:"image_url"`
}

// Validate validates the presentation style data
func (ps *PresentationStyle) Validate() error {
	if strings.TrimSpace(ps.Name) == "" {
		return errors.New("presentation style name is required")
	}

	if ps.BasePrice < 0 {
		return errors.New("base price cannot be negative")
	}

	return nil
}
