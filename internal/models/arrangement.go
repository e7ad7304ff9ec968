package models

import (
	"errors"
	"strings"
	"time"
)

// Arrangement represents one custom bouquet configuration. Guests can build
// arrangements too, in which case UserID is nil. The pricing fields always
// satisfy TotalPrice == BasePrice + FlowersCost after a recompute; BasePrice
// mirrors the presentation style's base price rather than being a user input.
type Arrangement struct {
	ID                  int        `json:"id" db:"id"`
	UserID              *int       `json:"user_id,omitempty" db:"user_id"`
	Name                string     `json:"name" db:"name"`
	Description         string     `json:"description" db:"description"`
	PresentationStyleID int        `json:"presentation_style_id" db:"presentation_style_id"`
	BasePrice           int        `json:"base_price" db:"base_price"`     // VND, from presentation style
	FlowersCost         int        `json:"flowers_cost" db:"flowers_cost"` // sum of flower line totals
	TotalPrice          int        `json:"total_price" db:"total_price"`   // BasePrice + FlowersCost
	IsSaved             bool       `json:"is_saved" db:"is_saved"`
	IsOrdered           bool       `json:"is_ordered" db:"is_ordered"`
	OrderID             *string    `json:"order_id,omitempty" db:"order_id"`
	PreviewImageURL     string     `json:"preview_image_url" db:"preview_image_url"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	// Loaded relations (not always populated)
	PresentationStyle *PresentationStyle  `json:"presentation_style,omitempty"`
	Flowers           []*ArrangementFlower `json:"flowers,omitempty"`
}

// ArrangementFlower is one flower-type selection inside an arrangement. The
// same flower type may appear on several lines with different colors; lines
// are never merged. UnitPrice is a snapshot of the catalog price taken when
// the line was created and does not change on update.
type ArrangementFlower struct {
	ID            int    `json:"id" db:"id"`
	ArrangementID int    `json:"arrangement_id" db:"arrangement_id"`
	FlowerTypeID  int    `json:"flower_type_id" db:"flower_type_id"`
	Quantity      int    `json:"quantity" db:"quantity"`
	Color         string `json:"color" db:"color"`
	UnitPrice     int    `json:"unit_price" db:"unit_price"` // VND per stem, snapshot
	TotalPrice    int    `json:"total_price" db:"total_price"` // Quantity * UnitPrice
	Notes         string `json:"notes" db:"notes"`

	FlowerType *FlowerType `json:"flower_type,omitempty"`
}

// ArrangementCreateRequest carries the data needed to start a new arrangement
type ArrangementCreateRequest struct {
	UserID              *int   `json:"user_id,omitempty"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	PresentationStyleID int    `json:"presentation_style_id"`
}

// AddFlowerRequest carries the data for adding a flower line
type AddFlowerRequest struct {
	ArrangementID int    `json:"arrangement_id"`
	FlowerTypeID  int    `json:"flower_type_id"`
	Quantity      int    `json:"quantity"`
	Color         string `json:"color"`
	Notes         string `json:"notes"`
}

// UpdateFlowerRequest carries the data for updating an existing flower line.
// Only quantity and color are caller-controlled; the unit price snapshot is
// kept from creation time.
type UpdateFlowerRequest struct {
	FlowerID int    `json:"flower_id"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
}

// Validate validates arrangement creation data
func (req *ArrangementCreateRequest) Validate() error {
	if err := validateArrangementName(req.Name); err != nil {
		return err
	}

	if req.PresentationStyleID <= 0 {
		return errors.New("presentation style is required")
	}

	if len(req.Description) > 1000 {
		return errors.New("description must be less than 1000 characters")
	}

	return nil
}

// Validate validates the add-flower data
func (req *AddFlowerRequest) Validate() error {
	if req.ArrangementID <= 0 {
		return errors.New("arrangement id is required")
	}

	if req.FlowerTypeID <= 0 {
		return errors.New("flower type is required")
	}

	if err := validateFlowerQuantity(req.Quantity); err != nil {
		return err
	}

	if err := validateFlowerColor(req.Color); err != nil {
		return err
	}

	if len(req.Notes) > 500 {
		return errors.New("notes must be less than 500 characters")
	}

	return nil
}

// Validate validates the update-flower data
func (req *UpdateFlowerRequest) Validate() error {
	if req.FlowerID <= 0 {
		return errors.New("flower id is required")
	}

	if err := validateFlowerQuantity(req.Quantity); err != nil {
		return err
	}

	return validateFlowerColor(req.Color)
}

func validateArrangementName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("arrangement name is required")
	}

	if len(name) > 200 {
		return errors.New("arrangement name must be less than 200 characters")
	}

	return nil
}

func validateFlowerQuantity(quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be greater than 0")
	}

	// A single arrangement never needs more than 1,000 stems of one flower
	if quantity > 1000 {
		return errors.New("quantity cannot exceed 1,000")
	}

	return nil
}

func validateFlowerColor(color string) error {
	if strings.TrimSpace(color) == "" {
		return errors.New("color is required")
	}

	if len(color) > 50 {
		return errors.New("color must be less than 50 characters")
	}

	return nil
}

// LineTotal returns Quantity * UnitPrice
func (f *ArrangementFlower) LineTotal() int {
	return f.Quantity * f.UnitPrice
}

// FlowersTotal sums the line totals of the loaded flower lines
func (a *Arrangement) FlowersTotal() int {
	total := 0
	for _, f := range a.Flowers {
		total += f.TotalPrice
	}
	return total
}

// IsOwnedBy returns true if the arrangement belongs to the given user
func (a *Arrangement) IsOwnedBy(userID int) bool {
	return a.UserID != nil && *a.UserID == userID
}

// IsGuest returns true if the arrangement has no owning user
func (a *Arrangement) IsGuest() bool {
	return a.UserID == nil
}

// LastTouched returns the update timestamp, falling back to creation time
// for arrangements that were never updated
func (a *Arrangement) LastTouched() time.Time {
	if a.UpdatedAt != nil {
		return *a.UpdatedAt
	}
	return a.CreatedAt
}
