package models

// Cart represents a session shopping cart
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem represents one line in the shopping cart. Catalog products carry a
// ProductID; custom arrangements carry an ArrangementID and a zero ProductID.
type CartItem struct {
	ProductID       int    `json:"product_id"`
	ArrangementID   int    `json:"arrangement_id,omitempty"`
	Name            string `json:"name"`
	Price           int    `json:"price"`            // VND
	DiscountedPrice int    `json:"discounted_price"` // VND, equals Price when no discount applies
	Quantity        int    `json:"quantity"`
	ImageURL        string `json:"image_url"`
}

// IsCustomArrangement returns true if the item is a custom arrangement line
func (i *CartItem) IsCustomArrangement() bool {
	return i.ArrangementID > 0
}

// Subtotal returns the line subtotal
func (i *CartItem) Subtotal() int {
	return i.DiscountedPrice * i.Quantity
}

// TotalPrice returns the cart total
func (c *Cart) TotalPrice() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// TotalItems returns the number of units across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// AddItem adds an item to the cart. Catalog products merge with an existing
// line for the same product; custom arrangements are always inserted as a
// distinct line, never merged.
func (c *Cart) AddItem(item CartItem) {
	if item.IsCustomArrangement() {
		c.Items = append(c.Items, item)
		return
	}

	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && !c.Items[i].IsCustomArrangement() {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}

	c.Items = append(c.Items, item)
}

// RemoveItem removes the catalog-product line for the given product id
func (c *Cart) RemoveItem(productID int) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID == productID && !item.IsCustomArrangement() {
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
}

// RemoveArrangement removes the custom-arrangement line for the given
// arrangement id
func (c *Cart) RemoveArrangement(arrangementID int) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ArrangementID == arrangementID {
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
}
