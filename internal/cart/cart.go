// Package cart keeps storefront shopping carts as server owned sessions.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"go-storefront/internal/model"
)

var (
	ErrInvalidSession  = errors.New("cart: invalid session id")
	ErrInvalidQuantity = errors.New("cart: quantity must not be negative")
)

type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Tier      model.PriceTier `json:"tier"`
}

type Cart struct {
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionID returns a fresh opaque session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like a session id we issued.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SetQuantity sets the quantity of a product line. Zero removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int, tier model.PriceTier) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	if tier == "" {
		tier = model.TierRetail
	}
	for i, it := range c.Items {
		if it.ProductID != productID || it.Tier != tier {
			continue
		}
		if qty == 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = qty
		}
		return nil
	}
	if qty > 0 {
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: qty, Tier: tier})
	}
	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
