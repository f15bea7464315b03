package domain

import (
	"time"
)

// AttrSize is the CartItem attribute key holding the chosen size.
const AttrSize = "size"

type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID string
	Quantity  int
	Attrs     map[string]string

	CreatedAt time.Time
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add appends a line. Repeated adds of the same product stay separate lines.
func (c *Cart) Add(item CartItem) {
	c.Items = append(c.Items, item)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (i CartItem) Size() string {
	return i.Attrs[AttrSize]
}
