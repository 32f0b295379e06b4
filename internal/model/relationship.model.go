package model

// Relationship is the join record tying one credit card to the orders
// charged against it. Each card has at most one row, and an order id
// appears in at most one row system-wide.
//
// ID is omitted from JSON when zero so summary/item reads can return the
// row without a relationship_id, matching the attach response carrying
// one.
type Relationship struct {
	ID     int64   `json:"relationship_id,omitempty"`
	CardID int64   `json:"card_id"`
	Orders []int64 `json:"orders"`
	Self   string  `json:"self,omitempty"`
}

// ContainsOrder reports whether the row lists the given order.
func (r *Relationship) ContainsOrder(orderID int64) bool {
	for _, id := range r.Orders {
		if id == orderID {
			return true
		}
	}
	return false
}

// RemoveOrder deletes one occurrence of orderID, preserving the order of
// the remaining ids. Returns false when the id is not present.
func (r *Relationship) RemoveOrder(orderID int64) bool {
	for i, id := range r.Orders {
		if id == orderID {
			r.Orders = append(r.Orders[:i], r.Orders[i+1:]...)
			return true
		}
	}
	return false
}
