package model

import "encoding/json"

// Order is one stored order plus its derived response fields. A card
// reference is resolved through the relationship collection, never
// stored on the order itself.
type Order struct {
	ID           int64   `json:"id"`
	DateCreated  string  `json:"date_created"`
	OrderTotal   float64 `json:"order_total"`
	Status       string  `json:"status"`
	Self         string  `json:"self,omitempty"`
	CreditCardID *int64  `json:"credit_card_id"`
}

// OrderAttributes is a parsed request body for order create/replace/
// patch, with absence tracked per key.
type OrderAttributes struct {
	DateCreated *string
	OrderTotal  *float64
	Status      *string
	Unknown     []string
}

func ParseOrderAttributes(body []byte) (OrderAttributes, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return OrderAttributes{}, err
	}

	var attrs OrderAttributes
	for key, val := range raw {
		switch key {
		case "date_created":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return OrderAttributes{}, err
			}
			attrs.DateCreated = &s
		case "order_total":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return OrderAttributes{}, err
			}
			attrs.OrderTotal = &f
		case "status":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return OrderAttributes{}, err
			}
			attrs.Status = &s
		default:
			attrs.Unknown = append(attrs.Unknown, key)
		}
	}
	return attrs, nil
}

func (a OrderAttributes) Complete() bool {
	return a.DateCreated != nil && a.OrderTotal != nil && a.Status != nil
}

func (a OrderAttributes) Empty() bool {
	return a.DateCreated == nil && a.OrderTotal == nil && a.Status == nil
}

// OrderPage is one page of the order collection.
type OrderPage struct {
	Orders []*Order
	Next   string
	Total  int
}
