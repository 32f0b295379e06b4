package model

import "encoding/json"

// CreditCard is one stored card plus the derived fields (id, self,
// orders) that responses carry but the datastore does not.
type CreditCard struct {
	ID         int64   `json:"id"`
	CardNumber string  `json:"card_number"`
	Type       string  `json:"type"`
	Expiration string  `json:"expiration"`
	CVVCode    string  `json:"cvv_code"`
	Owner      string  `json:"owner"`
	Self       string  `json:"self,omitempty"`
	Orders     []int64 `json:"orders"`
}

// CreditCardAttributes is a parsed request body for card create/replace/
// patch. Nil means the key was absent; Unknown collects keys outside the
// card schema.
type CreditCardAttributes struct {
	CardNumber *string
	Type       *string
	Expiration *string
	CVVCode    *string
	Unknown    []string
}

// ParseCreditCardAttributes decodes a JSON body while keeping absent
// keys distinguishable from empty values.
func ParseCreditCardAttributes(body []byte) (CreditCardAttributes, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return CreditCardAttributes{}, err
	}

	var attrs CreditCardAttributes
	for key, val := range raw {
		var dst **string
		switch key {
		case "card_number":
			dst = &attrs.CardNumber
		case "type":
			dst = &attrs.Type
		case "expiration":
			dst = &attrs.Expiration
		case "cvv_code":
			dst = &attrs.CVVCode
		default:
			attrs.Unknown = append(attrs.Unknown, key)
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return CreditCardAttributes{}, err
		}
		*dst = &s
	}
	return attrs, nil
}

// Complete reports whether every card attribute is present.
func (a CreditCardAttributes) Complete() bool {
	return a.CardNumber != nil && a.Type != nil && a.Expiration != nil && a.CVVCode != nil
}

// Empty reports whether no card attribute is present.
func (a CreditCardAttributes) Empty() bool {
	return a.CardNumber == nil && a.Type == nil && a.Expiration == nil && a.CVVCode == nil
}

// CreditCardPage is one page of the owner's cards.
type CreditCardPage struct {
	CreditCards []*CreditCard
	Next        string
	Total       int
}
