package repository

import (
	"github.com/benitema/card-orders-api/internal/model"
)

// KindCreditCards is the datastore kind holding card documents.
const KindCreditCards = "credit_cards"

// CreditCardEntity is the stored shape of a card. Derived response
// fields (id, self, orders) are never persisted.
type CreditCardEntity struct {
	CardNumber string `json:"card_number"`
	Type       string `json:"type"`
	Expiration string `json:"expiration"`
	CVVCode    string `json:"cvv_code"`
	Owner      string `json:"owner"`
}

func toCreditCardEntity(m *model.CreditCard) *CreditCardEntity {
	if m == nil {
		return nil
	}
	return &CreditCardEntity{
		CardNumber: m.CardNumber,
		Type:       m.Type,
		Expiration: m.Expiration,
		CVVCode:    m.CVVCode,
		Owner:      m.Owner,
	}
}

func toCreditCardModel(id int64, e *CreditCardEntity) *model.CreditCard {
	if e == nil {
		return nil
	}
	return &model.CreditCard{
		ID:         id,
		CardNumber: e.CardNumber,
		Type:       e.Type,
		Expiration: e.Expiration,
		CVVCode:    e.CVVCode,
		Owner:      e.Owner,
	}
}
