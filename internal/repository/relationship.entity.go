package repository

import (
	"github.com/benitema/card-orders-api/internal/model"
)

// KindCardOrders is the datastore kind holding the card-to-order join
// documents.
const KindCardOrders = "card_order"

type RelationshipEntity struct {
	CardID int64   `json:"card_id"`
	Orders []int64 `json:"orders"`
}

func toRelationshipEntity(m *model.Relationship) *RelationshipEntity {
	if m == nil {
		return nil
	}
	orders := m.Orders
	if orders == nil {
		orders = []int64{}
	}
	return &RelationshipEntity{
		CardID: m.CardID,
		Orders: orders,
	}
}

func toRelationshipModel(id int64, e *RelationshipEntity) *model.Relationship {
	if e == nil {
		return nil
	}
	orders := e.Orders
	if orders == nil {
		orders = []int64{}
	}
	return &model.Relationship{
		ID:     id,
		CardID: e.CardID,
		Orders: orders,
	}
}
