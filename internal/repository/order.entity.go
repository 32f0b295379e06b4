package repository

import (
	"github.com/benitema/card-orders-api/internal/model"
)

// KindOrders is the datastore kind holding order documents.
const KindOrders = "orders"

type OrderEntity struct {
	DateCreated string  `json:"date_created"`
	OrderTotal  float64 `json:"order_total"`
	Status      string  `json:"status"`
}

func toOrderEntity(m *model.Order) *OrderEntity {
	if m == nil {
		return nil
	}
	return &OrderEntity{
		DateCreated: m.DateCreated,
		OrderTotal:  m.OrderTotal,
		Status:      m.Status,
	}
}

func toOrderModel(id int64, e *OrderEntity) *model.Order {
	if e == nil {
		return nil
	}
	return &model.Order{
		ID:          id,
		DateCreated: e.DateCreated,
		OrderTotal:  e.OrderTotal,
		Status:      e.Status,
	}
}
