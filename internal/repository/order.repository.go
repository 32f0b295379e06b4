package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/pkg/datastore"
)

type OrderRepository struct {
	store datastore.Store
}

func NewOrderRepository(store datastore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	id, err := r.store.NextID(ctx, KindOrders)
	if err != nil {
		return nil, err
	}

	entity := toOrderEntity(order)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindOrders, id, data); err != nil {
		return nil, err
	}

	return toOrderModel(id, entity), nil
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	doc, err := r.store.Get(ctx, KindOrders, id)
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var entity OrderEntity
	if err := json.Unmarshal(doc.Data, &entity); err != nil {
		return nil, err
	}
	return toOrderModel(doc.ID, &entity), nil
}

func (r *OrderRepository) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	entity := toOrderEntity(order)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindOrders, order.ID, data); err != nil {
		return nil, err
	}
	return toOrderModel(order.ID, entity), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.Delete(ctx, KindOrders, id)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

func (r *OrderRepository) List(ctx context.Context) ([]*model.Order, error) {
	docs, err := r.store.List(ctx, KindOrders)
	if err != nil {
		return nil, err
	}
	orders := make([]*model.Order, 0, len(docs))
	for _, doc := range docs {
		var entity OrderEntity
		if err := json.Unmarshal(doc.Data, &entity); err != nil {
			return nil, err
		}
		orders = append(orders, toOrderModel(doc.ID, &entity))
	}
	return orders, nil
}
