package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/pkg/datastore"
)

type RelationshipRepository struct {
	store datastore.Store
}

func NewRelationshipRepository(store datastore.Store) *RelationshipRepository {
	return &RelationshipRepository{store: store}
}

func (r *RelationshipRepository) Create(ctx context.Context, rel *model.Relationship) (*model.Relationship, error) {
	id, err := r.store.NextID(ctx, KindCardOrders)
	if err != nil {
		return nil, err
	}

	entity := toRelationshipEntity(rel)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindCardOrders, id, data); err != nil {
		return nil, err
	}

	return toRelationshipModel(id, entity), nil
}

func (r *RelationshipRepository) Update(ctx context.Context, rel *model.Relationship) (*model.Relationship, error) {
	entity := toRelationshipEntity(rel)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindCardOrders, rel.ID, data); err != nil {
		return nil, err
	}
	return toRelationshipModel(rel.ID, entity), nil
}

func (r *RelationshipRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.Delete(ctx, KindCardOrders, id)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

func (r *RelationshipRepository) List(ctx context.Context) ([]*model.Relationship, error) {
	docs, err := r.store.List(ctx, KindCardOrders)
	if err != nil {
		return nil, err
	}
	rels := make([]*model.Relationship, 0, len(docs))
	for _, doc := range docs {
		var entity RelationshipEntity
		if err := json.Unmarshal(doc.Data, &entity); err != nil {
			return nil, err
		}
		rels = append(rels, toRelationshipModel(doc.ID, &entity))
	}
	return rels, nil
}

// FindByCard returns the relationship row for a card, or ErrNotFound.
// The first match wins; attach keeps rows unique per card.
func (r *RelationshipRepository) FindByCard(ctx context.Context, cardID int64) (*model.Relationship, error) {
	rels, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.CardID == cardID {
			return rel, nil
		}
	}
	return nil, ErrNotFound
}

// FindByOrder returns the row listing an order id, or ErrNotFound.
func (r *RelationshipRepository) FindByOrder(ctx context.Context, orderID int64) (*model.Relationship, error) {
	rels, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.ContainsOrder(orderID) {
			return rel, nil
		}
	}
	return nil, ErrNotFound
}
