package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/pkg/datastore"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("record not found")
)

type CreditCardRepository struct {
	store datastore.Store
}

func NewCreditCardRepository(store datastore.Store) *CreditCardRepository {
	return &CreditCardRepository{store: store}
}

func (r *CreditCardRepository) Create(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error) {
	id, err := r.store.NextID(ctx, KindCreditCards)
	if err != nil {
		return nil, err
	}

	entity := toCreditCardEntity(card)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindCreditCards, id, data); err != nil {
		return nil, err
	}

	return toCreditCardModel(id, entity), nil
}

func (r *CreditCardRepository) Get(ctx context.Context, id int64) (*model.CreditCard, error) {
	doc, err := r.store.Get(ctx, KindCreditCards, id)
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var entity CreditCardEntity
	if err := json.Unmarshal(doc.Data, &entity); err != nil {
		return nil, err
	}
	return toCreditCardModel(doc.ID, &entity), nil
}

func (r *CreditCardRepository) Update(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error) {
	entity := toCreditCardEntity(card)
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, KindCreditCards, card.ID, data); err != nil {
		return nil, err
	}
	return toCreditCardModel(card.ID, entity), nil
}

func (r *CreditCardRepository) Delete(ctx context.Context, id int64) error {
	err := r.store.Delete(ctx, KindCreditCards, id)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return ErrNotFound
	}
	return err
}

// List returns every card, ascending by id. Uniqueness and ownership
// checks scan this the way the backing store scans a kind.
func (r *CreditCardRepository) List(ctx context.Context) ([]*model.CreditCard, error) {
	docs, err := r.store.List(ctx, KindCreditCards)
	if err != nil {
		return nil, err
	}
	cards := make([]*model.CreditCard, 0, len(docs))
	for _, doc := range docs {
		var entity CreditCardEntity
		if err := json.Unmarshal(doc.Data, &entity); err != nil {
			return nil, err
		}
		cards = append(cards, toCreditCardModel(doc.ID, &entity))
	}
	return cards, nil
}
