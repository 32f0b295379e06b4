package services

import (
	"context"
	"errors"
	"sync"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/internal/repository"
)

type RelationshipRepository interface {
	Create(ctx context.Context, rel *model.Relationship) (*model.Relationship, error)
	Update(ctx context.Context, rel *model.Relationship) (*model.Relationship, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Relationship, error)
	FindByCard(ctx context.Context, cardID int64) (*model.Relationship, error)
	FindByOrder(ctx context.Context, orderID int64) (*model.Relationship, error)
}

// RelationshipService owns every write to the join collection: attach,
// detach and both cascade paths. Serializing them behind one mutex keeps
// the scan-then-write invariants (one row per card, one card per order)
// from racing each other.
type RelationshipService struct {
	cards  CreditCardRepository
	orders OrderRepository
	rels   RelationshipRepository

	mu sync.Mutex
}

func NewRelationshipService(cards CreditCardRepository, orders OrderRepository, rels RelationshipRepository) *RelationshipService {
	return &RelationshipService{
		cards:  cards,
		orders: orders,
		rels:   rels,
	}
}

// Attach ties an order to a card. The order must not be attached to any
// card; the card's existing row is reused so a card never grows a
// second one.
func (s *RelationshipService) Attach(ctx context.Context, cardID, orderID int64) (*model.Relationship, error) {
	if err := s.checkEntities(ctx, cardID, orderID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.rels.FindByOrder(ctx, orderID); err == nil {
		return nil, ErrOrderAlreadyAttached
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rel, err := s.rels.FindByCard(ctx, cardID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return s.rels.Create(ctx, &model.Relationship{
			CardID: cardID,
			Orders: []int64{orderID},
		})
	}

	rel.Orders = append(rel.Orders, orderID)
	return s.rels.Update(ctx, rel)
}

// Detach removes one order from its card's row. The row stays behind
// even when that empties it.
func (s *RelationshipService) Detach(ctx context.Context, cardID, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, err := s.rels.FindByCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRelationshipNotFound
		}
		return err
	}
	if !rel.RemoveOrder(orderID) {
		return ErrRelationshipNotFound
	}
	_, err = s.rels.Update(ctx, rel)
	return err
}

// Get returns the card's relationship row once both referenced entities
// are known to exist. The order id only gates existence; the lookup is
// by card.
func (s *RelationshipService) Get(ctx context.Context, cardID, orderID int64) (*model.Relationship, error) {
	if err := s.checkEntities(ctx, cardID, orderID); err != nil {
		return nil, err
	}

	rel, err := s.rels.FindByCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRelationshipNotFound
		}
		return nil, err
	}
	return rel, nil
}

// ListForCard returns the card's populated relationship row, or an
// empty-orders result when the card has none. Only an unknown card is
// an error.
func (s *RelationshipService) ListForCard(ctx context.Context, cardID int64) (*model.Relationship, error) {
	ok, err := s.cardExists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCardNotFound
	}

	rels, err := s.rels.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.CardID == cardID && len(rel.Orders) > 0 {
			return rel, nil
		}
	}
	return &model.Relationship{CardID: cardID, Orders: []int64{}}, nil
}

// DeleteForCard removes every relationship row referencing the card,
// populated or not. Called from the card cascade.
func (s *RelationshipService) DeleteForCard(ctx context.Context, cardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rels, err := s.rels.List(ctx)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if rel.CardID != cardID {
			continue
		}
		if err := s.rels.Delete(ctx, rel.ID); err != nil {
			return err
		}
	}
	return nil
}

// DetachOrder removes an order id from whichever row lists it, keeping
// the row. No-op when the order is unattached. Called from the order
// cascade.
func (s *RelationshipService) DetachOrder(ctx context.Context, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, err := s.rels.FindByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	rel.RemoveOrder(orderID)
	_, err = s.rels.Update(ctx, rel)
	return err
}

func (s *RelationshipService) checkEntities(ctx context.Context, cardID, orderID int64) error {
	cardOK, err := s.cardExists(ctx, cardID)
	if err != nil {
		return err
	}
	orderOK, err := s.orderExists(ctx, orderID)
	if err != nil {
		return err
	}
	if !cardOK || !orderOK {
		return ErrEntityNotFound
	}
	return nil
}

func (s *RelationshipService) cardExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.cards.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (s *RelationshipService) orderExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.orders.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}
