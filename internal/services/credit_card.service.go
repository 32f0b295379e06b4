package services

import (
	"context"
	"errors"
	"sync"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/internal/repository"
)

var (
	ErrCardNotFound        = errors.New("no credit card with this credit_card_id exists")
	ErrOrderNotFound       = errors.New("no order with this order_id exists")
	ErrEntityNotFound      = errors.New("the specified credit card and/or order does not exist")
	ErrRelationshipNotFound = errors.New("no order with this order_id is associated with a credit card with this card_id")
	ErrMissingAttribute    = errors.New("the request object is missing at least one of the required attributes")
	ErrInvalidAttribute    = errors.New("the request contains an invalid attribute")
	ErrNoAttributes        = errors.New("no valid attributes to modify")
	ErrDuplicateCardNumber = errors.New("this credit card number already exists")
	ErrNotOwner            = errors.New("only the owner of this credit card is authorized to access it")
	ErrOrderAlreadyAttached = errors.New("this order has already been added to an existing credit card")
)

type CreditCardRepository interface {
	Create(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error)
	Get(ctx context.Context, id int64) (*model.CreditCard, error)
	Update(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.CreditCard, error)
}

type RelationshipReader interface {
	List(ctx context.Context) ([]*model.Relationship, error)
}

// CardCascader removes a card's relationship rows when the card goes
// away. Implemented by RelationshipService so relationship writes stay
// serialized in one place.
type CardCascader interface {
	DeleteForCard(ctx context.Context, cardID int64) error
}

type CreditCardService struct {
	cards    CreditCardRepository
	rels     RelationshipReader
	cascader CardCascader

	// serializes the uniqueness scan against the write that follows it
	mu sync.Mutex
}

func NewCreditCardService(cards CreditCardRepository, rels RelationshipReader, cascader CardCascader) *CreditCardService {
	return &CreditCardService{
		cards:    cards,
		rels:     rels,
		cascader: cascader,
	}
}

func (s *CreditCardService) Create(ctx context.Context, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	if !attrs.Complete() {
		return nil, ErrMissingAttribute
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCardNumberUnique(ctx, *attrs.CardNumber, 0); err != nil {
		return nil, err
	}

	card := &model.CreditCard{
		CardNumber: *attrs.CardNumber,
		Type:       *attrs.Type,
		Expiration: *attrs.Expiration,
		CVVCode:    *attrs.CVVCode,
		Owner:      subject,
	}
	created, err := s.cards.Create(ctx, card)
	if err != nil {
		return nil, err
	}
	created.Orders = []int64{}
	return created, nil
}

// List returns one page of the owner's cards plus the owner's total,
// each card annotated with the orders tied to it.
func (s *CreditCardService) List(ctx context.Context, subject string, limit, offset int) ([]*model.CreditCard, int, error) {
	if limit <= 0 {
		limit = 5
	}
	if offset < 0 {
		offset = 0
	}

	all, err := s.cards.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	owned := make([]*model.CreditCard, 0, len(all))
	for _, c := range all {
		if c.Owner == subject {
			owned = append(owned, c)
		}
	}
	total := len(owned)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := owned[offset:end]

	rels, err := s.rels.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, c := range page {
		annotateCardOrders(c, rels)
	}
	return page, total, nil
}

func (s *CreditCardService) Get(ctx context.Context, id int64, subject string) (*model.CreditCard, error) {
	card, err := s.getOwned(ctx, id, subject)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CreditCardService) Replace(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	card, err := s.getOwned(ctx, id, subject)
	if err != nil {
		return nil, err
	}
	if !attrs.Complete() {
		return nil, ErrMissingAttribute
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCardNumberUnique(ctx, *attrs.CardNumber, id); err != nil {
		return nil, err
	}

	card.CardNumber = *attrs.CardNumber
	card.Type = *attrs.Type
	card.Expiration = *attrs.Expiration
	card.CVVCode = *attrs.CVVCode

	updated, err := s.cards.Update(ctx, card)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CreditCardService) Patch(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	card, err := s.getOwned(ctx, id, subject)
	if err != nil {
		return nil, err
	}
	if attrs.Empty() {
		return nil, ErrNoAttributes
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if attrs.CardNumber != nil {
		if err := s.checkCardNumberUnique(ctx, *attrs.CardNumber, id); err != nil {
			return nil, err
		}
		card.CardNumber = *attrs.CardNumber
	}
	if attrs.Type != nil {
		card.Type = *attrs.Type
	}
	if attrs.Expiration != nil {
		card.Expiration = *attrs.Expiration
	}
	if attrs.CVVCode != nil {
		card.CVVCode = *attrs.CVVCode
	}

	updated, err := s.cards.Update(ctx, card)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the card and cascades away its relationship rows.
func (s *CreditCardService) Delete(ctx context.Context, id int64, subject string) error {
	if _, err := s.getOwned(ctx, id, subject); err != nil {
		return err
	}
	if err := s.cascader.DeleteForCard(ctx, id); err != nil {
		return err
	}
	return s.cards.Delete(ctx, id)
}

func (s *CreditCardService) getOwned(ctx context.Context, id int64, subject string) (*model.CreditCard, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if card.Owner != subject {
		return nil, ErrNotOwner
	}
	return card, nil
}

// checkCardNumberUnique scans every live card; excludeID skips the card
// being edited. Callers hold s.mu.
func (s *CreditCardService) checkCardNumberUnique(ctx context.Context, cardNumber string, excludeID int64) error {
	all, err := s.cards.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.CardNumber == cardNumber && c.ID != excludeID {
			return ErrDuplicateCardNumber
		}
	}
	return nil
}

func (s *CreditCardService) annotate(ctx context.Context, card *model.CreditCard) error {
	rels, err := s.rels.List(ctx)
	if err != nil {
		return err
	}
	annotateCardOrders(card, rels)
	return nil
}

// annotateCardOrders fills card.Orders from the card's populated
// relationship row, or leaves an empty list.
func annotateCardOrders(card *model.CreditCard, rels []*model.Relationship) {
	card.Orders = []int64{}
	for _, rel := range rels {
		if rel.CardID == card.ID && len(rel.Orders) > 0 {
			card.Orders = rel.Orders
			return
		}
	}
}
