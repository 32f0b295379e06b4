package services

import (
	"context"
	"errors"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/internal/repository"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	Update(ctx context.Context, order *model.Order) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*model.Order, error)
}

// OrderCascader pulls a deleted order's id out of whichever relationship
// row lists it. The row itself stays, possibly empty.
type OrderCascader interface {
	DetachOrder(ctx context.Context, orderID int64) error
}

type OrderService struct {
	orders   OrderRepository
	rels     RelationshipReader
	cascader OrderCascader
}

func NewOrderService(orders OrderRepository, rels RelationshipReader, cascader OrderCascader) *OrderService {
	return &OrderService{
		orders:   orders,
		rels:     rels,
		cascader: cascader,
	}
}

func (s *OrderService) Create(ctx context.Context, attrs model.OrderAttributes) (*model.Order, error) {
	if !attrs.Complete() {
		return nil, ErrMissingAttribute
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	order := &model.Order{
		DateCreated: *attrs.DateCreated,
		OrderTotal:  *attrs.OrderTotal,
		Status:      *attrs.Status,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}
	// a fresh order is never attached
	created.CreditCardID = nil
	return created, nil
}

// List pages over every order, each annotated with the id of the card
// it is attached to (nil when unattached).
func (s *OrderService) List(ctx context.Context, limit, offset int) ([]*model.Order, int, error) {
	if limit <= 0 {
		limit = 5
	}
	if offset < 0 {
		offset = 0
	}

	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := all[offset:end]

	rels, err := s.rels.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range page {
		annotateOrderCard(o, rels)
	}
	return page, total, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) Replace(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !attrs.Complete() {
		return nil, ErrMissingAttribute
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	order.DateCreated = *attrs.DateCreated
	order.OrderTotal = *attrs.OrderTotal
	order.Status = *attrs.Status

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *OrderService) Patch(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if attrs.Empty() {
		return nil, ErrNoAttributes
	}
	if len(attrs.Unknown) > 0 {
		return nil, ErrInvalidAttribute
	}

	if attrs.DateCreated != nil {
		order.DateCreated = *attrs.DateCreated
	}
	if attrs.OrderTotal != nil {
		order.OrderTotal = *attrs.OrderTotal
	}
	if attrs.Status != nil {
		order.Status = *attrs.Status
	}

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the order and detaches it from its relationship row.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getOrder(ctx, id); err != nil {
		return err
	}
	if err := s.cascader.DetachOrder(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

func (s *OrderService) getOrder(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) annotate(ctx context.Context, order *model.Order) error {
	rels, err := s.rels.List(ctx)
	if err != nil {
		return err
	}
	annotateOrderCard(order, rels)
	return nil
}

func annotateOrderCard(order *model.Order, rels []*model.Relationship) {
	order.CreditCardID = nil
	for _, rel := range rels {
		if rel.ContainsOrder(order.ID) {
			cardID := rel.CardID
			order.CreditCardID = &cardID
			return
		}
	}
}
