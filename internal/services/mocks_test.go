package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/benitema/card-orders-api/internal/model"
)

type MockCreditCardRepository struct {
	mock.Mock
}

func (m *MockCreditCardRepository) Create(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) Get(ctx context.Context, id int64) (*model.CreditCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) Update(ctx context.Context, card *model.CreditCard) (*model.CreditCard, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCreditCardRepository) List(ctx context.Context) ([]*model.CreditCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CreditCard), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *model.Order) (*model.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context) ([]*model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) Create(ctx context.Context, rel *model.Relationship) (*model.Relationship, error) {
	args := m.Called(ctx, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) Update(ctx context.Context, rel *model.Relationship) (*model.Relationship, error) {
	args := m.Called(ctx, rel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRelationshipRepository) List(ctx context.Context) ([]*model.Relationship, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) FindByCard(ctx context.Context, cardID int64) (*model.Relationship, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

func (m *MockRelationshipRepository) FindByOrder(ctx context.Context, orderID int64) (*model.Relationship, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

type MockCardCascader struct {
	mock.Mock
}

func (m *MockCardCascader) DeleteForCard(ctx context.Context, cardID int64) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

type MockOrderCascader struct {
	mock.Mock
}

func (m *MockOrderCascader) DetachOrder(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func strptr(s string) *string { return &s }

func f64ptr(f float64) *float64 { return &f }
