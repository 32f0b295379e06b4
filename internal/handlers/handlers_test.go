package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/benitema/card-orders-api/internal/auth"
	"github.com/benitema/card-orders-api/internal/model"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
)

type MockCreditCardService struct {
	mock.Mock
}

func (m *MockCreditCardService) Create(ctx context.Context, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	args := m.Called(ctx, attrs, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardService) List(ctx context.Context, subject string, limit, offset int) ([]*model.CreditCard, int, error) {
	args := m.Called(ctx, subject, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.CreditCard), args.Int(1), args.Error(2)
}

func (m *MockCreditCardService) Get(ctx context.Context, id int64, subject string) (*model.CreditCard, error) {
	args := m.Called(ctx, id, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardService) Replace(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	args := m.Called(ctx, id, attrs, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardService) Patch(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error) {
	args := m.Called(ctx, id, attrs, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditCard), args.Error(1)
}

func (m *MockCreditCardService) Delete(ctx context.Context, id int64, subject string) error {
	args := m.Called(ctx, id, subject)
	return args.Error(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, attrs model.OrderAttributes) (*model.Order, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, limit, offset int) ([]*model.Order, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Replace(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Patch(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error) {
	args := m.Called(ctx, id, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRelationshipService struct {
	mock.Mock
}

func (m *MockRelationshipService) Attach(ctx context.Context, cardID, orderID int64) (*model.Relationship, error) {
	args := m.Called(ctx, cardID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

func (m *MockRelationshipService) Detach(ctx context.Context, cardID, orderID int64) error {
	args := m.Called(ctx, cardID, orderID)
	return args.Error(0)
}

func (m *MockRelationshipService) Get(ctx context.Context, cardID, orderID int64) (*model.Relationship, error) {
	args := m.Called(ctx, cardID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

func (m *MockRelationshipService) ListForCard(ctx context.Context, cardID int64) (*model.Relationship, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

// stubVerifier accepts any token and returns a fixed subject, or fails
// with err when set.
type stubVerifier struct {
	subject string
	err     error
}

func (s stubVerifier) Verify(string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.subject, nil
}

var _ auth.TokenVerifier = stubVerifier{}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetHost("api.test")
	ctx.Request.Header.Set("Accept", "application/json")
	if body != nil {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(body)
	}
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *xhttp.RequestCtx) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &e))
	return e
}
