package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benitema/card-orders-api/internal/model"
	"github.com/benitema/card-orders-api/internal/services"
)

func TestRelationshipHandler_AttachOrder(t *testing.T) {
	t.Run("successful attach", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Attach", mock.Anything, int64(1), int64(7)).Return(&model.Relationship{
			ID: 4, CardID: 1, Orders: []int64{7},
		}, nil)

		ctx := setupTestContext("PUT", "/credit_cards/1/orders/7", nil)
		ctx.SetUserValue("card_id", "1")
		ctx.SetUserValue("order_id", "7")
		handler.AttachOrder(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, float64(4), resp["relationship_id"])
		assert.Equal(t, float64(1), resp["card_id"])
		assert.Equal(t, []any{float64(7)}, resp["orders"])
		assert.Equal(t, "https://api.test/credit_cards/1/orders/7", resp["self"])
	})

	t.Run("order already attached", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Attach", mock.Anything, int64(2), int64(7)).Return(nil, services.ErrOrderAlreadyAttached)

		ctx := setupTestContext("PUT", "/credit_cards/2/orders/7", nil)
		ctx.SetUserValue("card_id", "2")
		ctx.SetUserValue("order_id", "7")
		handler.AttachOrder(ctx)

		assert.Equal(t, 403, ctx.Response.StatusCode())
		assert.Equal(t, "Forbidden", decodeEnvelope(t, ctx).Code)
	})

	t.Run("unknown entity", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Attach", mock.Anything, int64(99), int64(7)).Return(nil, services.ErrEntityNotFound)

		ctx := setupTestContext("PUT", "/credit_cards/99/orders/7", nil)
		ctx.SetUserValue("card_id", "99")
		ctx.SetUserValue("order_id", "7")
		handler.AttachOrder(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestRelationshipHandler_GetRelationship(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Get", mock.Anything, int64(1), int64(7)).Return(&model.Relationship{
			ID: 4, CardID: 1, Orders: []int64{7, 8},
		}, nil)

		ctx := setupTestContext("GET", "/credit_cards/1/orders/7", nil)
		ctx.SetUserValue("card_id", "1")
		ctx.SetUserValue("order_id", "7")
		handler.GetRelationship(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.NotContains(t, resp, "relationship_id")
		assert.Equal(t, float64(1), resp["card_id"])
	})

	t.Run("no relationship row", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Get", mock.Anything, int64(1), int64(7)).Return(nil, services.ErrRelationshipNotFound)

		ctx := setupTestContext("GET", "/credit_cards/1/orders/7", nil)
		ctx.SetUserValue("card_id", "1")
		ctx.SetUserValue("order_id", "7")
		handler.GetRelationship(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		assert.Equal(t, "Not Found", decodeEnvelope(t, ctx).Code)
	})
}

func TestRelationshipHandler_ListCardOrders(t *testing.T) {
	t.Run("card with orders", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("ListForCard", mock.Anything, int64(1)).Return(&model.Relationship{
			ID: 4, CardID: 1, Orders: []int64{7, 8},
		}, nil)

		ctx := setupTestContext("GET", "/credit_cards/1/orders", nil)
		ctx.SetUserValue("card_id", "1")
		handler.ListCardOrders(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.NotContains(t, resp, "relationship_id")
		assert.Equal(t, []any{float64(7), float64(8)}, resp["orders"])
		assert.Equal(t, "https://api.test/credit_cards/1/orders", resp["self"])
	})

	t.Run("card with no orders is a normal empty result", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("ListForCard", mock.Anything, int64(1)).Return(&model.Relationship{
			CardID: 1, Orders: []int64{},
		}, nil)

		ctx := setupTestContext("GET", "/credit_cards/1/orders", nil)
		ctx.SetUserValue("card_id", "1")
		handler.ListCardOrders(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, []any{}, resp["orders"])
	})

	t.Run("unknown card", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("ListForCard", mock.Anything, int64(99)).Return(nil, services.ErrCardNotFound)

		ctx := setupTestContext("GET", "/credit_cards/99/orders", nil)
		ctx.SetUserValue("card_id", "99")
		handler.ListCardOrders(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestRelationshipHandler_DetachOrder(t *testing.T) {
	t.Run("successful detach", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Detach", mock.Anything, int64(1), int64(7)).Return(nil)

		ctx := setupTestContext("DELETE", "/credit_cards/1/orders/7", nil)
		ctx.SetUserValue("card_id", "1")
		ctx.SetUserValue("order_id", "7")
		handler.DetachOrder(ctx)

		assert.Equal(t, 204, ctx.Response.StatusCode())
	})

	t.Run("order not attached", func(t *testing.T) {
		svc := new(MockRelationshipService)
		handler := NewRelationshipHandler(svc)

		svc.On("Detach", mock.Anything, int64(1), int64(7)).Return(services.ErrRelationshipNotFound)

		ctx := setupTestContext("DELETE", "/credit_cards/1/orders/7", nil)
		ctx.SetUserValue("card_id", "1")
		ctx.SetUserValue("order_id", "7")
		handler.DetachOrder(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	ctx := setupTestContext("DELETE", "/orders", nil)
	MethodNotAllowed(ctx)

	assert.Equal(t, 405, ctx.Response.StatusCode())
	assert.Equal(t, "method_not_allowed", decodeEnvelope(t, ctx).Code)
}

func TestNotFoundEnvelope(t *testing.T) {
	ctx := setupTestContext("GET", "/nope", nil)
	NotFound(ctx)

	assert.Equal(t, 404, ctx.Response.StatusCode())
	assert.Equal(t, "Not Found", decodeEnvelope(t, ctx).Code)
}
