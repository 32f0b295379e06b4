package handlers

import (
	"context"
	"fmt"

	"github.com/fasthttp/router"

	"github.com/benitema/card-orders-api/internal/model"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
)

type OrderService interface {
	Create(ctx context.Context, attrs model.OrderAttributes) (*model.Order, error)
	List(ctx context.Context, limit, offset int) ([]*model.Order, int, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	Replace(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error)
	Patch(ctx context.Context, id int64, attrs model.OrderAttributes) (*model.Order, error)
	Delete(ctx context.Context, id int64) error
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{
		svc: orderService,
	}
}

func RegisterOrderRoutes(e *router.Router, h *OrderHandler) {
	e.POST("/orders", h.CreateOrder)
	e.GET("/orders", h.ListOrders)
	e.GET("/orders/{order_id}", h.GetOrder)
	e.PUT("/orders/{order_id}", h.ReplaceOrder)
	e.PATCH("/orders/{order_id}", h.PatchOrder)
	e.DELETE("/orders/{order_id}", h.DeleteOrder)
}

type orderListResponse struct {
	Orders            []*model.Order `json:"orders"`
	Next              string         `json:"next,omitempty"`
	ItemsInCollection int            `json:"items_in_collection"`
}

func (h *OrderHandler) CreateOrder(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, true) {
		return
	}
	attrs, err := model.ParseOrderAttributes(ctx.PostBody())
	if err != nil {
		writeBadJSON(ctx)
		return
	}

	order, err := h.svc.Create(ctx, attrs)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateOrderSelf(ctx, order)
	writeJSON(ctx, xhttp.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	limit, offset := pageParams(ctx)

	orders, total, err := h.svc.List(ctx, limit, offset)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	for _, order := range orders {
		annotateOrderSelf(ctx, order)
	}
	writeJSON(ctx, xhttp.StatusOK, orderListResponse{
		Orders:            orders,
		Next:              nextLink(baseURL(ctx), "/orders", limit, offset, total),
		ItemsInCollection: total,
	})
}

func (h *OrderHandler) GetOrder(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	id, ok := pathID(ctx, "order_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "order_id must be a positive integer")
		return
	}

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateOrderSelf(ctx, order)
	writeJSON(ctx, xhttp.StatusOK, order)
}

func (h *OrderHandler) ReplaceOrder(ctx *xhttp.RequestCtx) {
	h.updateOrder(ctx, h.svc.Replace)
}

func (h *OrderHandler) PatchOrder(ctx *xhttp.RequestCtx) {
	h.updateOrder(ctx, h.svc.Patch)
}

func (h *OrderHandler) updateOrder(ctx *xhttp.RequestCtx, apply func(context.Context, int64, model.OrderAttributes) (*model.Order, error)) {
	if !negotiate(ctx, true) {
		return
	}
	id, ok := pathID(ctx, "order_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "order_id must be a positive integer")
		return
	}
	attrs, err := model.ParseOrderAttributes(ctx.PostBody())
	if err != nil {
		writeBadJSON(ctx)
		return
	}

	order, err := apply(ctx, id, attrs)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateOrderSelf(ctx, order)
	writeJSON(ctx, xhttp.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	id, ok := pathID(ctx, "order_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "order_id must be a positive integer")
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

func annotateOrderSelf(ctx *xhttp.RequestCtx, order *model.Order) {
	order.Self = fmt.Sprintf("%s/orders/%d", baseURL(ctx), order.ID)
}
