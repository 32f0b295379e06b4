package handlers

import (
	"context"
	"fmt"

	"github.com/fasthttp/router"

	"github.com/benitema/card-orders-api/internal/model"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
)

type RelationshipService interface {
	Attach(ctx context.Context, cardID, orderID int64) (*model.Relationship, error)
	Detach(ctx context.Context, cardID, orderID int64) error
	Get(ctx context.Context, cardID, orderID int64) (*model.Relationship, error)
	ListForCard(ctx context.Context, cardID int64) (*model.Relationship, error)
}

type RelationshipHandler struct {
	svc RelationshipService
}

func NewRelationshipHandler(relationshipService RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		svc: relationshipService,
	}
}

func RegisterRelationshipRoutes(e *router.Router, h *RelationshipHandler) {
	e.GET("/credit_cards/{card_id}/orders", h.ListCardOrders)
	e.PUT("/credit_cards/{card_id}/orders/{order_id}", h.AttachOrder)
	e.GET("/credit_cards/{card_id}/orders/{order_id}", h.GetRelationship)
	e.DELETE("/credit_cards/{card_id}/orders/{order_id}", h.DetachOrder)
}

func (h *RelationshipHandler) ListCardOrders(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	cardID, ok := pathID(ctx, "card_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "card_id must be a positive integer")
		return
	}

	rel, err := h.svc.ListForCard(ctx, cardID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	// the summary carries no relationship_id
	rel.ID = 0
	rel.Self = fmt.Sprintf("%s/credit_cards/%d/orders", baseURL(ctx), cardID)
	writeJSON(ctx, xhttp.StatusOK, rel)
}

func (h *RelationshipHandler) AttachOrder(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	cardID, orderID, ok := relationshipIDs(ctx)
	if !ok {
		return
	}

	rel, err := h.svc.Attach(ctx, cardID, orderID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	rel.Self = itemSelf(ctx, cardID, orderID)
	writeJSON(ctx, xhttp.StatusOK, rel)
}

func (h *RelationshipHandler) GetRelationship(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	cardID, orderID, ok := relationshipIDs(ctx)
	if !ok {
		return
	}

	rel, err := h.svc.Get(ctx, cardID, orderID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	rel.ID = 0
	rel.Self = itemSelf(ctx, cardID, orderID)
	writeJSON(ctx, xhttp.StatusOK, rel)
}

func (h *RelationshipHandler) DetachOrder(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	cardID, orderID, ok := relationshipIDs(ctx)
	if !ok {
		return
	}

	if err := h.svc.Detach(ctx, cardID, orderID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

func relationshipIDs(ctx *xhttp.RequestCtx) (cardID, orderID int64, ok bool) {
	cardID, ok = pathID(ctx, "card_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "card_id must be a positive integer")
		return 0, 0, false
	}
	orderID, ok = pathID(ctx, "order_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "order_id must be a positive integer")
		return 0, 0, false
	}
	return cardID, orderID, true
}

func itemSelf(ctx *xhttp.RequestCtx, cardID, orderID int64) string {
	return fmt.Sprintf("%s/credit_cards/%d/orders/%d", baseURL(ctx), cardID, orderID)
}
