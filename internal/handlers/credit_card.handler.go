package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fasthttp/router"

	"github.com/benitema/card-orders-api/internal/auth"
	"github.com/benitema/card-orders-api/internal/model"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
)

type CreditCardService interface {
	Create(ctx context.Context, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error)
	List(ctx context.Context, subject string, limit, offset int) ([]*model.CreditCard, int, error)
	Get(ctx context.Context, id int64, subject string) (*model.CreditCard, error)
	Replace(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error)
	Patch(ctx context.Context, id int64, attrs model.CreditCardAttributes, subject string) (*model.CreditCard, error)
	Delete(ctx context.Context, id int64, subject string) error
}

type CreditCardHandler struct {
	svc      CreditCardService
	verifier auth.TokenVerifier
}

func NewCreditCardHandler(creditCardService CreditCardService, verifier auth.TokenVerifier) *CreditCardHandler {
	return &CreditCardHandler{
		svc:      creditCardService,
		verifier: verifier,
	}
}

func RegisterCreditCardRoutes(e *router.Router, h *CreditCardHandler) {
	e.POST("/credit_cards", h.requireAuth(h.CreateCreditCard))
	e.GET("/credit_cards", h.requireAuth(h.ListCreditCards))
	e.GET("/credit_cards/{card_id}", h.requireAuth(h.GetCreditCard))
	e.PUT("/credit_cards/{card_id}", h.requireAuth(h.ReplaceCreditCard))
	e.PATCH("/credit_cards/{card_id}", h.requireAuth(h.PatchCreditCard))
	e.DELETE("/credit_cards/{card_id}", h.requireAuth(h.DeleteCreditCard))
}

type creditCardListResponse struct {
	CreditCards       []*model.CreditCard `json:"credit_cards"`
	Next              string              `json:"next,omitempty"`
	ItemsInCollection int                 `json:"items_in_collection"`
}

// requireAuth validates the bearer token and stashes the subject on the
// request context.
func (h *CreditCardHandler) requireAuth(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		if header == "" {
			writeError(ctx, xhttp.StatusUnauthorized, "invalid_header", "an Authorization header is expected")
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(ctx, xhttp.StatusUnauthorized, "invalid_header", "the Authorization header must be a Bearer token")
			return
		}

		subject, err := h.verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				writeError(ctx, xhttp.StatusUnauthorized, "token_expired", "the token is expired")
			case errors.Is(err, auth.ErrInvalidClaims):
				writeError(ctx, xhttp.StatusUnauthorized, "invalid_claims", "incorrect claims, please check the audience and issuer")
			default:
				writeError(ctx, xhttp.StatusUnauthorized, "invalid_header", "unable to parse the authentication token")
			}
			return
		}

		ctx.SetUserValue("subject", subject)
		next(ctx)
	}
}

func subject(ctx *xhttp.RequestCtx) string {
	s, _ := ctx.UserValue("subject").(string)
	return s
}

func (h *CreditCardHandler) CreateCreditCard(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, true) {
		return
	}
	attrs, err := model.ParseCreditCardAttributes(ctx.PostBody())
	if err != nil {
		writeBadJSON(ctx)
		return
	}

	card, err := h.svc.Create(ctx, attrs, subject(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateCardSelf(ctx, card)
	writeJSON(ctx, xhttp.StatusCreated, card)
}

func (h *CreditCardHandler) ListCreditCards(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	limit, offset := pageParams(ctx)

	cards, total, err := h.svc.List(ctx, subject(ctx), limit, offset)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	for _, card := range cards {
		annotateCardSelf(ctx, card)
	}
	writeJSON(ctx, xhttp.StatusOK, creditCardListResponse{
		CreditCards:       cards,
		Next:              nextLink(baseURL(ctx), "/credit_cards", limit, offset, total),
		ItemsInCollection: total,
	})
}

func (h *CreditCardHandler) GetCreditCard(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	id, ok := pathID(ctx, "card_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "credit_card_id must be a positive integer")
		return
	}

	card, err := h.svc.Get(ctx, id, subject(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateCardSelf(ctx, card)
	writeJSON(ctx, xhttp.StatusOK, card)
}

func (h *CreditCardHandler) ReplaceCreditCard(ctx *xhttp.RequestCtx) {
	h.updateCreditCard(ctx, h.svc.Replace)
}

func (h *CreditCardHandler) PatchCreditCard(ctx *xhttp.RequestCtx) {
	h.updateCreditCard(ctx, h.svc.Patch)
}

func (h *CreditCardHandler) updateCreditCard(ctx *xhttp.RequestCtx, apply func(context.Context, int64, model.CreditCardAttributes, string) (*model.CreditCard, error)) {
	if !negotiate(ctx, true) {
		return
	}
	id, ok := pathID(ctx, "card_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "credit_card_id must be a positive integer")
		return
	}
	attrs, err := model.ParseCreditCardAttributes(ctx.PostBody())
	if err != nil {
		writeBadJSON(ctx)
		return
	}

	card, err := apply(ctx, id, attrs, subject(ctx))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	annotateCardSelf(ctx, card)
	writeJSON(ctx, xhttp.StatusOK, card)
}

func (h *CreditCardHandler) DeleteCreditCard(ctx *xhttp.RequestCtx) {
	if !negotiate(ctx, false) {
		return
	}
	id, ok := pathID(ctx, "card_id")
	if !ok {
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "credit_card_id must be a positive integer")
		return
	}

	if err := h.svc.Delete(ctx, id, subject(ctx)); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(xhttp.StatusNoContent)
}

func annotateCardSelf(ctx *xhttp.RequestCtx, card *model.CreditCard) {
	card.Self = fmt.Sprintf("%s/credit_cards/%d", baseURL(ctx), card.ID)
}
