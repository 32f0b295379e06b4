package handlers

import (
	"github.com/fasthttp/router"

	xhttp "github.com/benitema/card-orders-api/pkg/http"
)

type HealthService interface {
	Get() error
}

type HealthHandler struct {
	svc HealthService
}

func NewHealthHandler(healthService HealthService) *HealthHandler {
	return &HealthHandler{
		svc: healthService,
	}
}

func RegisterHealthRoutes(e *router.Router, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if h.svc != nil {
		if err := h.svc.Get(); err != nil {
			ctx.Response.SetStatusCode(xhttp.StatusServiceUnavailable)
			ctx.Response.SetBodyString("unavailable")
			return
		}
	}
	ctx.Response.SetBodyString("success")
}
