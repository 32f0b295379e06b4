package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benitema/card-orders-api/internal/services"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
	"github.com/benitema/card-orders-api/pkg/logger"
)

const (
	defaultLimit  = 5
	defaultOffset = 0
)

// apiError is the envelope every failure responds with.
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.Error("marshal response failed", "err", err)
		ctx.Response.SetStatusCode(xhttp.StatusInternalServerError)
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, code, description string) {
	writeJSON(ctx, status, apiError{Code: code, Description: description})
}

// writeServiceError maps the service sentinel errors onto the envelope.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrMissingAttribute),
		errors.Is(err, services.ErrInvalidAttribute),
		errors.Is(err, services.ErrNoAttributes):
		writeError(ctx, xhttp.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, services.ErrDuplicateCardNumber),
		errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrOrderAlreadyAttached):
		writeError(ctx, xhttp.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, services.ErrCardNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrEntityNotFound),
		errors.Is(err, services.ErrRelationshipNotFound):
		writeError(ctx, xhttp.StatusNotFound, "Not Found", err.Error())
	default:
		logger.Error("request failed", "err", err)
		writeError(ctx, xhttp.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred")
	}
}

func writeBadJSON(ctx *xhttp.RequestCtx) {
	writeError(ctx, xhttp.StatusBadRequest, "Bad Request", "the request body is not valid JSON")
}

// acceptsJSON gates every endpoint on the Accept header.
func acceptsJSON(ctx *xhttp.RequestCtx) bool {
	accept := string(ctx.Request.Header.Peek("Accept"))
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		media := strings.TrimSpace(part)
		if i := strings.IndexByte(media, ';'); i >= 0 {
			media = strings.TrimSpace(media[:i])
		}
		switch media {
		case "application/json", "application/*", "*/*":
			return true
		}
	}
	return false
}

// negotiate enforces Accept on all requests and Content-Type on the ones
// carrying a body. Returns false after writing the failure response.
func negotiate(ctx *xhttp.RequestCtx, requireBody bool) bool {
	if !acceptsJSON(ctx) {
		writeError(ctx, xhttp.StatusNotAcceptable, "Not Acceptable", "this API only supports application/json responses")
		return false
	}
	if requireBody {
		contentType := string(ctx.Request.Header.ContentType())
		if i := strings.IndexByte(contentType, ';'); i >= 0 {
			contentType = contentType[:i]
		}
		if strings.TrimSpace(contentType) != "application/json" {
			writeError(ctx, xhttp.StatusUnsupportedMediaType, "Unsupported Media Type", "request bodies must be application/json")
			return false
		}
	}
	return true
}

// pageParams reads limit and offset, falling back to the defaults on
// anything non-numeric.
func pageParams(ctx *xhttp.RequestCtx) (limit, offset int) {
	limit = defaultLimit
	offset = defaultOffset
	if v := string(ctx.QueryArgs().Peek("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := string(ctx.QueryArgs().Peek("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func pathID(ctx *xhttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func baseURL(ctx *xhttp.RequestCtx) string {
	return "https://" + string(ctx.Host())
}

// nextLink builds the pagination link, empty when the page exhausts the
// collection.
func nextLink(base, path string, limit, offset, total int) string {
	if offset+limit >= total {
		return ""
	}
	return fmt.Sprintf("%s%s?limit=%d&offset=%d", base, path, limit, offset+limit)
}

// NotFound responds with the envelope for unrouted paths.
func NotFound(ctx *xhttp.RequestCtx) {
	writeError(ctx, xhttp.StatusNotFound, "Not Found", "the requested resource does not exist")
}

// MethodNotAllowed responds with the envelope for known paths hit with a
// disallowed verb.
func MethodNotAllowed(ctx *xhttp.RequestCtx) {
	writeError(ctx, xhttp.StatusMethodNotAllowed, "method_not_allowed", "this method is not supported on this endpoint")
}
