package xhttp

import "github.com/valyala/fasthttp"

const (
	StatusOK                   = fasthttp.StatusOK
	StatusCreated              = fasthttp.StatusCreated
	StatusNoContent            = fasthttp.StatusNoContent
	StatusBadRequest           = fasthttp.StatusBadRequest
	StatusUnauthorized         = fasthttp.StatusUnauthorized
	StatusForbidden            = fasthttp.StatusForbidden
	StatusNotFound             = fasthttp.StatusNotFound
	StatusMethodNotAllowed     = fasthttp.StatusMethodNotAllowed
	StatusNotAcceptable        = fasthttp.StatusNotAcceptable
	StatusRequestTimeout       = fasthttp.StatusRequestTimeout
	StatusUnsupportedMediaType = fasthttp.StatusUnsupportedMediaType
	StatusInternalServerError  = fasthttp.StatusInternalServerError
	StatusServiceUnavailable   = fasthttp.StatusServiceUnavailable
)

func StatusText(code int) string {
	return fasthttp.StatusMessage(code)
}
