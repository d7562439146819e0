package testutils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParams кладет параметры пути в контекст chi, как это делает роутер.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req
}

// NewRequest создает тестовый запрос с параметрами пути для прямого вызова обработчика.
func NewRequest(method, target string, body io.Reader, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return WithChiURLParams(req, params)
}
