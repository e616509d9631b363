package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/contact"
	"github.com/rogerio-castellano/storefront/internal/events"
	handler "github.com/rogerio-castellano/storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/storefront/internal/http/middleware"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/http/router"
	"github.com/rogerio-castellano/storefront/internal/session"
	"github.com/rogerio-castellano/storefront/internal/stats"
	"github.com/rogerio-castellano/storefront/internal/store"
	"go.uber.org/zap"
)

var (
	gateway  *store.MemoryGateway
	recorder *events.Recorder
	sessions *session.Issuer
)

func init() {
	gateway = store.NewMemoryGateway()
	recorder = &events.Recorder{}
	sessions = session.NewIssuer("test-secret", time.Hour)
}

// newRouter builds the full API over the shared gateway. Every call gets a
// fresh rate limiter so tests do not throttle each other.
func newRouter() http.Handler {
	return newRouterWithLimiter(rl.New(1000, 1000))
}

func newRouterWithLimiter(limiter *rl.Limiter) http.Handler {
	logger := zap.NewNop()
	h := handler.New(handler.Deps{
		Catalog:  catalog.NewStore(gateway, logger, catalog.WithPublisher(recorder)),
		Carts:    cart.NewCarts(gateway, logger, 16),
		Inbox:    contact.NewInbox(gateway, logger),
		Stats:    stats.NewCollector(gateway, logger),
		Sessions: sessions,
		Logger:   logger,
	})
	return router.NewRouter(h, router.Options{
		Logger:      logger,
		Limiter:     limiter,
		Sessions:    sessions,
		CORSOrigins: []string{"*"},
	})
}

func clearAll() {
	gateway.Clear()
}

func doJSON(r http.Handler, method, path string, payload any, cartToken string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cartToken != "" {
		req.Header.Set(mw.CartTokenHeader, cartToken)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p any) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/api/products", p, "")
}

// mustCreateProduct creates a product and returns its id.
func mustCreateProduct(r http.Handler, name string, price float64) (string, error) {
	w := createProduct(r, map[string]any{"name": name, "price": price, "description": name + " description"})
	if w.Code != http.StatusCreated {
		return "", fmt.Errorf("create %s: status %d: %s", name, w.Code, w.Body.String())
	}
	var resp handler.ProductResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode create response: %v", err)
	}
	return resp.Product.ID, nil
}

func newCartSession(r http.Handler) (string, error) {
	w := doJSON(r, http.MethodPost, "/api/cart/session", nil, "")
	if w.Code != http.StatusCreated {
		return "", fmt.Errorf("cart session: status %d", w.Code)
	}
	var resp handler.CartSessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("cart session decoding failed: %v", err)
	}
	return resp.Token, nil
}

func decodeCart(w *httptest.ResponseRecorder) (handler.CartResponse, error) {
	var resp handler.CartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
