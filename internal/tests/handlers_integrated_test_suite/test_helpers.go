package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/catalog"
	"github.com/rogerio-castellano/storefront/internal/contact"
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
	database *sql.DB
	gateway  *store.SQLGateway
	sessions = session.NewIssuer("integration-secret", time.Hour)
)

// newRouter builds a router with fresh services, so nothing survives between
// calls except what the database holds.
func newRouter() http.Handler {
	logger := zap.NewNop()
	h := handler.New(handler.Deps{
		Catalog:  catalog.NewStore(gateway, logger),
		Carts:    cart.NewCarts(gateway, logger, 16),
		Inbox:    contact.NewInbox(gateway, logger),
		Stats:    stats.NewCollector(gateway, logger),
		Sessions: sessions,
		Logger:   logger,
	})
	return router.NewRouter(h, router.Options{
		Logger:      logger,
		Limiter:     rl.New(1000, 1000),
		Sessions:    sessions,
		CORSOrigins: []string{"*"},
	})
}

func clearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "DELETE FROM documents")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to clear documents table: %w", err))
	}
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

func createProduct(r http.Handler, name string, price float64) (string, error) {
	w := doJSON(r, http.MethodPost, "/api/products", map[string]any{"name": name, "price": price}, "")
	if w.Code != http.StatusCreated {
		return "", fmt.Errorf("create %s: status %d", name, w.Code)
	}
	var resp handler.ProductResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", err
	}
	return resp.Product.ID, nil
}

func importCSV(r http.Handler, query, csvData string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "products.csv")
	part.Write([]byte(csvData))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products/import"+query, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
