package handlers_test_suite

import (
	"net/http"
	"testing"
)

func TestCartHandlers_WidgetScenario(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	id, err := mustCreateProduct(r, "Widget", 9.99)
	if err != nil {
		t.Fatal(err)
	}
	token, err := newCartSession(r)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/api/cart/items", map[string]string{"product_id": id}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK adding item, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(r, http.MethodGet, "/api/cart", nil, token)
	c, err := decodeCart(w)
	if err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("expected one line with quantity 2, got %+v", c.Items)
	}
	if c.Total != 19.98 || c.ItemCount != 2 {
		t.Errorf("expected total 19.98 with 2 items, got %v with %d", c.Total, c.ItemCount)
	}

	w = doJSON(r, http.MethodPost, "/api/cart/items/"+id+"/decrement", nil, token)
	c, _ = decodeCart(w)
	if c.Total != 9.99 || c.Items[0].Quantity != 1 {
		t.Errorf("expected total 9.99 with quantity 1, got %+v", c)
	}

	w = doJSON(r, http.MethodPost, "/api/cart/items/"+id+"/decrement", nil, token)
	c, _ = decodeCart(w)
	if len(c.Items) != 0 || c.Total != 0 {
		t.Errorf("expected empty cart with total 0, got %+v", c)
	}
}

func TestCartHandlers_RequireToken(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name  string
		token string
	}{
		{"Missing token", ""},
		{"Garbage token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/cart", nil, tt.token)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 Unauthorized, got %d", w.Code)
			}
		})
	}
}

func TestCartHandlers_SessionsAreIsolated(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	id, err := mustCreateProduct(r, "Mug", 12)
	if err != nil {
		t.Fatal(err)
	}
	alice, _ := newCartSession(r)
	bob, _ := newCartSession(r)

	doJSON(r, http.MethodPost, "/api/cart/items", map[string]string{"product_id": id}, alice)

	c, _ := decodeCart(doJSON(r, http.MethodGet, "/api/cart", nil, bob))
	if len(c.Items) != 0 {
		t.Errorf("expected second session to have an empty cart, got %+v", c.Items)
	}
	c, _ = decodeCart(doJSON(r, http.MethodGet, "/api/cart", nil, alice))
	if c.ItemCount != 1 {
		t.Errorf("expected first session to hold 1 item, got %d", c.ItemCount)
	}
}

func TestCartHandlers_Errors(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()
	token, err := newCartSession(r)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"Unknown product", http.MethodPost, "/api/cart/items", map[string]string{"product_id": "prod_missing"}, http.StatusNotFound},
		{"Blank product id", http.MethodPost, "/api/cart/items", map[string]string{"product_id": ""}, http.StatusBadRequest},
		{"Increment absent line", http.MethodPost, "/api/cart/items/prod_missing/increment", nil, http.StatusNotFound},
		{"Decrement absent line", http.MethodPost, "/api/cart/items/prod_missing/decrement", nil, http.StatusNotFound},
		{"Remove absent line", http.MethodDelete, "/api/cart/items/prod_missing", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, tt.method, tt.path, tt.body, token)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCartHandlers_SnapshotAndStaleLines(t *testing.T) {
	t.Cleanup(clearAll)
	r := newRouter()

	id, err := mustCreateProduct(r, "Poster", 15)
	if err != nil {
		t.Fatal(err)
	}
	token, _ := newCartSession(r)
	doJSON(r, http.MethodPost, "/api/cart/items", map[string]string{"product_id": id}, token)

	doJSON(r, http.MethodPut, "/api/products/"+id, map[string]any{"name": "Big Poster", "price": 20}, "")
	c, _ := decodeCart(doJSON(r, http.MethodGet, "/api/cart", nil, token))
	if c.Items[0].Name != "Poster" || c.Items[0].Price != 15 {
		t.Errorf("expected the cart to keep the add-time snapshot, got %+v", c.Items[0])
	}

	doJSON(r, http.MethodDelete, "/api/products/"+id, nil, "")
	c, _ = decodeCart(doJSON(r, http.MethodGet, "/api/cart", nil, token))
	if len(c.Items) != 1 {
		t.Fatalf("expected the line to survive product deletion, got %+v", c.Items)
	}

	w := doJSON(r, http.MethodPost, "/api/cart/items/"+id+"/increment", nil, token)
	c, _ = decodeCart(w)
	if c.Items[0].Quantity != 2 || c.Total != 30 {
		t.Errorf("expected stale line to stay editable, got %+v", c)
	}

	c, _ = decodeCart(doJSON(r, http.MethodDelete, "/api/cart", nil, token))
	if len(c.Items) != 0 || c.Total != 0 {
		t.Errorf("expected cleared cart, got %+v", c)
	}
}
