package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/db"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func gateways(t *testing.T) map[string]Gateway {
	t.Helper()
	ctx := context.Background()

	file, err := NewFileGateway(filepath.Join(t.TempDir(), "products.json"))
	require.NoError(t, err)

	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	sqlite, err := NewSQLGateway(ctx, sqlDB, SQLite)
	require.NoError(t, err)

	return map[string]Gateway{
		"memory": NewMemoryGateway(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestGateway_RoundTrip(t *testing.T) {
	ctx := context.Background()
	image := "widget.png"
	products := []models.Product{
		{ID: "prod_1", Name: "Widget", Price: 9.99, Description: "A widget", Image: &image, CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "prod_2", Name: "Gadget", Price: 0, CreatedAt: "2024-01-02T00:00:00Z"},
	}
	lines := []models.CartLine{{ProductID: "prod_1", Name: "Widget", Price: 9.99, Quantity: 3}}

	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteJSON(ctx, gw, KeyProducts, products))
			require.NoError(t, WriteJSON(ctx, gw, KeyCart, lines))

			var gotProducts []models.Product
			require.True(t, ReadJSON(ctx, gw, KeyProducts, &gotProducts, zap.NewNop()))
			if diff := cmp.Diff(products, gotProducts); diff != "" {
				t.Errorf("products mismatch (-want +got):\n%s", diff)
			}

			var gotLines []models.CartLine
			require.True(t, ReadJSON(ctx, gw, KeyCart, &gotLines, zap.NewNop()))
			if diff := cmp.Diff(lines, gotLines); diff != "" {
				t.Errorf("cart mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGateway_ReadMissingKey(t *testing.T) {
	ctx := context.Background()

	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			_, err := gw.Read(ctx, "cart:nobody")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			lines := []models.CartLine{}
			assert.False(t, ReadJSON(ctx, gw, "cart:nobody", &lines, zap.NewNop()))
			assert.Empty(t, lines)
		})
	}
}

func TestGateway_OverwriteReplacesDocument(t *testing.T) {
	ctx := context.Background()

	for name, gw := range gateways(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, gw.Write(ctx, "k", []byte(`[1,2,3]`)))
			require.NoError(t, gw.Write(ctx, "k", []byte(`[4]`)))

			var got []int
			require.True(t, ReadJSON(ctx, gw, "k", &got, zap.NewNop()))
			assert.Equal(t, []int{4}, got)
		})
	}
}

func TestReadJSON_MalformedFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	gw := NewMemoryGateway()
	require.NoError(t, gw.Write(ctx, KeyProducts, []byte(`{not json`)))

	products := []models.Product{}
	assert.False(t, ReadJSON(ctx, gw, KeyProducts, &products, zap.NewNop()))
	assert.Empty(t, products)
}

type failingReadGateway struct {
	*MemoryGateway
	err error
}

func (g *failingReadGateway) Read(context.Context, string) ([]byte, error) {
	return nil, g.err
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		readErr error
		stored  string
		want    []models.Product
		wantErr error
	}{
		{name: "absent key", readErr: ErrKeyNotFound, want: []models.Product{}},
		{name: "malformed backend document", readErr: ErrMalformed, want: []models.Product{}},
		{name: "malformed value", stored: `{not json`, want: []models.Product{}},
		{name: "stored value", stored: `[{"id":"prod_a","name":"A","price":1}]`, want: []models.Product{{ID: "prod_a", Name: "A", Price: 1}}},
		{name: "connection reset", readErr: errors.New("connection reset"), wantErr: apperr.ErrPersistence},
		{name: "backend failure", readErr: persistenceErr("read", KeyProducts, errors.New("i/o timeout")), wantErr: apperr.ErrPersistence},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mem := NewMemoryGateway()
			var gw Gateway = mem
			if tc.readErr != nil {
				gw = &failingReadGateway{MemoryGateway: mem, err: tc.readErr}
			} else {
				require.NoError(t, mem.Write(ctx, KeyProducts, []byte(tc.stored)))
			}

			products := []models.Product{}
			err := LoadJSON(ctx, gw, KeyProducts, &products, zap.NewNop())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, 1, strings.Count(err.Error(), apperr.ErrPersistence.Error()))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, products); diff != "" {
				t.Errorf("LoadJSON mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	err := WriteJSON(context.Background(), NewMemoryGateway(), "k", make(chan int))
	assert.ErrorIs(t, err, apperr.ErrPersistence)
}

func TestFileGateway_InitializesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	gw, err := NewFileGateway(path)
	require.NoError(t, err)
	assert.Equal(t, path, gw.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[],"orders":[],"messages":[]}`, string(data))
}

func TestFileGateway_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	gw, err := NewFileGateway(path)
	require.NoError(t, err)

	require.NoError(t, gw.Write(ctx, KeyProducts, []byte(`[{"id":"prod_1"}]`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[{"id":"prod_1"}],"orders":[],"messages":[]}`, string(data))
}

func TestFileGateway_MalformedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	gw, err := NewFileGateway(path)
	require.NoError(t, err)

	_, err = gw.Read(ctx, KeyProducts)
	assert.ErrorIs(t, err, apperr.ErrPersistence)
	assert.ErrorIs(t, err, ErrMalformed)

	products := []models.Product{}
	assert.False(t, ReadJSON(ctx, gw, KeyProducts, &products, zap.NewNop()))
	require.NoError(t, LoadJSON(ctx, gw, KeyProducts, &products, zap.NewNop()))
	assert.Empty(t, products)

	require.NoError(t, gw.Write(ctx, KeyProducts, []byte(`[]`)))
	_, err = gw.Read(ctx, KeyProducts)
	assert.NoError(t, err)
}

func TestFileGateway_UnreadableFileIsNotReplaced(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "products.json")
	gw, err := NewFileGateway(path)
	require.NoError(t, err)

	// A directory at the document path fails os.ReadFile regardless of privileges.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err = gw.Read(ctx, KeyProducts)
	require.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NotErrorIs(t, err, ErrMalformed)

	err = gw.Write(ctx, KeyProducts, []byte(`[{"id":"prod_a"}]`))
	require.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NotErrorIs(t, err, ErrMalformed)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileGateway_WriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.Mkdir(dir, 0o755))
	gw, err := NewFileGateway(filepath.Join(dir, "products.json"))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	err = gw.Write(context.Background(), KeyProducts, []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
}

func TestRedisGateway_Unreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	gw := NewRedisGateway(rdb, "test:")
	ctx := context.Background()

	_, err := gw.Read(ctx, KeyProducts)
	require.ErrorIs(t, err, apperr.ErrPersistence)
	require.NotErrorIs(t, err, ErrKeyNotFound)

	err = gw.Write(ctx, KeyProducts, []byte("[]"))
	require.ErrorIs(t, err, apperr.ErrPersistence)
}
