package catalog

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rogerio-castellano/storefront/internal/apperr"
	"github.com/rogerio-castellano/storefront/internal/events"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyGateway struct {
	*store.MemoryGateway
	failWrites bool
	failReads  bool
}

func (g *flakyGateway) Read(ctx context.Context, key string) ([]byte, error) {
	if g.failReads {
		return nil, errors.New("connection reset")
	}
	return g.MemoryGateway.Read(ctx, key)
}

func (g *flakyGateway) Write(ctx context.Context, key string, value []byte) error {
	if g.failWrites {
		return errors.Join(apperr.ErrPersistence, errors.New("disk full"))
	}
	return g.MemoryGateway.Write(ctx, key, value)
}

func newTestStore(t *testing.T) (*Store, *flakyGateway, *events.Recorder) {
	t.Helper()
	gw := &flakyGateway{MemoryGateway: store.NewMemoryGateway()}
	rec := &events.Recorder{}
	clock := func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return NewStore(gw, zap.NewNop(), WithPublisher(rec), WithClock(clock)), gw, rec
}

func ptr[T any](v T) *T { return &v }

func TestAdd_AssignsIDAndPersists(t *testing.T) {
	ctx := context.Background()
	s, gw, rec := newTestStore(t)

	p, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	assert.Regexp(t, `^prod_[0-9a-f]{32}$`, p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 9.99, p.Price)
	assert.Nil(t, p.Image)
	assert.Equal(t, "2024-03-01T10:00:00Z", p.CreatedAt)

	var persisted []models.Product
	require.True(t, store.ReadJSON(ctx, gw, store.KeyProducts, &persisted, zap.NewNop()))
	require.Len(t, persisted, 1)
	assert.Equal(t, p, persisted[0])

	require.Len(t, rec.Events(), 1)
	assert.Equal(t, events.ProductCreated, rec.Events()[0].Type)
	assert.Equal(t, p.ID, rec.Events()[0].ProductID)
}

func TestAdd_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	for _, name := range []string{"Phone", "Tablet", "Laptop"} {
		_, err := s.Add(ctx, NewProduct{Name: name, Price: 1})
		require.NoError(t, err)
	}

	var names []string
	for _, p := range s.List(ctx) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Phone", "Tablet", "Laptop"}, names)
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  NewProduct
		fields []string
	}{
		{name: "negative price", input: NewProduct{Name: "Mouse", Price: -5}, fields: []string{"price"}},
		{name: "NaN price", input: NewProduct{Name: "Mouse", Price: math.NaN()}, fields: []string{"price"}},
		{name: "infinite price", input: NewProduct{Name: "Mouse", Price: math.Inf(1)}, fields: []string{"price"}},
		{name: "blank name", input: NewProduct{Name: "  ", Price: 1}, fields: []string{"name"}},
		{name: "both", input: NewProduct{Price: -1}, fields: []string{"name", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, gw, rec := newTestStore(t)

			_, err := s.Add(ctx, tt.input)
			require.ErrorIs(t, err, apperr.ErrValidation)

			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			var got []string
			for _, f := range ve.Fields {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)

			_, readErr := gw.Read(ctx, store.KeyProducts)
			assert.ErrorIs(t, readErr, store.ErrKeyNotFound, "nothing may be written on validation failure")
			assert.Empty(t, rec.Events())
		})
	}
}

func TestAdd_ZeroPriceAllowed(t *testing.T) {
	s, _, _ := newTestStore(t)
	p, err := s.Add(context.Background(), NewProduct{Name: "Sticker", Price: 0})
	require.NoError(t, err)
	assert.Zero(t, p.Price)
}

func TestAdd_BlankImageStoredAsNil(t *testing.T) {
	s, _, _ := newTestStore(t)
	p, err := s.Add(context.Background(), NewProduct{Name: "Mug", Price: 5, Image: ptr("  ")})
	require.NoError(t, err)
	assert.Nil(t, p.Image)

	p, err = s.Add(context.Background(), NewProduct{Name: "Cup", Price: 5, Image: ptr("cup.png")})
	require.NoError(t, err)
	require.NotNil(t, p.Image)
	assert.Equal(t, "cup.png", *p.Image)
}

func TestAdd_PersistenceFailureLeavesCatalogUnchanged(t *testing.T) {
	ctx := context.Background()
	s, gw, rec := newTestStore(t)

	_, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 1})
	require.NoError(t, err)

	gw.failWrites = true
	_, err = s.Add(ctx, NewProduct{Name: "Gadget", Price: 2})
	require.ErrorIs(t, err, apperr.ErrPersistence)

	assert.Len(t, s.List(ctx), 1)
	assert.Len(t, rec.Events(), 1)
}

func TestMutations_ReadFailureLeavesCatalogUnchanged(t *testing.T) {
	ctx := context.Background()
	s, gw, rec := newTestStore(t)

	var stored []models.Product
	for _, name := range []string{"A", "B", "C"} {
		p, err := s.Add(ctx, NewProduct{Name: name, Price: 1})
		require.NoError(t, err)
		stored = append(stored, p)
	}

	gw.failReads = true
	_, err := s.Add(ctx, NewProduct{Name: "D", Price: 1})
	require.ErrorIs(t, err, apperr.ErrPersistence)
	_, err = s.Update(ctx, stored[0].ID, ProductPatch{Name: ptr("A2")})
	require.ErrorIs(t, err, apperr.ErrPersistence)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	require.ErrorIs(t, s.Remove(ctx, stored[1].ID), apperr.ErrPersistence)
	assert.Empty(t, s.List(ctx))

	gw.failReads = false
	if diff := cmp.Diff(stored, s.List(ctx)); diff != "" {
		t.Errorf("catalog changed after failed reads (-want +got):\n%s", diff)
	}
	assert.Len(t, rec.Events(), 3)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 1})
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.Get(ctx, "prod_missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFindByName(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "Keyboard", Price: 45})
	require.NoError(t, err)

	got, err := s.FindByName(ctx, " keyboard ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.FindByName(ctx, "Mouse")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdate_MergesFields(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 9.99, Description: "old", Image: ptr("w.png")})
	require.NoError(t, err)

	updated, err := s.Update(ctx, p.ID, ProductPatch{Price: ptr(12.5), Image: ptr("")})
	require.NoError(t, err)

	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, "old", updated.Description)
	assert.Nil(t, updated.Image)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.Len(t, rec.Events(), 2)
	assert.Equal(t, events.ProductUpdated, rec.Events()[1].Type)
}

func TestUpdate_AbsentID(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	_, err = s.Update(ctx, "prod_missing", ProductPatch{Name: ptr("Other")})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []models.Product{p}, s.List(ctx))
}

func TestUpdate_InvalidPatch(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "Widget", Price: 9.99})
	require.NoError(t, err)

	_, err = s.Update(ctx, p.ID, ProductPatch{Price: ptr(-1.0)})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Update(ctx, p.ID, ProductPatch{Name: ptr("")})
	require.ErrorIs(t, err, apperr.ErrValidation)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s, _, rec := newTestStore(t)
	a, err := s.Add(ctx, NewProduct{Name: "A", Price: 1})
	require.NoError(t, err)
	b, err := s.Add(ctx, NewProduct{Name: "B", Price: 2})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, a.ID))
	assert.Equal(t, []models.Product{b}, s.List(ctx))
	assert.Equal(t, events.ProductDeleted, rec.Events()[2].Type)

	err = s.Remove(ctx, a.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemove_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	s, gw, _ := newTestStore(t)
	p, err := s.Add(ctx, NewProduct{Name: "A", Price: 1})
	require.NoError(t, err)

	gw.failWrites = true
	require.ErrorIs(t, s.Remove(ctx, p.ID), apperr.ErrPersistence)
	assert.Len(t, s.List(ctx), 1)
}

func TestIdentifiersNeverReused(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := s.Add(ctx, NewProduct{Name: "Item", Price: 1})
		require.NoError(t, err)
		require.False(t, seen[p.ID], "id %s reused", p.ID)
		seen[p.ID] = true
		require.NoError(t, s.Remove(ctx, p.ID))
	}
	assert.Empty(t, s.List(ctx))
}

func TestList_MalformedDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, gw, _ := newTestStore(t)
	require.NoError(t, gw.MemoryGateway.Write(ctx, store.KeyProducts, []byte(`{"oops":`)))

	assert.Empty(t, s.List(ctx))

	p, err := s.Add(ctx, NewProduct{Name: "Fresh", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, []models.Product{p}, s.List(ctx))
}
