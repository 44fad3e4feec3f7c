package apikey_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/yespstudio/storefront/pkg/apikey"
	"github.com/yespstudio/storefront/pkg/directory"
)

type stubDirectory struct {
	records map[string]*directory.StoreRecord
}

func (d *stubDirectory) Lookup(ctx context.Context, storeID string) (*directory.StoreRecord, error) {
	rec, ok := d.records[storeID]
	if !ok {
		return nil, directory.ErrStoreNotFound
	}
	return rec, nil
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	dir := &stubDirectory{records: map[string]*directory.StoreRecord{
		"STORE-1": {StoreID: "STORE-1", TenantID: "TENANT-1", SecretAPIKey: "sk_live_abc"},
		"STORE-2": {StoreID: "STORE-2", TenantID: "TENANT-2"},
	}}

	newRouter := func() (*chi.Mux, *bool) {
		reached := false
		r := chi.NewRouter()
		r.Route("/store/{storeID}", func(r chi.Router) {
			r.Use(apikey.Middleware(dir))
			r.Post("/payment/verify", func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})
		})
		return r, &reached
	}

	do := func(router *chi.Mux, storeID, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/store/"+storeID+"/payment/verify", nil)
		if key != "" {
			req.Header.Set(apikey.HeaderName, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("valid key passes", func(t *testing.T) {
		t.Parallel()

		router, reached := newRouter()
		w := do(router, "STORE-1", "sk_live_abc")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, *reached)
	})

	t.Run("missing key responds 400", func(t *testing.T) {
		t.Parallel()

		router, reached := newRouter()
		w := do(router, "STORE-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, *reached)
	})

	t.Run("unknown store responds 404", func(t *testing.T) {
		t.Parallel()

		router, reached := newRouter()
		w := do(router, "STORE-X", "sk_live_abc")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, *reached)
	})

	t.Run("wrong key responds 403", func(t *testing.T) {
		t.Parallel()

		router, reached := newRouter()
		w := do(router, "STORE-1", "sk_live_wrong")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, *reached)
	})

	t.Run("store without a secret rejects every key", func(t *testing.T) {
		t.Parallel()

		router, reached := newRouter()
		w := do(router, "STORE-2", "anything")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, *reached)
	})
}
