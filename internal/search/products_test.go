package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	docs     map[string]map[string]any
	created  bool
	lastBody map[string]any
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	body, _ := io.ReadAll(r.Body)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead && r.URL.Path == "/products":
		if !f.created {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		f.created = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case r.Method == http.MethodPut && len(r.URL.Path) > len("/products/_doc/"):
		var doc map[string]any
		_ = json.Unmarshal(body, &doc)
		f.docs[r.URL.Path[len("/products/_doc/"):]] = doc
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	case r.URL.Path == "/products/_search":
		_ = json.Unmarshal(body, &f.lastBody)
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_id":"7"},{"_id":"oops"},{"_id":"3"}]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected `+r.Method+` `+r.URL.Path+`"}`)
	}
}

func newTestIndex(t *testing.T) (*ProductIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{docs: map[string]map[string]any{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := es.NewClient(context.Background(), es.Config{URL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return &ProductIndex{Client: client, Name: "products"}, fake
}

func TestProductIndex_EnsureIndexAndIndex(t *testing.T) {
	idx, fake := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.EnsureIndex(ctx))
	assert.True(t, fake.created)
	require.NoError(t, idx.EnsureIndex(ctx))

	require.NoError(t, idx.Index(ctx, models.Product{ID: 5, Name: "Boot", Brand: "Acme", Price: decimal.RequireFromString("49.90")}))
	require.Contains(t, fake.docs, "5")
	assert.Equal(t, "Boot", fake.docs["5"]["name"])
	assert.InDelta(t, 49.9, fake.docs["5"]["price"], 0.001)

	assert.NoError(t, idx.Delete(ctx, 9))
}

func TestProductIndex_Search(t *testing.T) {
	idx, fake := newTestIndex(t)

	total, ids, err := idx.Search(context.Background(), "boot", 10, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{7, 3}, ids)

	mm := fake.lastBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "boot", mm["query"])
}
