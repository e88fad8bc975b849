package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShriHariStore/internal/kvstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()

	kv := kvstore.NewMemStore()
	if err := kv.Set(context.Background(), keyProducts, "[]"); err != nil {
		t.Fatalf("seed kv: %v", err)
	}

	store, err := NewStore(context.Background(), kv, zap.NewNop(), WithMaxProducts(5))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	r := chi.NewRouter()
	(&Server{Log: zap.NewNop(), Store: store}).Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, store
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, buf.String()
}

const createBody = `{
	"name": "Test Saree",
	"description": "A saree for tests.",
	"price": 1500,
	"images": ["https://example.com/a.jpg"],
	"category": "sarees",
	"inStock": true,
	"featured": true
}`

func TestHTTP_CreateAndGet(t *testing.T) {
	ts, store := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/products", createBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", resp.StatusCode, body)
	}

	var created Product
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("created product has no id")
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/products/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"Test Saree"`) {
		t.Fatalf("get body missing name: %s", body)
	}

	if got := len(store.List()); got != 1 {
		t.Fatalf("store has %d products, want 1", got)
	}
}

func TestHTTP_CreateValidation(t *testing.T) {
	ts, store := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/products",
		`{"name":"","description":"d","price":10,"images":["x"],"category":"sarees"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got %d, body %s", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/products", `{"bogus": true}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown field: got %d", resp.StatusCode)
	}

	if got := len(store.List()); got != 0 {
		t.Fatalf("store has %d products after failed creates, want 0", got)
	}
}

func TestHTTP_GetMissing(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/products/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got %d, want 404", resp.StatusCode)
	}
}

func TestHTTP_ListFilters(t *testing.T) {
	ts, store := newTestServer(t)

	in := validInput()
	in.Name = "Festival Saree"
	if _, err := store.Create(context.Background(), in); err != nil {
		t.Fatalf("create: %v", err)
	}

	in2 := validInput()
	in2.Name = "Office Suit"
	in2.Category = CategorySuits
	in2.Featured = false
	if _, err := store.Create(context.Background(), in2); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/products?category=suits", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category filter: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Office Suit") || strings.Contains(body, "Festival Saree") {
		t.Fatalf("category filter body wrong: %s", body)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/products?category=shoes", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad category: got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/products?q=festival", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Festival Saree") {
		t.Fatalf("search: got %d, body %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/products/featured", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("featured: got %d", resp.StatusCode)
	}
	if strings.Contains(body, "Office Suit") {
		t.Fatalf("featured includes non-featured product: %s", body)
	}
}

func TestHTTP_EmptyResultsAreArrays(t *testing.T) {
	ts, _ := newTestServer(t)

	urls := []string{
		ts.URL + "/products",
		ts.URL + "/products/featured",
		ts.URL + "/products?category=suits",
		ts.URL + "/products?q=nothing-matches",
	}

	for _, u := range urls {
		resp, body := doJSON(t, http.MethodGet, u, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: got %d", u, resp.StatusCode)
		}
		if strings.TrimSpace(body) != "[]" {
			t.Fatalf("%s: got %q, want empty json array", u, body)
		}
	}
}

func TestHTTP_UpdateAndDelete(t *testing.T) {
	ts, store := newTestServer(t)

	p, err := store.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, body := doJSON(t, http.MethodPatch, ts.URL+"/products/"+p.ID, `{"price": 999}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: got %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"price":999`) {
		t.Fatalf("update body missing new price: %s", body)
	}

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/products/missing", `{"price": 1}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("update missing: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/"+p.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/products/"+p.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete again: got %d", resp.StatusCode)
	}
}

func TestHTTP_ExportImportStats(t *testing.T) {
	ts, store := newTestServer(t)

	if _, err := store.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, exported := doJSON(t, http.MethodGet, ts.URL+"/admin/catalog/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "products.json") {
		t.Fatalf("export disposition: %q", cd)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/admin/catalog", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear: got %d", resp.StatusCode)
	}
	if got := len(store.List()); got != 0 {
		t.Fatalf("store has %d products after clear", got)
	}

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/admin/catalog/import", exported)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import: got %d, body %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `"imported":1`) {
		t.Fatalf("import body: %s", body)
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/admin/catalog/import", `{"no":"array"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad import: got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/admin/catalog/stats", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"totalProducts":1`) || !strings.Contains(body, `"maxProducts":5`) {
		t.Fatalf("stats body: %s", body)
	}
}

func TestHTTP_CatalogFullConflict(t *testing.T) {
	ts, store := newTestServer(t)

	for i := 0; i < 5; i++ {
		if _, err := store.Create(context.Background(), validInput()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/products", createBody)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("got %d, want 409", resp.StatusCode)
	}
}
