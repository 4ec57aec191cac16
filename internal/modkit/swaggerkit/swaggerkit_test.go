package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "zhkh/internal/platform/net/http"
	"zhkh/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func fetchSpec(t *testing.T, o Options) map[string]any {
	t.Helper()
	rr := httptest.NewRecorder()
	serveDocJSON(o)(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var spec map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return spec
}

func TestServeDocJSON_RealDocument(t *testing.T) {
	spec := fetchSpec(t, Options{Servers: []string{"/", "/api/v1"}, TitleSuffix: "(dev)"})

	if spec["openapi"] != "3.0.3" {
		t.Fatalf("openapi = %v", spec["openapi"])
	}
	if got := spec["info"].(map[string]any)["title"]; got != "zhkh API (dev)" {
		t.Fatalf("title = %v", got)
	}
	if n := len(spec["servers"].([]any)); n != 2 {
		t.Fatalf("servers = %d", n)
	}

	paths := spec["paths"].(map[string]any)
	for _, p := range []string{"/", "/health", "/complaint", "/complaints", "/complaint/{id}/processed"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("path %s missing", p)
		}
	}
	post := paths["/complaint"].(map[string]any)["post"].(map[string]any)
	resps := post["responses"].(map[string]any)
	if _, ok := resps["400"]; !ok {
		t.Fatal("default 400 not injected")
	}
	if _, ok := resps["500"]; !ok {
		t.Fatal("default 500 not injected")
	}

	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatal("ErrorResponse schema missing")
	}
}

func TestServeDocJSON_DowngradesAndMutates(t *testing.T) {
	testkit.Swap(t, &docReader, func() string {
		return `{"openapi":"3.1.0","info":{"title":"x"},"paths":{"/a":{"get":{"responses":{"500":{"description":"mine"}}}}}}`
	})

	spec := fetchSpec(t, Options{Mutators: []SpecMutator{nil, func(s map[string]any) { s["x-zhkh"] = true }}})
	if spec["openapi"] != "3.0.3" || spec["x-zhkh"] != true {
		t.Fatalf("spec = %v", spec)
	}
	resps := spec["paths"].(map[string]any)["/a"].(map[string]any)["get"].(map[string]any)["responses"].(map[string]any)
	if resps["500"].(map[string]any)["description"] != "mine" {
		t.Fatal("existing 500 overwritten")
	}
	servers := spec["servers"].([]any)
	if servers[0].(map[string]any)["url"] != "/" {
		t.Fatalf("servers = %v", servers)
	}
}

func TestServeDocJSON_BadDocument(t *testing.T) {
	testkit.Swap(t, &docReader, func() string { return "{" })

	rr := httptest.NewRecorder()
	serveDocJSON(Options{})(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestMount(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	Mount(r, false, Options{})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("disabled docs should 404, got %d", rr.Code)
	}

	mux = chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true, Options{})
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect code = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/docs/index.html" {
		t.Fatalf("redirect location = %q", loc)
	}
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("doc.json code = %d", rr.Code)
	}
}
