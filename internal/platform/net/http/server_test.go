package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zhkh/internal/platform/config"
	phttp "zhkh/internal/platform/net/http"
	kit "zhkh/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_DefaultAddr(t *testing.T) {
	srv := phttp.NewServer(config.New().Prefix("ZHKH_TEST_NOPE_"))
	if srv.Addr() != ":8000" {
		t.Fatalf("addr = %q, want :8000", srv.Addr())
	}
}

func TestNewServer_BarePortGetsColon(t *testing.T) {
	t.Setenv("ZHKH_SRV_API_PORT", "9090")
	srv := phttp.NewServer(config.New().Prefix("ZHKH_SRV_"))
	if srv.Addr() != ":9090" {
		t.Fatalf("addr = %q, want :9090", srv.Addr())
	}
}

func TestServer_RunServesUntilCancelled(t *testing.T) {
	t.Setenv("ZHKH_RUN_API_PORT", "127.0.0.1:0")
	t.Setenv("ZHKH_RUN_SHUTDOWN_GRACE", "2s")

	srv := phttp.NewServer(config.New().Prefix("ZHKH_RUN_"), func(m *chi.Mux) {
		m.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("pong")) })
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for the listener to bind
	deadline := time.Now().Add(3 * time.Second)
	for srv.Addr() == "127.0.0.1:0" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	kit.MustContain(t, string(b), "pong")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestServer_RunListenError(t *testing.T) {
	t.Setenv("ZHKH_BAD_API_PORT", "256.0.0.1:bogus")
	srv := phttp.NewServer(config.New().Prefix("ZHKH_BAD_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRouter_GroupRouteAndMux(t *testing.T) {
	srv := phttp.NewServer(config.New())
	r := srv.Router()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Root", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Group(func(g phttp.Router) {
		g.Get("/g", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})
	r.Route("/api/v1", func(sub phttp.Router) {
		if sub.Mux() == nil {
			t.Fatal("sub Mux() nil")
		}
		sub.Handle("/h", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))
		sub.Post("/p", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/g", http.StatusAccepted},
		{http.MethodGet, "/api/v1/h", http.StatusTeapot},
		{http.MethodPost, "/api/v1/p", http.StatusNoContent},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := hit(r.Mux(), c.method, c.path, "")
		if rec.Code != c.want {
			t.Fatalf("%s %s = %d, want %d", c.method, c.path, rec.Code, c.want)
		}
		if rec.Header().Get("X-Root") != "1" && c.want != http.StatusNotFound {
			t.Fatalf("%s %s missing root middleware", c.method, c.path)
		}
	}
}

func TestMountProfiler(t *testing.T) {
	on := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(on, "/debug", true)
	if rec := hit(on.Mux(), http.MethodGet, "/debug/pprof/cmdline", ""); rec.Code != http.StatusOK {
		t.Fatalf("enabled profiler status = %d", rec.Code)
	}

	off := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(off, "/debug", false)
	if rec := hit(off.Mux(), http.MethodGet, "/debug/pprof/", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler status = %d", rec.Code)
	}
}

func hit(h http.Handler, method, path, _ string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, http.NoBody))
	return rec
}
