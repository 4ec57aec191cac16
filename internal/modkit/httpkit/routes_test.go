package httpkit

import (
	"net/http"
	"testing"

	phttp "zhkh/internal/platform/net/http"
)

type call struct {
	verb string
	path string
	ph   phttp.Handler
}

type fakeRouter struct {
	prefixes  []string
	groups    int
	useCalls  int
	lastMWLen int
	calls     []call
}

func (f *fakeRouter) Mux() http.Handler { return http.NewServeMux() }

func (f *fakeRouter) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f)
}

func (f *fakeRouter) Group(fn func(Router)) {
	f.groups++
	fn(f)
}

func (f *fakeRouter) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

func (f *fakeRouter) Handle(path string, _ http.Handler) {
	f.calls = append(f.calls, call{verb: "HANDLE", path: path})
}

func (f *fakeRouter) add(verb, path string, h phttp.Handler) {
	f.calls = append(f.calls, call{verb, path, h})
}

func (f *fakeRouter) Get(p string, h phttp.Handler)     { f.add("GET", p, h) }
func (f *fakeRouter) Post(p string, h phttp.Handler)    { f.add("POST", p, h) }
func (f *fakeRouter) Put(p string, h phttp.Handler)     { f.add("PUT", p, h) }
func (f *fakeRouter) Patch(p string, h phttp.Handler)   { f.add("PATCH", p, h) }
func (f *fakeRouter) Delete(p string, h phttp.Handler)  { f.add("DELETE", p, h) }
func (f *fakeRouter) Options(p string, h phttp.Handler) { f.add("OPTIONS", p, h) }
func (f *fakeRouter) Head(p string, h phttp.Handler)    { f.add("HEAD", p, h) }

func noop(next http.Handler) http.Handler { return next }

func TestMountUnder_AppliesMiddleware_And_CallsMount(t *testing.T) {
	root := &fakeRouter{}

	MountUnder(root, "/complaints", []func(http.Handler) http.Handler{noop, noop}, func(sub Router) {
		sub.Get("/ping", Handle(func(*http.Request) Response { return NoContent() }))
	})

	if len(root.prefixes) != 1 || root.prefixes[0] != "/complaints" {
		t.Fatalf("expected Route with /complaints, got %v", root.prefixes)
	}
	if root.useCalls != 1 || root.lastMWLen != 2 {
		t.Fatalf("expected Use once with 2 middleware, got calls=%d len=%d", root.useCalls, root.lastMWLen)
	}
	if len(root.calls) != 1 || root.calls[0].verb != "GET" || root.calls[0].ph == nil {
		t.Fatalf("expected GET /ping registration, got %+v", root.calls)
	}
}

func TestMountUnder_EmptyPrefixUsesGroup(t *testing.T) {
	for _, prefix := range []string{"", "/"} {
		root := &fakeRouter{}
		MountUnder(root, prefix, nil, func(sub Router) {
			sub.Post("/complaint", Handle(func(*http.Request) Response { return NoContent() }))
		})
		if len(root.prefixes) != 0 || root.groups != 1 {
			t.Fatalf("prefix %q: expected a group, got prefixes=%v groups=%d", prefix, root.prefixes, root.groups)
		}
		if root.useCalls != 0 {
			t.Fatalf("prefix %q: Use called without middleware", prefix)
		}
	}
}

func TestMountAPI_TrimsVersion(t *testing.T) {
	root := &fakeRouter{}
	MountAPI(root, "/v2/", nil, func(Router) {})
	MountAPIV1(root, nil, func(Router) {})

	if len(root.prefixes) != 2 || root.prefixes[0] != "/api/v2" || root.prefixes[1] != "/api/v1" {
		t.Fatalf("prefixes = %v", root.prefixes)
	}
}
