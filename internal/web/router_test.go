package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func named(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", name)
		w.Header().Set("X-ID", r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
	}
}

func serve(rt *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_RejectsShadowedRegistration(t *testing.T) {
	rt := NewRouter()
	if err := rt.HandleFunc(http.MethodPut, "/tasks/{id}", named("one")); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := rt.HandleFunc(http.MethodPut, "/tasks/update-order", named("batch"))
	if !errors.Is(err, ErrRouteShadowed) {
		t.Fatalf("expected ErrRouteShadowed, got %v", err)
	}

	// Different method or shape is not shadowed.
	if err := rt.HandleFunc(http.MethodGet, "/tasks/update-order", named("get")); err != nil {
		t.Fatalf("other method: %v", err)
	}
	if err := rt.HandleFunc(http.MethodPut, "/tasks/{id}/notes", named("notes")); err != nil {
		t.Fatalf("longer path: %v", err)
	}
}

func TestRouter_LiteralBeforeParamDispatchesInOrder(t *testing.T) {
	rt := NewRouter()
	if err := rt.HandleFunc(http.MethodPut, "/tasks/update-order", named("batch")); err != nil {
		t.Fatalf("register batch: %v", err)
	}
	if err := rt.HandleFunc(http.MethodPut, "/tasks/{id}", named("one")); err != nil {
		t.Fatalf("register one: %v", err)
	}

	rec := serve(rt, http.MethodPut, "/tasks/update-order")
	if got := rec.Header().Get("X-Handler"); got != "batch" {
		t.Fatalf("batch path dispatched to %q", got)
	}
	rec = serve(rt, http.MethodPut, "/tasks/task-abc")
	if got := rec.Header().Get("X-Handler"); got != "one" {
		t.Fatalf("id path dispatched to %q", got)
	}
	if got := rec.Header().Get("X-ID"); got != "task-abc" {
		t.Fatalf("expected path value task-abc, got %q", got)
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	rt := NewRouter()
	_ = rt.HandleFunc(http.MethodGet, "/tasks/{id}", named("get"))
	_ = rt.HandleFunc(http.MethodDelete, "/tasks/{id}", named("del"))

	rec := serve(rt, http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON error body, got %q", ct)
	}

	rec = serve(rt, http.MethodPost, "/tasks/x")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "DELETE, GET" {
		t.Fatalf("unexpected Allow header %q", got)
	}
}

func TestRouter_RejectsBadPatterns(t *testing.T) {
	rt := NewRouter()
	for _, p := range []string{"/tasks/{}", "/a/{id}/{id}", "/a//b", "/a/b{c}"} {
		if err := rt.HandleFunc(http.MethodGet, p, named("x")); err == nil {
			t.Fatalf("expected error for pattern %q", p)
		}
	}
	if err := rt.HandleFunc("", "/ok", named("x")); err == nil {
		t.Fatalf("expected error for missing method")
	}
	if len(rt.Routes()) != 0 {
		t.Fatalf("bad patterns must not register, got %v", rt.Routes())
	}
}
