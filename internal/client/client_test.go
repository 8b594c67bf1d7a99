package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"daylist-cli/internal/model"
	"daylist-cli/internal/store"
	"daylist-cli/internal/web"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	db, err := store.Store{Dir: t.TempDir()}.Open(context.Background())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	srv, err := web.NewServer(web.ServerConfig{Store: db, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL + "/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_RejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "localhost:3000", "ftp://x", "http://"} {
		if _, err := New(u); err == nil {
			t.Fatalf("expected error for %q", u)
		}
	}
}

func TestClient_AgainstServer(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	date := "2026-07-01"

	if err := c.Health(ctx); err != nil {
		t.Fatalf("health: %v", err)
	}

	a, err := c.CreateTask(ctx, model.Task{Date: date, Title: "A", Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("create A: %v", err)
	}
	b, _ := c.CreateTask(ctx, model.Task{Date: date, Title: "B", Priority: model.PriorityHigh})
	cc, _ := c.CreateTask(ctx, model.Task{Date: date, Title: "C", Priority: model.PriorityMedium})

	items, err := c.ListTasks(ctx, date)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 3 || items[0].ID != b.ID || items[2].ID != a.ID {
		t.Fatalf("expected priority order B,C,A; got %v", items)
	}

	out, err := c.UpdateOrder(ctx, model.ReorderRequest{Tasks: []model.ReorderEntry{{ID: a.ID, Order: 0}, {ID: cc.ID, Order: 1}}})
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if !out.Success || out.Modified != 2 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	items, _ = c.ListTasks(ctx, date)
	if items[0].ID != a.ID || items[1].ID != cc.ID || items[2].ID != b.ID {
		t.Fatalf("expected A,C,B after reorder; got %v", items)
	}

	title := "A prime"
	got, err := c.UpdateTask(ctx, a.ID, TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title || got.Order == nil || *got.Order != 0 {
		t.Fatalf("unexpected updated task %+v", got)
	}

	if err := c.DeleteTask(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetTask(ctx, a.ID); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_StatusErrorCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "missing tasks"})
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.UpdateOrder(context.Background(), model.ReorderRequest{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusBadRequest || se.Message != "missing tasks" {
		t.Fatalf("unexpected status error %+v", se)
	}
}
