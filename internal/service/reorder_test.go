package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"daylist-cli/internal/model"
	"daylist-cli/internal/store"
)

type memOrders struct {
	orders map[string]int
	calls  int
	failOn string
}

func newMemOrders(ids ...string) *memOrders {
	m := &memOrders{orders: map[string]int{}}
	for _, id := range ids {
		m.orders[id] = -1
	}
	return m
}

func (m *memOrders) UpdateOrder(_ context.Context, id string, order int, _ time.Time) (bool, error) {
	m.calls++
	if id == m.failOn {
		return false, errors.New("disk on fire")
	}
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	m.orders[id] = order
	return true, nil
}

func req(pairs ...any) model.ReorderRequest {
	r := model.ReorderRequest{Tasks: []model.ReorderEntry{}}
	for i := 0; i < len(pairs); i += 2 {
		r.Tasks = append(r.Tasks, model.ReorderEntry{ID: pairs[i].(string), Order: pairs[i+1].(int)})
	}
	return r
}

func TestApply_ForwardThenReversed(t *testing.T) {
	m := newMemOrders("X", "Y", "Z")
	svc := NewReorderService(m)
	ctx := context.Background()

	out, err := svc.Apply(ctx, req("X", 0, "Y", 1, "Z", 2))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.Success || out.Modified != 3 {
		t.Fatalf("first apply: %+v", out)
	}

	out, err = svc.Apply(ctx, req("Z", 0, "Y", 1, "X", 2))
	if err != nil {
		t.Fatalf("apply reversed: %v", err)
	}
	if !out.Success || out.Modified != 3 {
		t.Fatalf("second apply: %+v", out)
	}
	if m.orders["Z"] != 0 || m.orders["Y"] != 1 || m.orders["X"] != 2 {
		t.Fatalf("unexpected stored orders: %v", m.orders)
	}
}

func TestApply_Idempotent(t *testing.T) {
	m := newMemOrders("a", "b")
	svc := NewReorderService(m)
	r := req("b", 0, "a", 1)

	first, err := svc.Apply(context.Background(), r)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	snapshot := map[string]int{"a": m.orders["a"], "b": m.orders["b"]}
	second, err := svc.Apply(context.Background(), r)
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	if first != second {
		t.Fatalf("outcomes differ: %+v vs %+v", first, second)
	}
	if m.orders["a"] != snapshot["a"] || m.orders["b"] != snapshot["b"] {
		t.Fatalf("stored state changed on re-apply: %v vs %v", m.orders, snapshot)
	}
}

func TestApply_UnknownIDIsSkipped(t *testing.T) {
	m := newMemOrders("a", "b", "c")
	out, err := NewReorderService(m).Apply(context.Background(), req("a", 0, "ghost", 1, "b", 2, "c", 3))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.Success || out.Modified != 3 {
		t.Fatalf("expected success with 3 of 4 modified, got %+v", out)
	}
}

func TestApply_MalformedRejectedBeforeAnyWrite(t *testing.T) {
	cases := map[string]model.ReorderRequest{
		"missing tasks":  {},
		"empty id":       req("a", 0, " ", 1),
		"negative order": req("a", 0, "b", -1),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			m := newMemOrders("a", "b")
			_, err := NewReorderService(m).Apply(context.Background(), r)
			if !errors.Is(err, ErrMalformedRequest) {
				t.Fatalf("expected ErrMalformedRequest, got %v", err)
			}
			if m.calls != 0 {
				t.Fatalf("expected no store calls, got %d", m.calls)
			}
		})
	}
}

func TestApply_EmptyListIsNoop(t *testing.T) {
	out, err := NewReorderService(newMemOrders()).Apply(context.Background(), req())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !out.Success || out.Modified != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestApply_StoreFailureKeepsEarlierPairs(t *testing.T) {
	m := newMemOrders("a", "b", "c")
	m.failOn = "b"
	out, err := NewReorderService(m).Apply(context.Background(), req("a", 5, "b", 6, "c", 7))
	if err == nil {
		t.Fatalf("expected error")
	}
	if out.Success || out.Modified != 1 {
		t.Fatalf("unexpected partial outcome: %+v", out)
	}
	if m.orders["a"] != 5 || m.orders["c"] != -1 {
		t.Fatalf("expected a applied and c untouched: %v", m.orders)
	}
}

func TestApply_CanceledContextStops(t *testing.T) {
	m := newMemOrders("a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewReorderService(m).Apply(ctx, req("a", 0)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("expected no store calls, got %d", m.calls)
	}
}

func TestApply_AgainstSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.Store{Dir: t.TempDir()}.Open(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	var ids []string
	for _, title := range []string{"X", "Y", "Z"} {
		tk, err := db.CreateTask(ctx, model.Task{Date: "2026-03-01", Title: title})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, tk.ID)
	}

	svc := NewReorderService(db)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	for _, r := range []model.ReorderRequest{
		req(ids[0], 0, ids[1], 1, ids[2], 2),
		req(ids[2], 0, ids[1], 1, ids[0], 2),
	} {
		out, err := svc.Apply(ctx, r)
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if out.Modified != 3 {
			t.Fatalf("expected 3 modified, got %+v", out)
		}
	}

	got, err := db.ListTasks(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Z", "Y", "X"}
	for i, tk := range got {
		if tk.Title != want[i] || tk.Order == nil || *tk.Order != i {
			t.Fatalf("position %d: got %s order=%v", i, tk.Title, tk.Order)
		}
		if !tk.UpdatedAt.Equal(fixed) {
			t.Fatalf("expected updatedAt %v, got %v", fixed, tk.UpdatedAt)
		}
	}
}
