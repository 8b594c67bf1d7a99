package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"daylist-cli/internal/store"
	"daylist-cli/internal/web"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// startServer runs the API over a fresh store and isolates the config dir.
func startServer(t *testing.T) string {
	t.Helper()
	t.Setenv("DAYLIST_CONFIG_DIR", t.TempDir())
	t.Setenv("DAYLIST_SERVER", "")

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
	return ts.URL
}

func mustRunData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("daylist %v: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected data key, got %v", env)
	}
	return data
}

func ids(t *testing.T, v any) []string {
	t.Helper()
	xs, ok := v.([]any)
	if !ok {
		t.Fatalf("expected list, got %#v", v)
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.(map[string]any)["id"].(string))
	}
	return out
}

func TestTasksReorder_EndToEnd(t *testing.T) {
	url := startServer(t)
	date := "2026-03-01"

	add := func(title, priority string) string {
		d := mustRunData(t, "--server", url, "tasks", "add", "--date", date, "--title", title, "--priority", priority)
		return d.(map[string]any)["id"].(string)
	}
	a := add("A", "low")
	b := add("B", "high")
	c := add("C", "medium")

	got := ids(t, mustRunData(t, "--server", url, "tasks", "list", "--date", date))
	if strings.Join(got, ",") != strings.Join([]string{b, c, a}, ",") {
		t.Fatalf("expected priority order B,C,A; got %v", got)
	}

	res := mustRunData(t, "--server", url, "tasks", "reorder", "--date", date, a, c).(map[string]any)
	outcome := res["outcome"].(map[string]any)
	if outcome["success"] != true || outcome["modified"] != float64(2) {
		t.Fatalf("unexpected outcome %v", outcome)
	}
	if local := ids(t, res["items"]); strings.Join(local, ",") != strings.Join([]string{a, c, b}, ",") {
		t.Fatalf("unexpected local order %v", local)
	}

	got = ids(t, mustRunData(t, "--server", url, "tasks", "list", "--date", date))
	if strings.Join(got, ",") != strings.Join([]string{a, c, b}, ",") {
		t.Fatalf("expected A,C,B from server; got %v", got)
	}
}

func TestTasksReorder_RejectsUnknownID(t *testing.T) {
	url := startServer(t)
	_, stderr, err := runCLI(t, []string{"--server", url, "tasks", "reorder", "--date", "2026-03-01", "task-nope"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "not found: task-nope") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestTasksShowEditRm(t *testing.T) {
	url := startServer(t)
	d := mustRunData(t, "--server", url, "tasks", "add", "--date", "2026-03-02", "--title", "Draft")
	id := d.(map[string]any)["id"].(string)

	d = mustRunData(t, "--server", url, "tasks", "edit", id, "--title", "Final", "--priority", "HIGH")
	if m := d.(map[string]any); m["title"] != "Final" || m["priority"] != "high" {
		t.Fatalf("unexpected edit result %v", m)
	}

	stdout, _, err := runCLI(t, []string{"--server", url, "--format", "text", "tasks", "show", id})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(string(stdout), id+"  Final\n") {
		t.Fatalf("unexpected text output %q", stdout)
	}

	mustRunData(t, "--server", url, "tasks", "rm", id)
	_, stderr, err := runCLI(t, []string{"--server", url, "tasks", "show", id})
	if err == nil || !strings.Contains(string(stderr), "task not found: "+id) {
		t.Fatalf("expected not found, got %v %q", err, stderr)
	}

	if _, _, err := runCLI(t, []string{"--server", url, "tasks", "edit", id}); err == nil {
		t.Fatalf("edit with no flags should fail")
	}
}

func TestTasksImport_CreatesAndOrders(t *testing.T) {
	url := startServer(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	seed := `
tasks:
  - date: "2026-03-05"
    title: Later
    priority: low
  - date: "2026-03-05"
    title: Second
    order: 1
  - date: "2026-03-05"
    title: First
    priority: low
    order: 0
`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	res := mustRunData(t, "--server", url, "tasks", "import", path).(map[string]any)
	if n := len(res["created"].([]any)); n != 3 {
		t.Fatalf("expected 3 created, got %d", n)
	}
	if res["outcome"].(map[string]any)["modified"] != float64(2) {
		t.Fatalf("unexpected outcome %v", res["outcome"])
	}

	items := mustRunData(t, "--server", url, "tasks", "list", "--date", "2026-03-05").([]any)
	var titles []string
	for _, it := range items {
		titles = append(titles, it.(map[string]any)["title"].(string))
	}
	if strings.Join(titles, ",") != "First,Second,Later" {
		t.Fatalf("unexpected order %v", titles)
	}
}

func TestTasksImport_RejectsBadSeed(t *testing.T) {
	url := startServer(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("tasks:\n  - date: tomorrow\n    title: x\n"), 0o644)
	if _, _, err := runCLI(t, []string{"--server", url, "tasks", "import", path}); err == nil {
		t.Fatalf("expected invalid date error")
	}
}

func TestConfigSetShow_AndServerFallback(t *testing.T) {
	url := startServer(t)

	mustRunData(t, "config", "set", "serverUrl", url+"/")
	d := mustRunData(t, "config", "show").(map[string]any)
	if d["config"].(map[string]any)["serverUrl"] != url {
		t.Fatalf("unexpected config %v", d)
	}

	// No --server: the config value is used.
	items := mustRunData(t, "tasks", "list", "--all")
	if len(items.([]any)) != 0 {
		t.Fatalf("expected empty list, got %v", items)
	}

	if _, _, err := runCLI(t, []string{"config", "set", "colour", "red"}); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestYAMLFormat(t *testing.T) {
	url := startServer(t)
	mustRunData(t, "--server", url, "tasks", "add", "--date", "2026-03-09", "--title", "Yoga")

	stdout, _, err := runCLI(t, []string{"--server", url, "--format", "yaml", "tasks", "list", "--date", "2026-03-09"})
	if err != nil {
		t.Fatalf("list yaml: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "data:\n") || !strings.Contains(string(stdout), "title: Yoga\n") {
		t.Fatalf("unexpected yaml %q", stdout)
	}
}

func TestDocs(t *testing.T) {
	d := mustRunData(t, "docs").(map[string]any)
	if len(d["topics"].([]any)) == 0 {
		t.Fatalf("expected topics, got %v", d)
	}
	stdout, _, err := runCLI(t, []string{"docs", "api", "--raw"})
	if err != nil || !strings.Contains(string(stdout), "/tasks/update-order") {
		t.Fatalf("unexpected raw docs: %v %q", err, stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
