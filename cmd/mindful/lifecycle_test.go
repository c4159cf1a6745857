package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/mindful/internal/archive"
	"github.com/hyperengineering/mindful/internal/config"
	"github.com/hyperengineering/mindful/internal/persist"
)

// logCapture captures slog output for testing
type logCapture struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (c *logCapture) handler() slog.Handler {
	return slog.NewJSONHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})
}

func (c *logCapture) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err == nil {
		c.entries = append(c.entries, entry)
	}
	return len(p), nil
}

func (c *logCapture) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var msgs []string
	for _, e := range c.entries {
		if msg, ok := e["msg"].(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (c *logCapture) messageIndex(msg string) int {
	for i, m := range c.messages() {
		if m == msg {
			return i
		}
	}
	return -1
}

func (c *logCapture) hasMessage(msg string) bool {
	return c.messageIndex(msg) >= 0
}

func testServeConfig(journalPath string) *config.Config {
	return &config.Config{
		Journal: config.JournalConfig{Path: journalPath},
		Server: config.ServerConfig{
			ReadTimeout:     config.Duration(5 * time.Second),
			WriteTimeout:    config.Duration(5 * time.Second),
			ShutdownTimeout: config.Duration(5 * time.Second),
		},
	}
}

// startServe runs serve on a loopback listener with c as configuration.
func startServe(t *testing.T, c *config.Config) (baseURL string, cancel context.CancelFunc, done <-chan error) {
	t.Helper()

	oldCfg := cfg
	cfg = c
	t.Cleanup(func() { cfg = oldCfg })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx, ln) }()

	return "http://" + ln.Addr().String(), cancelFn, errCh
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after cancel")
		return nil
	}
}

func TestServe_PersistsAndShutsDownGracefully(t *testing.T) {
	capture := &logCapture{}
	oldDefault := slog.Default()
	slog.SetDefault(slog.New(capture.handler()))
	defer slog.SetDefault(oldDefault)

	path := filepath.Join(t.TempDir(), "wellness_data.json")
	baseURL, cancel, done := startServe(t, testServeConfig(path))
	defer cancel()

	req, err := http.NewRequest(http.MethodPatch, baseURL+"/api/v1/entries/2024-01-09",
		strings.NewReader(`{"exercise": "30", "mood": "happy"}`))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PATCH: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PATCH status = %d, want 200", resp.StatusCode)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("serve() = %v", err)
	}

	doc, err := persist.NewFileAdapter(path).Load()
	if err != nil {
		t.Fatalf("load after shutdown: %v", err)
	}
	if doc.Entries["2024-01-09"].Exercise != "30" {
		t.Errorf("entry not persisted: %+v", doc.Entries)
	}

	initiated := capture.messageIndex("shutdown initiated")
	complete := capture.messageIndex("shutdown complete")
	if initiated < 0 || complete < 0 {
		t.Fatalf("missing shutdown logs: %v", capture.messages())
	}
	if initiated > complete {
		t.Errorf("shutdown initiated (%d) logged after shutdown complete (%d)", initiated, complete)
	}
	if capture.messageIndex("journal loaded") < 0 {
		t.Errorf("missing journal loaded log: %v", capture.messages())
	}
}

func TestServe_HealthReportsEntries(t *testing.T) {
	path := testEnv(t)
	mustExecute(t, path, "entry", "set", "--date", "2024-01-09", "--water", "8")

	capture := &logCapture{}
	oldDefault := slog.Default()
	slog.SetDefault(slog.New(capture.handler()))
	defer slog.SetDefault(oldDefault)

	baseURL, cancel, done := startServe(t, testServeConfig(path))
	defer cancel()

	resp, err := http.Get(baseURL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()

	var health struct {
		Status     string `json:"status"`
		EntryCount int    `json:"entry_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.EntryCount != 1 {
		t.Errorf("health = %+v", health)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("serve() = %v", err)
	}
}

func TestServe_CorruptJournalFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wellness_data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, cancel, done := startServe(t, testServeConfig(path))
	defer cancel()

	if err := waitDone(t, done); err == nil {
		t.Fatal("serve() = nil, want corrupt journal error")
	}
}

func TestServe_ArchiveWorkerExportsAndStops(t *testing.T) {
	capture := &logCapture{}
	oldDefault := slog.Default()
	slog.SetDefault(slog.New(capture.handler()))
	defer slog.SetDefault(oldDefault)

	dir := t.TempDir()
	c := testServeConfig(filepath.Join(dir, "wellness_data.json"))
	c.Archive = config.ArchiveConfig{
		Path:     filepath.Join(dir, "archive.db"),
		Interval: config.Duration(20 * time.Millisecond),
	}

	_, cancel, done := startServe(t, c)
	defer cancel()

	deadline := time.After(5 * time.Second)
	for !capture.hasMessage("archive export completed") {
		select {
		case <-deadline:
			t.Fatalf("no archive export: %v", capture.messages())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatalf("serve() = %v", err)
	}

	stopped := capture.messageIndex("worker stopped")
	complete := capture.messageIndex("shutdown complete")
	if stopped < 0 || stopped > complete {
		t.Errorf("worker stopped at %d, shutdown complete at %d", stopped, complete)
	}

	a, err := archive.NewSQLiteArchive(c.Archive.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	snaps, err := a.ListSnapshots(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Errorf("snapshots = %d, want 1 (unchanged journal exported once)", len(snaps))
	}
}
