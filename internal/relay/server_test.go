package relay

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// testDispatch handles message_box and create_parameter and rejects
// everything else the way the catalog does.
func testDispatch(recorded *[]string, mu *sync.Mutex) Handler {
	return func(ctx context.Context, action string, args map[string]any) (any, error) {
		switch action {
		case "message_box":
			text, _ := args["text"].(string)
			if text == "" {
				return nil, errors.New("missing required argument \"text\"")
			}
			if mu != nil {
				mu.Lock()
				*recorded = append(*recorded, text)
				mu.Unlock()
			}
			return nil, nil
		case "create_parameter":
			name, _ := args["name"].(string)
			return map[string]any{"name": name}, nil
		case "panic_action":
			panic("boom")
		default:
			return nil, errors.New("unsupported action")
		}
	}
}

func startServer(t *testing.T, dir string, dispatch Handler) func() {
	t.Helper()
	srv := NewServer(dir, dispatch, nil)
	srv.PollInterval = 10 * time.Millisecond
	srv.NoWatch = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Run(ctx); err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func waitForFile(t *testing.T, path string) []byte {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil {
			return data
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("file %s did not appear", path)
	return nil
}

func TestServerAnswersMessageBoxExactly(t *testing.T) {
	dir := t.TempDir()
	var shown []string
	var mu sync.Mutex
	stop := startServer(t, dir, testDispatch(&shown, &mu))
	defer stop()

	payload := []byte(`{"action":"message_box","args":{"text":"hello"}}`)
	if err := os.WriteFile(CommandFile(dir, "42"), payload, 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}

	got := waitForFile(t, ResponseFile(dir, "42"))
	want := `{"status":"ok","result":null}`
	if string(got) != want {
		t.Fatalf("response = %s, want %s", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(shown) != 1 || shown[0] != "hello" {
		t.Fatalf("shown messages = %v, want [hello]", shown)
	}
}

func TestServerAnswersUnknownActionExactly(t *testing.T) {
	dir := t.TempDir()
	stop := startServer(t, dir, testDispatch(nil, nil))
	defer stop()

	payload := []byte(`{"action":"does_not_exist","args":{}}`)
	if err := os.WriteFile(CommandFile(dir, "7"), payload, 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}

	got := waitForFile(t, ResponseFile(dir, "7"))
	want := `{"status":"error","error":"unsupported action"}`
	if string(got) != want {
		t.Fatalf("response = %s, want %s", got, want)
	}
}

func TestServerAnswersMalformedCommand(t *testing.T) {
	dir := t.TempDir()
	stop := startServer(t, dir, testDispatch(nil, nil))
	defer stop()

	if err := os.WriteFile(CommandFile(dir, "bad"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}

	data := waitForFile(t, ResponseFile(dir, "bad"))
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != StatusError {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if !strings.HasPrefix(resp.Error, "malformed command") {
		t.Fatalf("error = %q, want malformed command prefix", resp.Error)
	}
}

func TestServerRenamesHandledCommand(t *testing.T) {
	dir := t.TempDir()
	stop := startServer(t, dir, testDispatch(nil, nil))
	defer stop()

	payload := []byte(`{"action":"create_parameter","args":{"name":"Width"}}`)
	if err := os.WriteFile(CommandFile(dir, "p1"), payload, 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}

	waitForFile(t, ResponseFile(dir, "p1"))
	waitForFile(t, ProcessedFile(dir, "p1"))
	if _, err := os.Stat(CommandFile(dir, "p1")); err == nil {
		t.Fatal("command file still present after handling")
	}
}

func TestServerSkipsAlreadyAnsweredCommand(t *testing.T) {
	dir := t.TempDir()

	var calls int
	var mu sync.Mutex
	dispatch := func(ctx context.Context, action string, args map[string]any) (any, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil, nil
	}

	if err := os.WriteFile(CommandFile(dir, "a"), []byte(`{"action":"message_box"}`), 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}
	if err := os.WriteFile(ResponseFile(dir, "a"), []byte(`{"status":"ok","result":null}`), 0600); err != nil {
		t.Fatalf("writing response: %v", err)
	}

	stop := startServer(t, dir, dispatch)
	time.Sleep(50 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Fatalf("dispatch calls = %d, want 0 for answered command", calls)
	}
}

func TestServerHandlesMessageFile(t *testing.T) {
	dir := t.TempDir()
	var shown []string
	var mu sync.Mutex
	stop := startServer(t, dir, testDispatch(&shown, &mu))
	defer stop()

	path := filepath.Join(dir, MessageFileName)
	if err := os.WriteFile(path, []byte("ping from disk\n"), 0600); err != nil {
		t.Fatalf("writing message file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := os.Stat(path); err == nil {
		t.Fatal("message file still present")
	}

	matches, err := filepath.Glob(filepath.Join(dir, "processed_message_*.txt"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("processed message files = %v (err %v), want one", matches, err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(shown) != 1 || shown[0] != "ping from disk" {
		t.Fatalf("shown messages = %v, want [ping from disk]", shown)
	}
}

func TestServerRecoversHandlerPanic(t *testing.T) {
	dir := t.TempDir()
	stop := startServer(t, dir, testDispatch(nil, nil))
	defer stop()

	if err := os.WriteFile(CommandFile(dir, "x"), []byte(`{"action":"panic_action"}`), 0600); err != nil {
		t.Fatalf("writing command: %v", err)
	}

	data := waitForFile(t, ResponseFile(dir, "x"))
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != StatusError || !strings.Contains(resp.Error, "boom") {
		t.Fatalf("response = %+v, want panic turned into error", resp)
	}
}

func TestAcquireLockExcludesSecondHolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, lockFileName)

	release, err := acquireLock(path)
	if err != nil {
		t.Fatalf("first acquireLock() error = %v", err)
	}

	if _, err := acquireLock(path); err == nil {
		t.Fatal("second acquireLock() succeeded, want refusal")
	}

	if err := release(); err != nil {
		t.Fatalf("release() error = %v", err)
	}

	release2, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock() after release error = %v", err)
	}
	release2()
}

func TestCommandIDParsesConvention(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"command_42.json", "42"},
		{"command_6ba7b810-9dad-11d1-80b4-00c04fd430c8.json", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"command_42.json.tmp", ""},
		{"response_42.json", ""},
		{"processed_command_42.json", ""},
		{"notes.txt", ""},
	}
	for _, tt := range tests {
		if got := commandID(tt.name); got != tt.want {
			t.Fatalf("commandID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResponseMarshalShapes(t *testing.T) {
	ok := &Response{Status: StatusOK, Result: []byte("null")}
	data, err := json.Marshal(ok)
	if err != nil {
		t.Fatalf("marshal ok: %v", err)
	}
	if string(data) != `{"status":"ok","result":null}` {
		t.Fatalf("ok response = %s", data)
	}

	fail := errorResponse("unsupported action")
	data, err = json.Marshal(fail)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if string(data) != `{"status":"error","error":"unsupported action"}` {
		t.Fatalf("error response = %s", data)
	}
}
