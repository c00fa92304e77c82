package a2aclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agentmesh/agentmesh/internal/adapter/a2aclient"
	"github.com/agentmesh/agentmesh/internal/config"
	"github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/port/cache"
)

// agentStub serves a descriptor plus a scripted JSON-RPC endpoint.
type agentStub struct {
	srv *httptest.Server

	mu        sync.Mutex
	discovers int
	requests  []a2a.Request
	respond   func(req a2a.Request) a2a.Response
}

func newAgentStub(t *testing.T) *agentStub {
	t.Helper()
	s := &agentStub{}
	mux := http.NewServeMux()
	mux.HandleFunc(a2a.WellKnownPath, func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		s.discovers++
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(a2a.AgentDescriptor{
			Name:        "Stub Agent",
			EndpointURL: s.srv.URL + "/a2a",
			Version:     "1.0.0",
		})
	})
	mux.HandleFunc("/a2a", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req a2a.Request
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad rpc request: %v", err)
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		resp := s.respond(req)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(resp)
	})
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *agentStub) discoverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discovers
}

func taskResult(id string, state a2a.TaskState) a2a.Response {
	return a2a.Response{
		ProtocolVersion: a2a.ProtocolVersion,
		Result: &a2a.Task{
			ID:     id,
			Status: a2a.TaskStatus{State: state, Timestamp: time.Now().UTC()},
		},
	}
}

// memCache is a minimal in-process cache for descriptor caching tests.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func newClient(c cache.Cache) *a2aclient.Client {
	cfg := config.Client{
		Timeout:      5 * time.Second,
		PollInterval: 10 * time.Millisecond,
		MaxDiscovery: 4,
	}
	return a2aclient.New(cfg, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDiscoverUsesCache(t *testing.T) {
	stub := newAgentStub(t)
	client := newClient(newMemCache())

	for i := 0; i < 3; i++ {
		desc, err := client.Discover(context.Background(), stub.srv.URL)
		if err != nil {
			t.Fatalf("Discover #%d: %v", i, err)
		}
		if desc.Name != "Stub Agent" {
			t.Fatalf("name = %q", desc.Name)
		}
	}

	if n := stub.discoverCount(); n != 1 {
		t.Fatalf("descriptor fetched %d times, want 1", n)
	}
}

func TestSubmitPostsToDescriptorEndpoint(t *testing.T) {
	stub := newAgentStub(t)
	stub.respond = func(req a2a.Request) a2a.Response {
		if req.Method != a2a.MethodTasksSend {
			t.Errorf("method = %q", req.Method)
		}
		var params a2a.SendParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Errorf("decode params: %v", err)
		}
		if params.Message.Text() != "research quantum computing" {
			t.Errorf("message text = %q", params.Message.Text())
		}
		return taskResult("task-1", a2a.StateWorking)
	}
	client := newClient(newMemCache())

	sub, err := client.Submit(context.Background(), stub.srv.URL, "research quantum computing", "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.ID != "task-1" {
		t.Fatalf("submission id = %q", sub.ID)
	}
	if sub.AgentName != "Stub Agent" {
		t.Fatalf("agent name = %q", sub.AgentName)
	}
}

func TestSubmitAndWaitShortCircuitsOnTerminalResponse(t *testing.T) {
	stub := newAgentStub(t)
	var gets atomic.Int64
	stub.respond = func(req a2a.Request) a2a.Response {
		if req.Method == a2a.MethodTasksGet {
			gets.Add(1)
		}
		return taskResult("task-2", a2a.StateCompleted)
	}
	client := newClient(newMemCache())

	task, err := client.SubmitAndWait(context.Background(), stub.srv.URL, "write it", time.Second)
	if err != nil {
		t.Fatalf("SubmitAndWait: %v", err)
	}
	if task.Status.State != a2a.StateCompleted {
		t.Fatalf("state = %q", task.Status.State)
	}
	if gets.Load() != 0 {
		t.Fatalf("issued %d tasks/get calls, want 0", gets.Load())
	}
}

func TestWaitForCompletionPollsUntilTerminal(t *testing.T) {
	stub := newAgentStub(t)
	var gets atomic.Int64
	stub.respond = func(_ a2a.Request) a2a.Response {
		if gets.Add(1) < 3 {
			return taskResult("task-3", a2a.StateWorking)
		}
		return taskResult("task-3", a2a.StateCompleted)
	}
	client := newClient(newMemCache())

	task, err := client.WaitForCompletion(context.Background(), stub.srv.URL, "task-3", time.Second)
	if err != nil {
		t.Fatalf("WaitForCompletion: %v", err)
	}
	if task.Status.State != a2a.StateCompleted {
		t.Fatalf("state = %q", task.Status.State)
	}
	if gets.Load() != 3 {
		t.Fatalf("polled %d times, want 3", gets.Load())
	}
}

func TestWaitForCompletionTimeoutTagsTaskFailed(t *testing.T) {
	stub := newAgentStub(t)
	stub.respond = func(_ a2a.Request) a2a.Response {
		return taskResult("task-4", a2a.StateWorking)
	}
	client := newClient(newMemCache())

	task, err := client.WaitForCompletion(context.Background(), stub.srv.URL, "task-4", 25*time.Millisecond)
	if !errors.Is(err, a2aclient.ErrWaitTimeout) {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
	if task == nil || task.Status.State != a2a.StateFailed {
		t.Fatalf("task = %+v", task)
	}
	if task.Status.Message == nil || task.Status.Message.Text() == "" {
		t.Fatal("expected timeout note on returned task")
	}
}

func TestWaitForCompletionZeroBudgetQueriesOnce(t *testing.T) {
	stub := newAgentStub(t)
	var gets atomic.Int64
	stub.respond = func(_ a2a.Request) a2a.Response {
		gets.Add(1)
		return taskResult("task-5", a2a.StateWorking)
	}
	client := newClient(newMemCache())

	task, err := client.WaitForCompletion(context.Background(), stub.srv.URL, "task-5", 0)
	if !errors.Is(err, a2aclient.ErrWaitTimeout) {
		t.Fatalf("err = %v, want ErrWaitTimeout", err)
	}
	// A zero budget still issues exactly one query before timing out.
	if gets.Load() != 1 {
		t.Fatalf("queries = %d, want 1", gets.Load())
	}
	if task == nil || task.Status.State != a2a.StateFailed {
		t.Fatalf("task = %+v", task)
	}
}

func TestExtractResultKinds(t *testing.T) {
	client := newClient(nil)

	withPart := func(p a2a.Part) *a2a.Task {
		return &a2a.Task{
			ID:        "t",
			Status:    a2a.TaskStatus{State: a2a.StateCompleted},
			Artifacts: []a2a.Artifact{{Parts: []a2a.Part{p}}},
		}
	}

	if got := client.ExtractResult(nil); got.Kind != "none" {
		t.Fatalf("nil task kind = %q", got.Kind)
	}
	if got := client.ExtractResult(withPart(a2a.TextPart("hello"))); got.Kind != "text" || got.Data != "hello" {
		t.Fatalf("text = %+v", got)
	}
	if got := client.ExtractResult(withPart(a2a.DataPart(map[string]any{"k": "v"}))); got.Kind != "data" {
		t.Fatalf("data = %+v", got)
	}

	got := client.ExtractResult(withPart(a2a.FilePart(a2a.FilePayload{
		Name:     "img.png",
		MimeType: "image/png",
		URI:      "file:///tmp/img.png",
	})))
	if got.Kind != "file" {
		t.Fatalf("file kind = %q", got.Kind)
	}
	m, ok := got.Data.(map[string]any)
	if !ok || m["name"] != "img.png" || m["uri"] != "file:///tmp/img.png" {
		t.Fatalf("file data = %+v", got.Data)
	}
	if _, present := m["bytes"]; present {
		t.Fatal("empty bytes should be omitted")
	}
}

func TestDiscoverManyRecordsPartialFailures(t *testing.T) {
	stub := newAgentStub(t)
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	client := newClient(newMemCache())
	out := client.DiscoverMany(context.Background(), []string{stub.srv.URL, dead.URL})

	if len(out) != 2 {
		t.Fatalf("entries = %d", len(out))
	}
	if ok := out[stub.srv.URL]; ok.Err != nil || ok.Descriptor == nil {
		t.Fatalf("healthy entry = %+v", ok)
	}
	if bad := out[dead.URL]; bad.Err == nil {
		t.Fatal("expected error for dead agent")
	}
}

func TestCallSurfacesRPCError(t *testing.T) {
	stub := newAgentStub(t)
	stub.respond = func(_ a2a.Request) a2a.Response {
		return a2a.Response{
			ProtocolVersion: a2a.ProtocolVersion,
			Error:           &a2a.RPCError{Code: a2a.CodeTaskExists, Message: "task_exists"},
		}
	}
	client := newClient(newMemCache())

	if _, err := client.Submit(context.Background(), stub.srv.URL, "dup", "task-9"); err == nil {
		t.Fatal("expected rpc error")
	}
}
