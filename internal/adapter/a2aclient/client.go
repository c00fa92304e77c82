// Package a2aclient implements the client side of the agent task
// protocol: descriptor discovery, task submission, polling and result
// extraction against one or more remote agents.
package a2aclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/agentmesh/agentmesh/internal/config"
	"github.com/agentmesh/agentmesh/internal/domain"
	"github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/port/cache"
)

// ErrWaitTimeout is returned by WaitForCompletion when the wait budget
// elapses before the task reaches a terminal state. The remote task is
// left running.
var ErrWaitTimeout = errors.New("timed out waiting for task completion")

// descriptorTTL keeps discovered descriptors cached for the practical
// lifetime of the process.
const descriptorTTL = 24 * time.Hour

// Client talks to remote protocol servers. Discovered descriptors are
// cached per base URL so repeated submissions skip the discovery round
// trip.
type Client struct {
	httpClient   *http.Client
	cache        cache.Cache
	log          *slog.Logger
	pollInterval time.Duration
	maxDiscovery int64
}

// Submission is the outcome of a task submission.
type Submission struct {
	ID        string
	Task      *a2a.Task
	AgentName string
}

// Extracted is a typed view of a completed task's primary result. Only
// the first part of the first artifact is inspected; callers needing
// more walk Task.Artifacts themselves.
type Extracted struct {
	Kind string // "text", "file", "data", "unknown" or "none"
	Data any
}

// Discovery is one entry of a DiscoverMany result map.
type Discovery struct {
	Descriptor *a2a.AgentDescriptor
	Err        error
}

// New creates a protocol client. The cache may be nil, in which case
// every call re-discovers.
func New(cfg config.Client, c cache.Cache, log *slog.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		cache:        c,
		log:          log,
		pollInterval: cfg.PollInterval,
		maxDiscovery: cfg.MaxDiscovery,
	}
}

// Discover fetches the agent descriptor published at baseURL. Results
// are cached per base URL; the cache is only invalidated by restart.
func (c *Client) Discover(ctx context.Context, baseURL string) (*a2a.AgentDescriptor, error) {
	key := "descriptor:" + baseURL
	if c.cache != nil {
		if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			var desc a2a.AgentDescriptor
			if err := json.Unmarshal(raw, &desc); err == nil {
				return &desc, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+a2a.WellKnownPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create discovery request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover %s: unexpected status %d", baseURL, resp.StatusCode)
	}

	var desc a2a.AgentDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode descriptor from %s: %w", baseURL, err)
	}

	if c.cache != nil {
		if raw, err := json.Marshal(&desc); err == nil {
			_ = c.cache.Set(ctx, key, raw, descriptorTTL)
		}
	}

	c.log.Debug("discovered agent", "base_url", baseURL, "agent", desc.Name)
	return &desc, nil
}

// Submit sends a new task carrying the given text to the agent at
// baseURL. The request goes to the descriptor's self-reported endpoint
// URL, which is authoritative and may differ from baseURL. An empty id
// lets the server assign one.
func (c *Client) Submit(ctx context.Context, baseURL, text, id string) (*Submission, error) {
	desc, err := c.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	params := a2a.SendParams{
		ID: id,
		Message: a2a.Message{
			Role:  "user",
			Parts: []a2a.Part{a2a.TextPart(text)},
		},
	}
	task, err := c.call(ctx, desc.EndpointURL, a2a.MethodTasksSend, params)
	if err != nil {
		return nil, err
	}

	return &Submission{ID: task.ID, Task: task, AgentName: desc.Name}, nil
}

// Query fetches the current state of a task.
func (c *Client) Query(ctx context.Context, baseURL, id string) (*a2a.Task, error) {
	desc, err := c.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, desc.EndpointURL, a2a.MethodTasksGet, a2a.GetParams{ID: id})
}

// Cancel requests cancellation of a task. Tasks already in a terminal
// state are returned unchanged by the server.
func (c *Client) Cancel(ctx context.Context, baseURL, id string) (*a2a.Task, error) {
	desc, err := c.Discover(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, desc.EndpointURL, a2a.MethodTasksCancel, a2a.CancelParams{ID: id})
}

// WaitForCompletion polls the task until it is terminal or maxWait
// elapses. At least one query is always issued. On timeout the last
// observed task is returned tagged as a timeout failure alongside
// ErrWaitTimeout; the remote task is not canceled.
func (c *Client) WaitForCompletion(ctx context.Context, baseURL, id string, maxWait time.Duration) (*a2a.Task, error) {
	deadline := time.Now().Add(maxWait)
	var last *a2a.Task

	for {
		task, err := c.Query(ctx, baseURL, id)
		if err != nil {
			return last, err
		}
		last = task
		if task.Status.State.Terminal() {
			return task, nil
		}

		if time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	c.log.Warn("task wait timed out", "task_id", id, "base_url", baseURL, "max_wait", maxWait)
	timedOut := *last
	timedOut.Status.State = a2a.StateFailed
	timedOut.Status.Message = a2a.AgentNote(fmt.Sprintf("Task timed out after %s", maxWait))
	timedOut.Status.Timestamp = time.Now().UTC()
	return &timedOut, ErrWaitTimeout
}

// SubmitAndWait submits a task and waits for its completion. If the
// submission response is already terminal the wait is skipped.
func (c *Client) SubmitAndWait(ctx context.Context, baseURL, text string, maxWait time.Duration) (*a2a.Task, error) {
	sub, err := c.Submit(ctx, baseURL, text, "")
	if err != nil {
		return nil, err
	}
	if sub.Task.Status.State.Terminal() {
		return sub.Task, nil
	}
	return c.WaitForCompletion(ctx, baseURL, sub.ID, maxWait)
}

// ExtractResult inspects the first part of the task's first artifact
// and returns a typed view of it.
func (c *Client) ExtractResult(task *a2a.Task) Extracted {
	if task == nil || len(task.Artifacts) == 0 || len(task.Artifacts[0].Parts) == 0 {
		return Extracted{Kind: "none"}
	}
	part := task.Artifacts[0].Parts[0]
	switch part.Kind {
	case a2a.PartText:
		return Extracted{Kind: "text", Data: part.Text}
	case a2a.PartFile:
		if part.File == nil {
			return Extracted{Kind: "unknown", Data: part}
		}
		data := map[string]any{
			"name":     part.File.Name,
			"mimeType": part.File.MimeType,
		}
		if part.File.Bytes != "" {
			data["bytes"] = part.File.Bytes
		}
		if part.File.URI != "" {
			data["uri"] = part.File.URI
		}
		return Extracted{Kind: "file", Data: data}
	case a2a.PartData:
		return Extracted{Kind: "data", Data: part.Data}
	default:
		return Extracted{Kind: "unknown", Data: part}
	}
}

// DiscoverMany discovers all given base URLs concurrently and returns a
// per-URL result map. Individual failures are recorded, never abort the
// batch. Concurrency is bounded by the configured discovery limit.
func (c *Client) DiscoverMany(ctx context.Context, urls []string) map[string]Discovery {
	sem := semaphore.NewWeighted(c.maxDiscovery)
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]Discovery, len(urls))
	)

	for _, url := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			out[url] = Discovery{Err: err}
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer sem.Release(1)
			desc, err := c.Discover(ctx, url)
			mu.Lock()
			out[url] = Discovery{Descriptor: desc, Err: err}
			mu.Unlock()
		}(url)
	}

	wg.Wait()
	return out
}

// call performs one JSON-RPC round trip and decodes the task result.
func (c *Client) call(ctx context.Context, endpoint, method string, params any) (*a2a.Task, error) {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s params: %w", method, err)
	}
	body, err := json.Marshal(a2a.Request{
		ProtocolVersion: a2a.ProtocolVersion,
		Method:          method,
		Params:          rawParams,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", method, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d: %s", method, resp.StatusCode, string(data))
	}

	var envelope struct {
		Result *a2a.Task     `json:"result"`
		Error  *a2a.RPCError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("%s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}
	if envelope.Result == nil {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return envelope.Result, nil
}
