package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentmesh/agentmesh/internal/adapter/otel"
	"github.com/agentmesh/agentmesh/internal/domain"
	a2adomain "github.com/agentmesh/agentmesh/internal/domain/a2a"
	"github.com/agentmesh/agentmesh/internal/port/agentbackend"
	"github.com/agentmesh/agentmesh/internal/port/eventbus"
)

// Handler serves the task protocol for one agent: descriptor discovery
// plus the JSON-RPC verbs tasks/send, tasks/get and tasks/cancel.
type Handler struct {
	meta     AgentMeta
	registry *agentbackend.Registry
	store    *TaskStore
	bus      eventbus.Bus
	metrics  *otel.Metrics
}

// SetMetrics attaches metric instruments for task lifecycle counting.
func (h *Handler) SetMetrics(m *otel.Metrics) {
	h.metrics = m
}

// NewHandler creates a protocol handler. bus may be nil; lifecycle
// events are then skipped.
func NewHandler(meta AgentMeta, registry *agentbackend.Registry, bus eventbus.Bus) *Handler {
	return &Handler{
		meta:     meta,
		registry: registry,
		store:    NewTaskStore(),
		bus:      bus,
	}
}

// MountRoutes registers the protocol routes at the router root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get(a2adomain.WellKnownPath, h.handleDescriptor)
	r.Post("/a2a", h.handleRPC)
}

func (h *Handler) handleDescriptor(w http.ResponseWriter, _ *http.Request) {
	descriptor := BuildDescriptor(h.meta, h.registry.Kinds())
	writeJSON(w, http.StatusOK, descriptor)
}

func (h *Handler) handleRPC(w http.ResponseWriter, r *http.Request) {
	var req a2adomain.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPCError(w, "", a2adomain.CodeInvalidParams, "invalid request body", err.Error())
		return
	}

	switch req.Method {
	case a2adomain.MethodTasksSend:
		h.handleSend(r.Context(), w, req)
	case a2adomain.MethodTasksGet:
		h.handleGet(w, req)
	case a2adomain.MethodTasksCancel:
		h.handleCancel(r.Context(), w, req)
	default:
		writeRPCError(w, req.ID, a2adomain.CodeMethodNotFound, "method not found", req.Method)
	}
}

func (h *Handler) handleSend(ctx context.Context, w http.ResponseWriter, req a2adomain.Request) {
	var params a2adomain.SendParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, req.ID, a2adomain.CodeInvalidParams, "invalid params", err.Error())
		return
	}
	if params.ID == "" {
		params.ID = uuid.NewString()
	}

	if _, err := h.store.Create(params.ID); err != nil {
		if errors.Is(err, domain.ErrTaskExists) {
			writeRPCError(w, req.ID, a2adomain.CodeTaskExists, "task_exists", params.ID)
			return
		}
		writeRPCError(w, req.ID, a2adomain.CodeInternal, "internal error", err.Error())
		return
	}

	input := params.Message.Text()
	slog.Info("task accepted", "task_id", params.ID, "input_len", len(input))
	if h.metrics != nil {
		h.metrics.TasksStarted.Add(ctx, 1)
	}

	taskCtx, span := otel.StartTaskSpan(ctx, params.ID, string(h.meta.Primary))
	task, transitioned := h.execute(taskCtx, params.ID, input)
	span.End()

	if h.metrics != nil {
		switch task.Status.State {
		case a2adomain.StateCompleted:
			h.metrics.TasksCompleted.Add(ctx, 1)
		case a2adomain.StateFailed:
			h.metrics.TasksFailed.Add(ctx, 1)
		}
	}

	// A task canceled mid-execution already emitted its event from the
	// cancel path; only this call's own transition publishes here.
	if transitioned {
		h.publish(ctx, task)
	}
	writeResult(w, req.ID, task)
}

// execute invokes the bound capability synchronously and transitions the
// task at most once. Capability failures and panics become a failed
// task, never an RPC-level error. transitioned is false when the task
// was already terminal before this call could move it.
func (h *Handler) execute(ctx context.Context, taskID, input string) (task a2adomain.Task, transitioned bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("capability panicked", "task_id", taskID, "panic", rec)
			task, transitioned, _ = h.store.Fail(taskID, fmt.Sprintf("Execution error: %v", rec))
		}
	}()

	backend, ok := h.registry.Lookup(h.meta.Primary)
	if !ok {
		task, transitioned, _ = h.store.Fail(taskID, "Task failed: no backend for capability "+string(h.meta.Primary))
		return task, transitioned
	}

	result, err := backend.Invoke(ctx, input)
	if err != nil {
		slog.Error("capability failed", "task_id", taskID, "error", err)
		task, transitioned, _ = h.store.Fail(taskID, "Execution error: "+err.Error())
		return task, transitioned
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Unknown error occurred"
		}
		task, transitioned, _ = h.store.Fail(taskID, "Task failed: "+msg)
		return task, transitioned
	}

	artifact := BuildArtifact(result)
	task, transitioned, _ = h.store.Complete(taskID, []a2adomain.Artifact{artifact}, "Task completed successfully")
	return task, transitioned
}

func (h *Handler) handleGet(w http.ResponseWriter, req a2adomain.Request) {
	var params a2adomain.GetParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, req.ID, a2adomain.CodeInvalidParams, "invalid params", err.Error())
		return
	}

	task, err := h.store.Get(params.ID)
	if err != nil {
		// Not-found is an HTTP-level 404, not an RPC error.
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}
	writeResult(w, req.ID, task)
}

func (h *Handler) handleCancel(ctx context.Context, w http.ResponseWriter, req a2adomain.Request) {
	var params a2adomain.CancelParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeRPCError(w, req.ID, a2adomain.CodeInvalidParams, "invalid params", err.Error())
		return
	}

	task, canceled, err := h.store.Cancel(params.ID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}
	// Only an actual transition emits an event; a repeated cancel on a
	// terminal task must not re-publish.
	if canceled {
		h.publish(ctx, task)
	}
	writeResult(w, req.ID, task)
}

// publish emits a lifecycle event for a terminal task. Best-effort: a
// publish failure is logged and never affects the RPC response.
func (h *Handler) publish(ctx context.Context, task a2adomain.Task) {
	if h.bus == nil {
		return
	}

	var subject string
	switch task.Status.State {
	case a2adomain.StateCompleted:
		subject = eventbus.SubjectTaskCompleted
	case a2adomain.StateFailed:
		subject = eventbus.SubjectTaskFailed
	case a2adomain.StateCanceled:
		subject = eventbus.SubjectTaskCanceled
	default:
		return
	}

	data, err := json.Marshal(task)
	if err != nil {
		return
	}
	if err := h.bus.Publish(ctx, subject, data); err != nil {
		slog.Error("task event publish failed", "task_id", task.ID, "subject", subject, "error", err)
	}
}

func writeResult(w http.ResponseWriter, id string, result any) {
	writeJSON(w, http.StatusOK, a2adomain.Response{
		ProtocolVersion: a2adomain.ProtocolVersion,
		ID:              id,
		Result:          result,
	})
}

func writeRPCError(w http.ResponseWriter, id string, code int, message string, data any) {
	writeJSON(w, http.StatusOK, a2adomain.Response{
		ProtocolVersion: a2adomain.ProtocolVersion,
		ID:              id,
		Error:           &a2adomain.RPCError{Code: code, Message: message, Data: data},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
