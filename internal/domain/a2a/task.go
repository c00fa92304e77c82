// Package a2a defines the wire-level types of the agent task protocol:
// tasks and their lifecycle, messages, artifacts, agent descriptors and
// the JSON-RPC envelope.
package a2a

import "time"

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	StateWorking   TaskState = "working"
	StateCompleted TaskState = "completed"
	StateFailed    TaskState = "failed"
	StateCanceled  TaskState = "canceled"
)

// Terminal reports whether the state is final. A task in a terminal
// state is never mutated again.
func (s TaskState) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCanceled
}

// TaskStatus holds the current state of a task plus an optional
// human-readable note. Timestamp is updated on every transition.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is one invocation instance of a capability. Artifacts are present
// only once the task completed successfully.
type Task struct {
	ID        string     `json:"id"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Message is a role-attributed list of parts.
type Message struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// NewTask creates a task in the working state.
func NewTask(id string) *Task {
	return &Task{
		ID: id,
		Status: TaskStatus{
			State:     StateWorking,
			Timestamp: time.Now().UTC(),
		},
	}
}

// AgentNote builds the agent-role status message used on transitions.
func AgentNote(text string) *Message {
	return &Message{
		Role:  "agent",
		Parts: []Part{TextPart(text)},
	}
}

// Text concatenates the text of all text parts in the message.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Kind == PartText {
			out += p.Text
		}
	}
	return out
}
