// Package eventbus defines the port for publishing task lifecycle events.
package eventbus

import "context"

// Subjects for task lifecycle events.
const (
	SubjectTaskCompleted = "tasks.completed"
	SubjectTaskFailed    = "tasks.failed"
	SubjectTaskCanceled  = "tasks.canceled"
)

// Bus publishes serialized events to a subject. Implementations must be
// safe for concurrent use. A nil Bus is allowed everywhere it is
// consumed: publishing is best-effort and never blocks task handling.
type Bus interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}
