// Package tasks tracks the lifecycle of upload processing jobs so that clients can poll
// for the outcome.
package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task. Processing tasks transition exactly once to
// either completed or error.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Task is the pollable state of one upload job.
type Task struct {
	Status Status `json:"status"`
	// FileURL references the finished report; set only on completion.
	FileURL string `json:"file_url,omitempty"`
	// Message is the user-facing failure explanation; set only on error.
	Message string `json:"message,omitempty"`

	finishedAt time.Time
}

// DefaultTTL is how long finished tasks stay pollable before eviction.
const DefaultTTL = 24 * time.Hour

// Registry is an in-memory, concurrency-safe task store. Finished tasks are evicted
// after their TTL; tasks still processing are never evicted. State does not survive a
// restart.
type Registry struct {
	mu     sync.Mutex
	tasks  map[string]Task
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		tasks:  make(map[string]Task),
		ttl:    ttl,
		logger: logger.With("source", "Registry"),
		now:    time.Now,
	}
}

// Create registers a new task in the processing state and returns its ID.
func (r *Registry) Create() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.tasks[id] = Task{Status: StatusProcessing}
	r.mu.Unlock()
	r.logger.Debug("task created", "task_id", id)
	return id
}

// Complete marks the task as finished with the report URL. Unknown IDs are ignored.
func (r *Registry) Complete(id, fileURL string) {
	r.finish(id, Task{Status: StatusCompleted, FileURL: fileURL})
}

// Fail marks the task as failed with a user-facing message. Unknown IDs are ignored.
func (r *Registry) Fail(id, message string) {
	r.finish(id, Task{Status: StatusError, Message: message})
}

func (r *Registry) finish(id string, task Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return
	}
	task.finishedAt = r.now()
	r.tasks[id] = task
	r.logger.Debug("task finished", "task_id", id, "status", task.Status)
}

// Get returns the task state. The second return is false when the ID is unknown or the
// task has been evicted.
func (r *Registry) Get(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	return task, ok
}

// Start runs the eviction janitor until ctx is cancelled. Sweeps happen at quarter-TTL
// intervals so that entries outlive their TTL by a bounded margin.
func (r *Registry) Start(ctx context.Context) {
	ticker := time.NewTicker(r.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictExpired()
		}
	}
}

func (r *Registry) evictExpired() {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, task := range r.tasks {
		if task.Status == StatusProcessing {
			continue
		}
		if task.finishedAt.Before(cutoff) {
			delete(r.tasks, id)
			r.logger.Debug("task evicted", "task_id", id)
		}
	}
}
