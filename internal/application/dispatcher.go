package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Task is one background unit of work. It receives the TaskContext the
// Dispatcher scoped to this execution; it must not capture sessions or other
// per-event state from the submitting goroutine.
type Task func(ctx context.Context, tc *TaskContext) error

// TaskContext carries the acting identity and data-access resources of one
// dispatched task. It is created when the task starts and released when the
// task finishes, on every exit path. The acting user is the change owner,
// not the uploader who triggered the event.
type TaskContext struct {
	user     model.Account
	sessions driven.SessionFactory
	session  driven.Session
}

// User returns the identity the task executes as.
func (tc *TaskContext) User() model.Account {
	return tc.user
}

// Session returns the task's data-access session, opening it on first use.
// Tasks that never touch storage never pay for a session.
func (tc *TaskContext) Session(ctx context.Context) (driven.Session, error) {
	if tc.session != nil {
		return tc.session, nil
	}
	s, err := tc.sessions.Open(ctx)
	if err != nil {
		return nil, err
	}
	tc.session = s
	return s, nil
}

func (tc *TaskContext) release() {
	if tc.session == nil {
		return
	}
	if err := tc.session.Close(); err != nil {
		slog.Error("closing task session", "error", err)
	}
	tc.session = nil
}

// Dispatcher hands units of work to the shared background queue, scoping a
// TaskContext around each execution.
type Dispatcher struct {
	queue    driven.WorkQueue
	sessions driven.SessionFactory
}

// NewDispatcher creates a Dispatcher submitting to the given queue.
func NewDispatcher(queue driven.WorkQueue, sessions driven.SessionFactory) *Dispatcher {
	return &Dispatcher{queue: queue, sessions: sessions}
}

// Submit enqueues the task to run later, off the calling goroutine, acting
// as actingUser. The TaskContext is released after the task returns or
// panics; a failed task is terminal and logged, never retried.
func (d *Dispatcher) Submit(name string, actingUser model.Account, task Task) error {
	return d.queue.Submit(driven.Job{
		Name: name,
		Run: func(ctx context.Context) {
			tc := &TaskContext{user: actingUser, sessions: d.sessions}
			defer tc.release()

			if err := task(ctx, tc); err != nil {
				slog.Error("background task failed",
					"task", name,
					"acting_user", actingUser.Username,
					"error", err,
				)
			}
		},
	})
}
