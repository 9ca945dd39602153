package driven

import "context"

// Session is a short-lived data-access handle. A session is exclusive to one
// goroutine and must be closed on every path by whoever opened it: the event
// gate's session never outlives the synchronous handling call, and a
// background task's session never outlives the task.
type Session interface {
	Close() error
}

// SessionFactory opens data-access sessions.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}
