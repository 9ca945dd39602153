package driven

import "context"

// Job is one fire-and-forget unit of work. Run executes at most once, off
// the submitting goroutine, with no ordering guarantee relative to other
// jobs. There is no cancellation or retry; a job runs to completion or
// fails, and failure handling belongs to the job itself.
type Job struct {
	Name string
	Run  func(ctx context.Context)
}

// WorkQueue is the shared background execution facility. Submit is
// non-blocking; it returns ErrQueueFull when the job cannot be accepted.
type WorkQueue interface {
	Submit(job Job) error
}
