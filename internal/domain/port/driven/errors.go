package driven

import "errors"

// Sentinel errors used to classify directory and queue failures. The
// resolver's per-specifier error handling depends on distinguishing
// "definitely not there" from infrastructure failures.
var (
	// ErrNoSuchGroup reports that a specifier names no known group. Together
	// with a nil account from ResolveAccount it means the specifier is
	// neither an account nor a group, an expected non-fatal outcome.
	ErrNoSuchGroup = errors.New("no such group")

	// ErrNoSuchProject reports that group expansion was scoped to a project
	// the directory does not know.
	ErrNoSuchProject = errors.New("no such project")

	// ErrQueueFull reports that the work queue's buffer is full and the job
	// was not accepted.
	ErrQueueFull = errors.New("work queue full")
)
