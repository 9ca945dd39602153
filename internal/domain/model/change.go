package model

// Change is the evaluable view of one change under review, loaded through a
// data-access session for the duration of a single event-handling call.
// The predicate engine matches filter expressions against these fields.
type Change struct {
	Project string // Full project name, e.g. "owner/repo".
	Number  int
	Branch  string
	Topic   string
	Subject string
	Owner   Account // Background work acts as the owner, not the uploader.
	Files   []string
	WIP     bool
	Private bool
}
