package model

// EventKind discriminates the events delivered by the host's event stream.
type EventKind string

// EventRevisionCreated is the only kind this system reacts to: a new
// revision of a change was pushed.
const EventRevisionCreated EventKind = "revision-created"

// AccountRef is the identity attached to an event. Unlike Account it is not
// directory-backed; the email is the only field resolution relies on.
type AccountRef struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ChangeRef identifies the change an event refers to. The full change is
// loaded through a session when handling begins.
type ChangeRef struct {
	Number int    `json:"number"`
	Branch string `json:"branch"`
}

// Event is one structured value from the host's event stream.
type Event struct {
	Kind     EventKind  `json:"type"`
	Project  string     `json:"project"`
	Change   ChangeRef  `json:"change"`
	Uploader AccountRef `json:"uploader"`
}
