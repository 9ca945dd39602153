package model

import "time"

// Assignment is one audit record of reviewers added to a change by a
// background task.
type Assignment struct {
	ID           int64
	Project      string
	ChangeNumber int
	AccountID    int64 // The reviewer that was added.
	AssignedByID int64 // The acting identity of the task (the change owner).
	AssignedAt   time.Time
}
