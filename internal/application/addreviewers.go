package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// AddReviewersTask is the background unit of work built by the event gate:
// attach a resolved set of reviewers to one change, then record the
// assignments. It captures only immutable state; storage access goes through
// the TaskContext's own session.
type AddReviewersTask struct {
	writer      driven.ReviewerWriter
	assignments driven.AssignmentStore

	project      string
	changeNumber int
	reviewers    []model.Account
}

// NewAddReviewersTask binds a task to a concrete change and reviewer set.
func NewAddReviewersTask(writer driven.ReviewerWriter, assignments driven.AssignmentStore, project string, changeNumber int, reviewers []model.Account) *AddReviewersTask {
	return &AddReviewersTask{
		writer:       writer,
		assignments:  assignments,
		project:      project,
		changeNumber: changeNumber,
		reviewers:    reviewers,
	}
}

// Run requests the reviewers and writes one audit record per reviewer,
// attributed to the task's acting user.
func (t *AddReviewersTask) Run(ctx context.Context, tc *TaskContext) error {
	if err := t.writer.RequestReviewers(ctx, t.project, t.changeNumber, t.reviewers); err != nil {
		return fmt.Errorf("requesting reviewers for %s~%d: %w", t.project, t.changeNumber, err)
	}

	s, err := tc.Session(ctx)
	if err != nil {
		return fmt.Errorf("opening session for assignment records: %w", err)
	}

	now := time.Now().UTC()
	for _, reviewer := range t.reviewers {
		a := model.Assignment{
			Project:      t.project,
			ChangeNumber: t.changeNumber,
			AccountID:    reviewer.ID,
			AssignedByID: tc.User().ID,
			AssignedAt:   now,
		}
		if err := t.assignments.Record(ctx, s, a); err != nil {
			return fmt.Errorf("recording assignment of %s to %s~%d: %w", reviewer.Username, t.project, t.changeNumber, err)
		}
	}

	slog.Info("reviewers added",
		"project", t.project,
		"change", t.changeNumber,
		"count", len(t.reviewers),
		"acting_user", tc.User().Username,
	)
	return nil
}
