package driven

import (
	"context"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// AssignmentStore records reviewer assignments for auditing. Records are
// written by background tasks through their own sessions.
type AssignmentStore interface {
	Record(ctx context.Context, s Session, a model.Assignment) error
	ListByChange(ctx context.Context, s Session, project string, changeNumber int) ([]model.Assignment, error)
}
