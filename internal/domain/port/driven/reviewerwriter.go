package driven

import (
	"context"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// ReviewerWriter performs the externally visible side effect: attaching
// reviewers to a change.
type ReviewerWriter interface {
	RequestReviewers(ctx context.Context, project string, changeNumber int, reviewers []model.Account) error
}
