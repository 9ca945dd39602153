package driven

import (
	"context"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// ChangeStore loads the evaluable view of a change through a session.
// GetChange returns (nil, nil) when the change is unknown.
type ChangeStore interface {
	GetChange(ctx context.Context, s Session, project string, number int) (*model.Change, error)
}
