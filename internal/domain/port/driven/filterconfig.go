package driven

import (
	"context"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// FilterConfigStore loads the per-project reviewer filter sections, in
// configuration order. The configuration is read-only from this system's
// perspective; reload and mutation belong to the host.
type FilterConfigStore interface {
	LoadSections(ctx context.Context, project string) ([]model.FilterSection, error)
}
