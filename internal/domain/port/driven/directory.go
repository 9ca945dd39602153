package driven

import (
	"context"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// Directory is the identity directory: account lookup, email ownership, and
// group membership expansion.
type Directory interface {
	// ResolveAccount resolves a free-form specifier (numeric ID, username,
	// registered email, or unique full name) to an account. It returns
	// (nil, nil) on a definite not-found; a non-nil error means the lookup
	// itself failed and says nothing about whether the account exists.
	ResolveAccount(ctx context.Context, s Session, specifier string) (*model.Account, error)

	// AccountsByEmail returns every account that registered the given email.
	// More than one entry indicates a directory inconsistency the caller
	// must treat as fatal when the email seeds group expansion.
	AccountsByEmail(ctx context.Context, s Session, email string) ([]model.Account, error)

	// ResolveGroup resolves a specifier to a group handle. It returns
	// ErrNoSuchGroup when the specifier names no group.
	ResolveGroup(ctx context.Context, s Session, specifier string) (*model.Group, error)

	// ListGroupMembers expands a group to its member accounts, scoped to the
	// given project's visibility rules, acting as asUser. It returns
	// ErrNoSuchProject for an unknown project.
	ListGroupMembers(ctx context.Context, s Session, asUser model.Account, group model.Group, project string) ([]model.Account, error)
}
