package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Resolver turns reviewer specifiers into concrete accounts. Specifier
// strings carry no discriminant between accounts and groups, so resolution
// probes the cheaper account namespace first and falls back to group
// expansion on a definite not-found.
type Resolver struct {
	directory driven.Directory
}

// NewResolver creates a Resolver backed by the given directory.
func NewResolver(directory driven.Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve resolves each specifier best-effort and returns the deduplicated
// set of accounts, sorted by account ID. One bad specifier never blocks the
// others: unknown specifiers and directory failures are logged as warnings
// and skipped.
//
// Group expansion acts as the unique account owning uploaderEmail, looked up
// lazily at most once per call. Zero or multiple owners of that email is a
// directory inconsistency, not a bad specifier, and aborts the whole call.
func (r *Resolver) Resolve(ctx context.Context, s driven.Session, project string, specifiers []string, uploaderEmail string) ([]model.Account, error) {
	resolved := make(map[int64]model.Account, len(specifiers))

	// Memoization cell for the group-expansion seed identity. Valid only for
	// this call's event, so it is local state rather than a shared cache.
	var seed *model.Account
	seedAccount := func() (model.Account, error) {
		if seed != nil {
			return *seed, nil
		}
		owners, err := r.directory.AccountsByEmail(ctx, s, uploaderEmail)
		if err != nil {
			return model.Account{}, fmt.Errorf("looking up uploader email %q: %w", uploaderEmail, err)
		}
		if len(owners) != 1 {
			return model.Account{}, fmt.Errorf("uploader email %q owned by %d accounts, want exactly 1", uploaderEmail, len(owners))
		}
		seed = &owners[0]
		return *seed, nil
	}

	for _, specifier := range specifiers {
		account, err := r.directory.ResolveAccount(ctx, s, specifier)
		if err != nil {
			// The lookup itself failed; a missing account would have come
			// back as (nil, nil). Don't guess at the group namespace on top
			// of a broken lookup.
			slog.Warn("account lookup failed",
				"specifier", specifier,
				"project", project,
				"error", err,
			)
			continue
		}
		if account != nil {
			resolved[account.ID] = *account
			continue
		}

		asUser, err := seedAccount()
		if err != nil {
			return nil, err
		}

		group, err := r.directory.ResolveGroup(ctx, s, specifier)
		if err != nil {
			if errors.Is(err, driven.ErrNoSuchGroup) {
				slog.Warn("reviewer is neither an account nor a group",
					"specifier", specifier,
					"project", project,
				)
			} else {
				slog.Warn("group lookup failed",
					"specifier", specifier,
					"project", project,
					"error", err,
				)
			}
			continue
		}

		members, err := r.directory.ListGroupMembers(ctx, s, asUser, *group, project)
		if err != nil {
			if errors.Is(err, driven.ErrNoSuchProject) {
				slog.Warn("cannot list group members: unknown project",
					"group", group.Name,
					"project", project,
				)
			} else {
				slog.Warn("listing group members failed",
					"group", group.Name,
					"project", project,
					"error", err,
				)
			}
			continue
		}

		for _, m := range members {
			resolved[m.ID] = m
		}
	}

	accounts := make([]model.Account, 0, len(resolved))
	for _, a := range resolved {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	return accounts, nil
}
