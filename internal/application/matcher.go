// Package application contains the reviewer-assignment use cases: rule
// matching, specifier resolution, and background dispatch.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Matcher selects the filter sections that apply to a change.
type Matcher struct {
	engine driven.PredicateEngine
}

// NewMatcher creates a Matcher backed by the given predicate engine.
func NewMatcher(engine driven.PredicateEngine) *Matcher {
	return &Matcher{engine: engine}
}

// Match returns the subset of sections whose filter matches the change, in
// the original order. Empty and "*" filters match unconditionally and are
// never parsed. A parse or evaluation failure on any section fails the whole
// call: sections are independent, so a failure is misconfiguration and must
// not be masked by silently skipping the section.
func (m *Matcher) Match(ctx context.Context, sections []model.FilterSection, change *model.Change, asUser string) ([]model.FilterSection, error) {
	var matched []model.FilterSection

	for _, s := range sections {
		if s.MatchesAll() {
			matched = append(matched, s)
			continue
		}

		pred, err := m.engine.Parse(s.Filter, asUser)
		if err != nil {
			return nil, fmt.Errorf("parsing filter %q: %w", s.Filter, err)
		}

		ok, err := pred.Match(change)
		if err != nil {
			return nil, fmt.Errorf("evaluating filter %q against %s~%d: %w", s.Filter, change.Project, change.Number, err)
		}
		if ok {
			matched = append(matched, s)
			slog.Debug("filter section matched",
				"project", change.Project,
				"change", change.Number,
				"filter", s.Filter,
			)
		}
	}

	return matched, nil
}

// UnionReviewers collects the reviewer specifiers of the given sections into
// a deduplicated set, preserving first-seen order.
func UnionReviewers(sections []model.FilterSection) []string {
	seen := make(map[string]struct{})
	var specifiers []string

	for _, s := range sections {
		for _, r := range s.Reviewers {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			specifiers = append(specifiers, r)
		}
	}

	return specifiers
}
